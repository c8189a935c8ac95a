package client

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

var firstNames = []string{
	"Alice", "Amelia", "Arthur", "Ava", "Charlie", "Charlotte", "Daniel",
	"Emily", "Ethan", "Evie", "Freddie", "George", "Grace", "Harry",
	"Isabella", "Isla", "Jack", "Jacob", "James", "Lily", "Mia", "Noah",
	"Oliver", "Olivia", "Oscar", "Poppy", "Rosie", "Sophie", "Thomas",
	"William",
}

var lastNames = []string{
	"Baker", "Brown", "Clarke", "Davies", "Evans", "Green", "Hall",
	"Harris", "Hughes", "Jackson", "Johnson", "Jones", "Lewis", "Martin",
	"Patel", "Roberts", "Robinson", "Smith", "Taylor", "Thomas",
	"Thompson", "Walker", "White", "Williams", "Wilson", "Wood", "Wright",
}

const postcodeLetters = "ABCDEFGHJKLMNPRSTUWXYZ"

// Generator produces fake en_GB client records.
type Generator struct {
	rnd *rand.Rand
	now time.Time
}

// NewGenerator returns a generator. A zero seed picks one from the clock.
func NewGenerator(seed int64, now time.Time) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed)), now: now}
}

// Generate creates n records with unique account numbers, sorted by name.
func Generate(n int, seed int64) (*Store, error) {
	return NewGenerator(seed, time.Now()).Store(n)
}

// Store creates n records and wraps them in a Store.
func (g *Generator) Store(n int) (*Store, error) {
	return NewStore(g.Records(n))
}

// Records creates n records with unique account numbers.
func (g *Generator) Records(n int) []Record {
	records := make([]Record, 0, n)
	accounts := make(map[string]struct{}, n)

	for len(records) < n {
		account := g.accountNum()
		if _, taken := accounts[account]; taken {
			continue
		}
		accounts[account] = struct{}{}

		records = append(records, Record{
			ID:         uuid.NewString(),
			Name:       g.name(),
			DOB:        g.dob().Format(DOBLayout),
			Postcode:   g.postcode(),
			AccountNum: account,
		})
	}

	return records
}

func (g *Generator) name() string {
	return firstNames[g.rnd.Intn(len(firstNames))] + " " + lastNames[g.rnd.Intn(len(lastNames))]
}

// dob picks a date between 25 and 50 years in the past.
func (g *Generator) dob() time.Time {
	years := 25 + g.rnd.Intn(25)
	days := 1 + g.rnd.Intn(365*years)
	return g.now.AddDate(0, 0, -days)
}

func (g *Generator) letter() byte {
	return postcodeLetters[g.rnd.Intn(len(postcodeLetters))]
}

// postcode renders an "AB1 2CD" style code.
func (g *Generator) postcode() string {
	return fmt.Sprintf("%c%c%d %d%c%c",
		g.letter(), g.letter(), 1+g.rnd.Intn(20),
		g.rnd.Intn(10), g.letter(), g.letter())
}

func (g *Generator) accountNum() string {
	return fmt.Sprintf("%08d", g.rnd.Intn(100000000))
}
