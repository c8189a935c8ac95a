package client

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// DOBLayout is the fixed format dates of birth are rendered with.
const DOBLayout = "Mon Jan 02 2006"

var (
	// ErrEmptyAccountNum is returned when a record has no account number.
	ErrEmptyAccountNum = errors.New("empty account number")

	// ErrDuplicateAccountNum is returned when two records share an account number.
	ErrDuplicateAccountNum = errors.New("duplicate account number")
)

// DuplicateAccountError names the account number that appeared twice.
type DuplicateAccountError struct {
	AccountNum string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("account number '%s' appears more than once", e.AccountNum)
}

func (e *DuplicateAccountError) Is(target error) bool {
	return target == ErrDuplicateAccountNum
}

// Record is one entry of the client directory.
type Record struct {
	ID         string `json:"id"`         // opaque unique id, never reused
	Name       string `json:"name"`       // display name
	DOB        string `json:"dob"`        // date of birth, DOBLayout
	Postcode   string `json:"postcode"`   // postal code
	AccountNum string `json:"accountNum"` // reference key, unique
}

// Store is an immutable collection of records ordered by name.
type Store struct {
	records  []Record
	position map[string]int
}

// NewStore validates the records and returns them sorted by name.
// The input slice is copied and never modified.
func NewStore(records []Record) (*Store, error) {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	if err := Validate(sorted); err != nil {
		return nil, err
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	position := make(map[string]int, len(sorted))
	for i, r := range sorted {
		position[r.AccountNum] = i
	}

	return &Store{records: sorted, position: position}, nil
}

// Validate checks that every account number is present and unique.
func Validate(records []Record) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.AccountNum == "" {
			return fmt.Errorf("record %q: %w", r.Name, ErrEmptyAccountNum)
		}
		if _, ok := seen[r.AccountNum]; ok {
			return &DuplicateAccountError{AccountNum: r.AccountNum}
		}
		seen[r.AccountNum] = struct{}{}
	}
	return nil
}

// All returns a copy of the records in name order.
func (s *Store) All() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Lookup finds the record with exactly the given account number.
func (s *Store) Lookup(accountNum string) (Record, bool) {
	i, ok := s.position[accountNum]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Position returns the index of the record in name order, or -1.
func (s *Store) Position(accountNum string) int {
	if i, ok := s.position[accountNum]; ok {
		return i
	}
	return -1
}

// AccountNums returns the reference keys in store order.
func (s *Store) AccountNums() []string {
	return lo.Map(s.records, func(r Record, _ int) string {
		return r.AccountNum
	})
}
