package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// LoadFile reads a JSON array of records from path.
func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Load(file)
}

// Load decodes a JSON array of records and builds a Store from them.
// Text fields are stripped of terminal escapes and surrounding spaces,
// and records without an id get a fresh one.
func Load(r io.Reader) (*Store, error) {
	var raw []Record
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	records := lo.Map(raw, func(rec Record, _ int) Record {
		rec.Name = clean(rec.Name)
		rec.DOB = clean(rec.DOB)
		rec.Postcode = clean(rec.Postcode)
		rec.AccountNum = clean(rec.AccountNum)
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		return rec
	})

	return NewStore(records)
}

func clean(s string) string {
	return strings.TrimSpace(stripansi.Strip(s))
}
