package search

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned for a field that has no query builder.
	ErrUnknownField = errors.New("unknown search field")

	// ErrIndexClosed is returned when searching an index after Close.
	ErrIndexClosed = errors.New("index closed")
)

// Field selects which record field a query is scoped to.
type Field int

const (
	Name Field = iota
	Postcode
)

func (f Field) String() string {
	switch f {
	case Name:
		return "name"
	case Postcode:
		return "postcode"
	default:
		return "unknown"
	}
}

// ParseField maps "name" or "postcode" to a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name":
		return Name, nil
	case "postcode":
		return Postcode, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Operator is how a query term is matched against a field.
type Operator int

const (
	// Contains matches when the term appears anywhere inside a field's tokens.
	Contains Operator = iota
)

func (o Operator) String() string {
	if o == Contains {
		return "contains"
	}
	return "unknown"
}

// Query is a structured, single field search. The term is never spliced
// into a query string; the index decides how to match it.
type Query struct {
	Field Field
	Op    Operator
	Term  string
}

func (q Query) String() string {
	return fmt.Sprintf("%s %s %q", q.Field, q.Op, q.Term)
}

// queryBuilders maps every searchable field to the query it produces.
var queryBuilders = map[Field]func(term string) Query{
	Name: func(term string) Query {
		return Query{Field: Name, Op: Contains, Term: term}
	},
	Postcode: func(term string) Query {
		return Query{Field: Postcode, Op: Contains, Term: term}
	},
}

// NewQuery builds the contains query for field.
func NewQuery(field Field, term string) (Query, error) {
	build, ok := queryBuilders[field]
	if !ok {
		return Query{}, fmt.Errorf("%w: %d", ErrUnknownField, int(field))
	}
	return build(term), nil
}

// Hit is one match returned by the index.
type Hit struct {
	Ref   string  // reference key (account number) of the matched record
	Score float64 // relevance, not used for display order
}

// The index built over the client records. Implementations are read only
// once built and may be queried concurrently.
type ClientIndexer interface {
	Search(q Query) ([]Hit, error) // Search the index for the given query.
	DocCount() (uint64, error)     // Number of indexed records.
	Close() error                  // Release the index.
}
