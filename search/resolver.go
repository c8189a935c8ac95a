package search

import (
	"log"
	"sort"
	"strings"

	"github.com/noelzubin/clients_search/client"
	"github.com/samber/lo"
)

// Mode tells whether a query is active.
type Mode int

const (
	Unfiltered Mode = iota // no active query, show every record
	Filtered               // query active, show Results (possibly none)
)

func (m Mode) String() string {
	if m == Filtered {
		return "filtered"
	}
	return "unfiltered"
}

// FilterState is the currently displayed result set.
type FilterState struct {
	Mode    Mode
	Results []client.Record // only meaningful when Mode is Filtered
}

// UnfilteredState is the state with no active query.
func UnfilteredState() FilterState {
	return FilterState{Mode: Unfiltered}
}

// FilteredState wraps results; nil becomes an empty, non-nil slice.
func FilteredState(results []client.Record) FilterState {
	if results == nil {
		results = []client.Record{}
	}
	return FilterState{Mode: Filtered, Results: results}
}

// Resolve runs the raw input as a contains query on field and returns the
// matching records sorted by name.
//
// Blank input clears the filter. Hits without a record in store are
// dropped, and a failing index yields an empty filtered state, so any
// keystroke is safe to pass through.
func Resolve(input string, field Field, index ClientIndexer, store *client.Store) FilterState {
	term := strings.TrimSpace(input)
	if term == "" || index == nil || store == nil {
		return UnfilteredState()
	}

	query, err := NewQuery(field, term)
	if err != nil {
		log.Printf("build query: %v", err)
		return FilteredState(nil)
	}

	hits, err := index.Search(query)
	if err != nil {
		log.Printf("search %s: %v", query, err)
		return FilteredState(nil)
	}

	refs := lo.Uniq(lo.Map(hits, func(hit Hit, _ int) string {
		return hit.Ref
	}))

	records := lo.FilterMap(refs, func(ref string, _ int) (client.Record, bool) {
		return store.Lookup(ref)
	})

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return store.Position(records[i].AccountNum) < store.Position(records[j].AccountNum)
	})

	return FilteredState(records)
}
