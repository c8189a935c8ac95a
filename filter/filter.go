// Package filter holds the view state of the client directory: either every
// record, or the records matching the most recent query.
package filter

import (
	"fmt"
	"log"
	"sync"

	"github.com/noelzubin/clients_search/client"
	"github.com/noelzubin/clients_search/search"
)

// BuildFunc builds a search index over a store snapshot.
type BuildFunc func(store *client.Store) (search.ClientIndexer, error)

// Event is one interaction with a filter field: a keystroke, or the field
// losing focus. An empty Input clears the filter.
type Event struct {
	Field search.Field
	Input string
}

// Filter applies events to the current state. It owns the store and the
// index built from it; both are replaced together by Rebuild.
type Filter struct {
	mu    sync.RWMutex
	store *client.Store
	index search.ClientIndexer
	build BuildFunc
	state search.FilterState
	last  Event
}

// New builds the index for store and starts unfiltered.
func New(store *client.Store, build BuildFunc) (*Filter, error) {
	index, err := build(store)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	return &Filter{
		store: store,
		index: index,
		build: build,
		state: search.UnfilteredState(),
	}, nil
}

// Apply resolves the event and makes the result the current state.
// Only the latest event counts; filters on the two fields never combine.
func (f *Filter) Apply(ev Event) search.FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := search.Resolve(ev.Input, ev.Field, f.index, f.store)
	if f.state.Mode != next.Mode {
		log.Printf("filter %s -> %s (%s %q)", f.state.Mode, next.Mode, ev.Field, ev.Input)
	}

	f.state = next
	f.last = ev
	return next
}

// Clear drops any active query.
func (f *Filter) Clear() search.FilterState {
	return f.Apply(Event{Field: f.Last().Field})
}

// State returns the current state.
func (f *Filter) State() search.FilterState {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Last returns the most recently applied event.
func (f *Filter) Last() Event {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.last
}

// Visible returns the records to display: the whole store when
// unfiltered, otherwise the filtered results (possibly none).
func (f *Filter) Visible() []client.Record {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.state.Mode == search.Unfiltered {
		return f.store.All()
	}
	return f.state.Results
}

// Store returns the store the filter searches.
func (f *Filter) Store() *client.Store {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.store
}

// Rebuild indexes a new snapshot and swaps it in together with its index.
// The filter is reset to unfiltered. On error nothing changes.
func (f *Filter) Rebuild(store *client.Store) error {
	index, err := f.build(store)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	f.mu.Lock()
	old := f.index
	f.store = store
	f.index = index
	f.state = search.UnfilteredState()
	f.last = Event{}
	f.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			log.Printf("close previous index: %v", err)
		}
	}
	return nil
}

// Close releases the index.
func (f *Filter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.index == nil {
		return nil
	}
	err := f.index.Close()
	f.index = nil
	return err
}
