package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noelzubin/clients_search/client"
	"github.com/noelzubin/clients_search/editor"
	"github.com/noelzubin/clients_search/filter"
	"github.com/noelzubin/clients_search/search"
	"github.com/noelzubin/clients_search/search/bleve_indexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []client.Record {
	return []client.Record{
		{ID: "a", Name: "Alice Smith", DOB: "Tue Mar 14 1989", Postcode: "AB1 2CD", AccountNum: "001"},
		{ID: "b", Name: "Bob Jones", DOB: "Sat Jul 01 1978", Postcode: "EF3 4GH", AccountNum: "002"},
	}
}

func newTestModel(t *testing.T, reload func() (*client.Store, error)) Model {
	t.Helper()
	store, err := client.NewStore(testRecords())
	require.NoError(t, err)

	f, err := filter.New(store, bleve_indexer.Builder(bleve_indexer.Options{}))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })

	if reload == nil {
		reload = func() (*client.Store, error) { return store, nil }
	}
	return *New(f, reload, "", "true")
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func press(m Model, key tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(Model), cmd
}

func TestNew_ShowsAllClients(t *testing.T) {
	m := newTestModel(t, nil)

	assert.Equal(t, search.Name, m.focus)
	assert.Len(t, m.table.Rows(), 2)
	assert.Contains(t, m.View(), "Alice Smith")
	assert.Contains(t, m.View(), "2 clients")
}

func TestUpdate_TypingFiltersEveryKeystroke(t *testing.T) {
	m := newTestModel(t, nil)

	m = typeText(m, "a")
	assert.Equal(t, search.Filtered, m.filter.State().Mode)

	m = typeText(m, "li")
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Alice Smith", m.table.Rows()[0][0])
	assert.Contains(t, m.View(), "1 of 2 clients")
}

func TestUpdate_NoMatchesIsNotEverything(t *testing.T) {
	m := newTestModel(t, nil)

	m = typeText(m, "zz")

	assert.Empty(t, m.table.Rows())
	assert.Contains(t, m.View(), noMatches)
}

func TestUpdate_BackspaceToEmptyClears(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeText(m, "b")
	require.Equal(t, search.Filtered, m.filter.State().Mode)

	m, _ = press(m, tea.KeyBackspace)

	assert.Equal(t, search.Unfiltered, m.filter.State().Mode)
	assert.Len(t, m.table.Rows(), 2)
}

func TestUpdate_TabSwitchesField(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(m, tea.KeyTab)
	assert.Equal(t, search.Postcode, m.focus)

	m = typeText(m, "AB1")
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Alice Smith", m.table.Rows()[0][0])
	assert.Equal(t, search.Postcode, m.filter.Last().Field)
}

func TestUpdate_BlurringEmptyFieldClears(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(m, tea.KeyTab)
	m = typeText(m, "EF3")
	require.Equal(t, search.Filtered, m.filter.State().Mode)

	// back to name, then leave the empty name field
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)

	assert.Equal(t, search.Unfiltered, m.filter.State().Mode)
}

func TestUpdate_ReloadRebuildsAndClearsInputs(t *testing.T) {
	next, err := client.NewStore([]client.Record{{Name: "Dora Lee", AccountNum: "900"}})
	require.NoError(t, err)

	m := newTestModel(t, func() (*client.Store, error) { return next, nil })
	m = typeText(m, "ali")

	m, _ = press(m, tea.KeyCtrlR)

	assert.Equal(t, "", m.inputs[search.Name].Value())
	assert.Equal(t, search.Unfiltered, m.filter.State().Mode)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Dora Lee", m.table.Rows()[0][0])
}

func TestUpdate_ReloadErrorShown(t *testing.T) {
	m := newTestModel(t, func() (*client.Store, error) { return nil, errors.New("bad file") })
	m = typeText(m, "ali")

	m, _ = press(m, tea.KeyCtrlR)

	assert.Contains(t, m.View(), "reload failed: bad file")
	assert.Equal(t, "ali", m.inputs[search.Name].Value())
	assert.Len(t, m.table.Rows(), 1)
}

func TestUpdate_EditingFinishedReloads(t *testing.T) {
	next, err := client.NewStore([]client.Record{{Name: "Eve Hall", AccountNum: "901"}})
	require.NoError(t, err)
	m := newTestModel(t, func() (*client.Store, error) { return next, nil })
	m.editor.Editing = true

	updated, _ := m.Update(editor.EditingFinished{Path: "clients.json"})
	m = updated.(Model)

	assert.False(t, m.editor.Editing)
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Eve Hall", m.table.Rows()[0][0])
}

func TestUpdate_EditWithoutFileDoesNothing(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := press(m, tea.KeyCtrlO)

	assert.Nil(t, cmd)
	assert.False(t, m.editor.Editing)
}

func TestUpdate_TableNavigationDoesNotType(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = press(m, tea.KeyDown)

	assert.Equal(t, 1, m.table.Cursor())
	assert.Equal(t, "", m.inputs[search.Name].Value())
}

func TestUpdate_Quit(t *testing.T) {
	m := newTestModel(t, nil)

	_, cmd := press(m, tea.KeyCtrlC)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t, nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	assert.Equal(t, 100, m.width)
	assert.LessOrEqual(t, m.table.Height(), 23)
	assert.Greater(t, m.table.Height(), 10)
}
