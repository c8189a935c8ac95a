package main

import (
	"fmt"
	"log"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noelzubin/clients_search/client"
	"github.com/noelzubin/clients_search/editor"
	"github.com/noelzubin/clients_search/filter"
	"github.com/noelzubin/clients_search/search"
	"github.com/samber/lo"
)

var (
	TableStyle = lipgloss.NewStyle().
			MarginTop(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
	StatusStyle = lipgloss.NewStyle().MarginLeft(2).Foreground(lipgloss.Color("241"))
	ErrorStyle  = lipgloss.NewStyle().MarginLeft(2).Foreground(lipgloss.Color("196"))
)

const noMatches = "No matching clients"

// Main app model for bubbletea
type Model struct {
	width  int                               // width of terminal
	height int                               // height of terminal
	inputs map[search.Field]*textinput.Model // one filter input per field
	focus  search.Field                      // field whose input has focus
	table  table.Model                       // the client table widget
	filter *filter.Filter                    // applies filter events to the records
	editor editor.Editor                     // for editing the records file
	reload func() (*client.Store, error)     // loads a fresh snapshot of the records
	file   string                            // records file, empty when records are generated
	err    error                             // last reload error, shown in the status line
}

// Create a new model for the app
func New(f *filter.Filter, reload func() (*client.Store, error), file, editorCmd string) *Model {
	nameInput := create_text_input("Name:", "filter by client name")
	postcodeInput := create_text_input("Postcode:", "filter by post code")
	nameInput.Focus()

	m := &Model{
		inputs: map[search.Field]*textinput.Model{
			search.Name:     &nameInput,
			search.Postcode: &postcodeInput,
		},
		focus:  search.Name,
		table:  create_table(),
		filter: f,
		editor: editor.Editor{EditorCmd: editorCmd},
		reload: reload,
		file:   file,
	}
	m.refreshRows()
	return m
}

func (m *Model) updateSize(width, height int) {
	m.height = height
	m.width = width

	// inputs, borders and status line take 7 rows
	tableHeight := height - 7
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.table.SetHeight(tableHeight)
	m.table.SetWidth(width - 2)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, textinput.Blink)
}

// apply resolves the current value of field's input.
func (m *Model) apply(field search.Field) {
	m.filter.Apply(filter.Event{Field: field, Input: m.inputs[field].Value()})
	m.refreshRows()
}

// switchFocus moves focus to the other input. The input losing focus
// is applied once more, so leaving an empty field clears the filter.
func (m *Model) switchFocus() tea.Cmd {
	m.inputs[m.focus].Blur()
	m.apply(m.focus)

	if m.focus == search.Name {
		m.focus = search.Postcode
	} else {
		m.focus = search.Name
	}
	return m.inputs[m.focus].Focus()
}

// rebuild replaces the records with a fresh snapshot and clears both inputs.
func (m *Model) rebuild() {
	store, err := m.reload()
	if err == nil {
		err = m.filter.Rebuild(store)
	}
	m.err = err
	if err != nil {
		log.Printf("reload records: %v", err)
		return
	}

	for _, input := range m.inputs {
		input.Reset()
	}
	m.refreshRows()
}

// refreshRows copies the visible records into the table.
func (m *Model) refreshRows() {
	m.table.SetRows(lo.Map(m.filter.Visible(), func(r client.Record, _ int) table.Row {
		return table.Row{r.Name, r.DOB, r.Postcode, r.AccountNum}
	}))
	m.table.GotoTop()
}

// The update fn for the bubbletea model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keybindings:
		// Tab/Shift+Tab - switch between the name and postcode filters
		// Up/Down/PgUp/PgDown - move in the table
		// Ctrl+R - reload the records and rebuild the index
		// Ctrl+O - open the records file in the editor
		// Esc/Ctrl+C - quit the application
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "shift+tab":
			return m, m.switchFocus()
		case "up", "down", "pgup", "pgdown":
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		case "ctrl+r":
			m.rebuild()
			return m, nil
		case "ctrl+o":
			return m, m.editor.EditFile(m.file)
		}
	case editor.EditingFinished:
		m.editor, _ = m.editor.Update(msg)
		if msg.Err != nil {
			log.Printf("editor: %v", msg.Err)
		}
		m.rebuild()
		return m, nil
	case tea.WindowSizeMsg:
		m.updateSize(msg.Width, msg.Height)
	}

	// save to compare if changed
	input := m.inputs[m.focus]
	oldValue := input.Value()

	*input, cmd = input.Update(msg)
	cmds = append(cmds, cmd)

	// Every change is resolved right away so the table always matches
	// the last keystroke.
	if input.Value() != oldValue {
		m.apply(m.focus)
	}

	return m, tea.Batch(cmds...)
}

// status describes what the table is showing.
func (m Model) status() string {
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("reload failed: %v", m.err))
	}

	total := m.filter.Store().Len()
	state := m.filter.State()
	if state.Mode == search.Unfiltered {
		return StatusStyle.Render(fmt.Sprintf("%d clients", total))
	}
	if len(state.Results) == 0 {
		return StatusStyle.Render(noMatches)
	}
	return StatusStyle.Render(fmt.Sprintf("%d of %d clients", len(state.Results), total))
}

// View fn for bubbletea model
func (m Model) View() string {
	inputs := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.inputs[search.Name].View(),
		"  ",
		m.inputs[search.Postcode].View(),
	)

	// render the inputs, the table and the status line
	return lipgloss.JoinVertical(
		lipgloss.Left,
		inputs,
		TableStyle.Render(m.table.View()),
		m.status(),
	)
}

// Create the client table
func create_table() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Client name", Width: 24},
			{Title: "Date of birth", Width: 16},
			{Title: "PostCode", Width: 10},
			{Title: "Account Num", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("62")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Create a filter input
func create_text_input(prompt, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = prompt
	ti.CharLimit = 64
	ti.PromptStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("62")).
		Foreground(lipgloss.Color("230")).
		MarginRight(1).
		MarginLeft(2).
		Padding(0, 1)
	return ti
}
