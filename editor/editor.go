package editor

import (
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"
)

type Editor struct {
	Editing   bool   // Is the editor open
	EditorCmd string // Command to open the editor on shell
}

// EditingFinished is sent when the editor process exits.
type EditingFinished struct {
	Path string // file that was edited
	Err  error  // error from the editor process, if any
}

// this opens up an external editor.
func openEditor(app string, path string) tea.Cmd {
	return tea.ExecProcess(exec.Command(app, path), func(err error) tea.Msg {
		return EditingFinished{Path: path, Err: err}
	})
}

func (m *Editor) Init() tea.Cmd {
	return nil
}

// EditFile suspends the program and opens path in the editor.
// Nothing happens while another file is being edited.
func (m *Editor) EditFile(path string) tea.Cmd {
	if m.Editing || path == "" {
		return nil
	}
	m.Editing = true
	return openEditor(m.EditorCmd, path)
}

func (m Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	switch msg.(type) {
	case EditingFinished:
		m.Editing = false
		return m, nil
	}

	return m, nil
}

// Doesnt render anything
func (m Editor) View() string {
	return ""
}
