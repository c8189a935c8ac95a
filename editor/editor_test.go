package editor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEditFile(t *testing.T) {
	e := Editor{EditorCmd: "true"}

	cmd := e.EditFile("/tmp/clients.json")

	assert.NotNil(t, cmd)
	assert.True(t, e.Editing)
}

func TestEditFile_IgnoredWhileEditing(t *testing.T) {
	e := Editor{EditorCmd: "true", Editing: true}

	assert.Nil(t, e.EditFile("/tmp/clients.json"))
}

func TestEditFile_NoPath(t *testing.T) {
	e := Editor{EditorCmd: "true"}

	assert.Nil(t, e.EditFile(""))
	assert.False(t, e.Editing)
}

func TestUpdate_FinishedClosesEditor(t *testing.T) {
	e := Editor{EditorCmd: "true", Editing: true}

	e, cmd := e.Update(EditingFinished{Path: "x", Err: errors.New("exit 1")})

	assert.Nil(t, cmd)
	assert.False(t, e.Editing)
	assert.Empty(t, e.View())
}
