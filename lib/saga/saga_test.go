package saga

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAllStepsSucceed(t *testing.T) {
	var order []string
	s := New("test")

	err := s.Execute(
		Step{Name: "a", Run: func() error { order = append(order, "a"); return nil }, Undo: func() error { order = append(order, "undo-a"); return nil }},
		Step{Name: "b", Run: func() error { order = append(order, "b"); return nil }, Undo: func() error { order = append(order, "undo-b"); return nil }},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestExecuteCompensatesInReverseOrder(t *testing.T) {
	var order []string
	s := New("test")

	err := s.Execute(
		Step{Name: "chat", Run: func() error { order = append(order, "chat"); return nil }, Undo: func() error { order = append(order, "undo-chat"); return nil }},
		Step{Name: "session", Run: func() error { order = append(order, "session"); return nil }, Undo: func() error { order = append(order, "undo-session"); return nil }},
		Step{Name: "chain", Run: func() error { return errors.New("db write failed") }, Undo: func() error { order = append(order, "undo-chain"); return nil }},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chain")
	// the failed step itself is never compensated, earlier steps are, newest first
	assert.Equal(t, []string{"chat", "session", "undo-session", "undo-chat"}, order)
}

func TestExecuteStepsWithoutUndoAreSkippedOnCompensation(t *testing.T) {
	var undone []string
	s := New("test")

	err := s.Execute(
		Step{Name: "notify", Run: func() error { return nil }},
		Step{Name: "report", Run: func() error { return errors.New("upstream down") }},
	)

	require.Error(t, err)
	assert.Empty(t, undone)
}

func TestCompensationFailureIsSurfaced(t *testing.T) {
	s := New("test")
	var secondUndoRan bool

	err := s.Execute(
		Step{Name: "chat", Run: func() error { return nil }, Undo: func() error { secondUndoRan = true; return nil }},
		Step{Name: "session", Run: func() error { return nil }, Undo: func() error { return errors.New("delete failed") }},
		Step{Name: "chain", Run: func() error { return errors.New("boom") }},
	)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compensation incomplete")
	// a failing undo must not stop the rest of the stack
	assert.True(t, secondUndoRan)
}

func TestExecuteClearsUndoStackAfterSuccess(t *testing.T) {
	s := New("test")
	require.NoError(t, s.Execute(Step{Name: "a", Run: func() error { return nil }, Undo: func() error { t.Fatal("must not run"); return nil }}))
	require.NoError(t, s.Compensate())
}
