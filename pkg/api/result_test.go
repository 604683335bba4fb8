package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunResultOnlyGetsWorse(t *testing.T) {
	r := NewRun()
	require.NotEmpty(t, r.ID)
	require.Equal(t, ResultSuccess, r.Result())

	r.SetResult(ResultFailure)
	r.SetResult(ResultSuccess)
	require.Equal(t, ResultFailure, r.Result())

	r.SetResult(ResultAborted)
	require.Equal(t, ResultAborted, r.Result())
}

func TestRunIDsAreUnique(t *testing.T) {
	require.NotEqual(t, NewRun().ID, NewRun().ID)
}

func TestAbortKind(t *testing.T) {
	err := Abortf(ExecutionError, "exit status %d", 2)
	require.True(t, IsAbort(err))
	kind, ok := AbortKind(err)
	require.True(t, ok)
	require.Equal(t, ExecutionError, kind)
	require.Equal(t, "exit status 2", err.Error())
}
