package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCleanWorkspaceForward(t *testing.T) {
	plan, err := evaluateSync(200, false, 100, true, workspaceState{})
	require.NoError(t, err)
	assert.Equal(t, 200, plan.target)
	assert.Empty(t, plan.clobber)
	assert.True(t, plan.record)
}

func TestEvaluateFirstSync(t *testing.T) {
	// No recorded sync: any target is acceptable.
	plan, err := evaluateSync(50, false, 0, false, workspaceState{})
	require.NoError(t, err)
	assert.Equal(t, 50, plan.target)
}

func TestEvaluateStaleTarget(t *testing.T) {
	_, err := evaluateSync(50, false, 100, true, workspaceState{})
	var stale *staleTargetError
	require.ErrorAs(t, err, &stale)
	assert.Equal(t, 50, stale.target)
	assert.Equal(t, 100, stale.lastSynced)

	plan, err := evaluateSync(50, true, 100, true, workspaceState{})
	require.NoError(t, err)
	assert.Equal(t, 50, plan.target)
}

func TestEvaluateWritableFiles(t *testing.T) {
	ws := workspaceState{writable: []string{"src/a.c", "src/b.c"}}

	_, err := evaluateSync(200, false, 100, true, ws)
	var writable *unexpectedWritableFilesError
	require.ErrorAs(t, err, &writable)
	assert.Equal(t, []string{"src/a.c", "src/b.c"}, writable.files)

	plan, err := evaluateSync(200, true, 100, true, ws)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.c", "src/b.c"}, plan.clobber)
}

func TestEvaluateWritableCheckedBeforeStale(t *testing.T) {
	ws := workspaceState{writable: []string{"src/a.c"}}

	_, err := evaluateSync(50, false, 100, true, ws)
	var writable *unexpectedWritableFilesError
	assert.ErrorAs(t, err, &writable)
}

func TestEvaluateEqualTargetAllowed(t *testing.T) {
	// Equal targets pass evaluation; the orchestrator short-circuits
	// before reaching it anyway.
	plan, err := evaluateSync(100, false, 100, true, workspaceState{})
	require.NoError(t, err)
	assert.Equal(t, 100, plan.target)
}
