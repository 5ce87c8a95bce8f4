package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noLatest(t *testing.T) latestQuery {
	return func() (int, error) {
		t.Fatal("latest query must not be consulted")
		return 0, nil
	}
}

func TestResolveLastSynced(t *testing.T) {
	st := newStore(t.TempDir())

	_, err := resolveChangelist("last-synced", st, noLatest(t))
	assert.ErrorIs(t, err, errNoSyncedState)

	require.NoError(t, st.setLastSynced(500))
	cl, err := resolveChangelist("last-synced", st, noLatest(t))
	require.NoError(t, err)
	assert.Equal(t, 500, cl)
}

func TestResolveLatest(t *testing.T) {
	st := newStore(t.TempDir())

	cl, err := resolveChangelist("latest", st, func() (int, error) { return 777, nil })
	require.NoError(t, err)
	assert.Equal(t, 777, cl)

	_, err = resolveChangelist("latest", st, func() (int, error) { return 0, errors.New("p4 unreachable") })
	var bq *backendQueryError
	assert.ErrorAs(t, err, &bq)
}

func TestResolveNumericLiteral(t *testing.T) {
	st := newStore(t.TempDir())

	// Numbers resolve directly, without touching the store or backend.
	cl, err := resolveChangelist("42", st, noLatest(t))
	require.NoError(t, err)
	assert.Equal(t, 42, cl)

	_, err = resolveChangelist("0", st, noLatest(t))
	assert.Error(t, err)
	_, err = resolveChangelist("-7", st, noLatest(t))
	assert.Error(t, err)
}

func TestResolveAlias(t *testing.T) {
	st := newStore(t.TempDir())
	require.NoError(t, st.setAlias("myfeature", 12345, false))

	cl, err := resolveChangelist("myfeature", st, noLatest(t))
	require.NoError(t, err)
	assert.Equal(t, 12345, cl)

	_, err = resolveChangelist("ghost", st, noLatest(t))
	var unknown *unknownAliasError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.token)
}

func TestResolveKeywordsWinOverAliases(t *testing.T) {
	// An alias file named like a keyword cannot be created through the
	// store, but even a hand-placed one must not shadow the keyword.
	st := newStore(t.TempDir())
	require.NoError(t, st.setLastSynced(300))

	cl, err := resolveChangelist("LAST-SYNCED", st, noLatest(t))
	require.NoError(t, err)
	assert.Equal(t, 300, cl)
}
