package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetGetDelete(t *testing.T) {
	st := newStore(t.TempDir())

	require.NoError(t, st.setAlias("myfeature", 12345, false))

	cl, err := st.alias("myfeature")
	require.NoError(t, err)
	assert.Equal(t, 12345, cl)

	require.NoError(t, st.deleteAlias("myfeature"))

	_, err = st.alias("myfeature")
	var nf *notFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "myfeature", nf.name)
}

func TestStoreDeleteAbsent(t *testing.T) {
	st := newStore(t.TempDir())

	err := st.deleteAlias("ghost")
	var nf *notFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestStoreInvalidNames(t *testing.T) {
	st := newStore(t.TempDir())

	for _, name := range []string{"latest", "Latest", "last-synced", "LAST-SYNCED", "42", "007", "", "a/b"} {
		err := st.setAlias(name, 1, false)
		var inv *invalidNameError
		assert.ErrorAs(t, err, &inv, "name %q", name)
	}
}

func TestStoreSetExistingRequiresForce(t *testing.T) {
	st := newStore(t.TempDir())

	require.NoError(t, st.setAlias("myfeature", 100, false))

	err := st.setAlias("myfeature", 200, false)
	var exists *aliasExistsError
	require.ErrorAs(t, err, &exists)
	assert.Equal(t, "myfeature", exists.name)

	// The record is untouched by the refused overwrite.
	cl, err := st.alias("myfeature")
	require.NoError(t, err)
	assert.Equal(t, 100, cl)

	require.NoError(t, st.setAlias("myfeature", 200, true))
	cl, err = st.alias("myfeature")
	require.NoError(t, err)
	assert.Equal(t, 200, cl)
}

func TestStoreListSortedAndStable(t *testing.T) {
	st := newStore(t.TempDir())

	require.NoError(t, st.setAlias("zeta", 3, false))
	require.NoError(t, st.setAlias("alpha", 1, false))
	require.NoError(t, st.setAlias("mid", 2, false))

	want := []aliasEntry{
		{name: "alpha", changelist: 1},
		{name: "mid", changelist: 2},
		{name: "zeta", changelist: 3},
	}
	got, err := st.aliases()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	again, err := st.aliases()
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestStoreListEmpty(t *testing.T) {
	st := newStore(t.TempDir())

	got, err := st.aliases()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreLastSynced(t *testing.T) {
	st := newStore(t.TempDir())

	_, ok, err := st.lastSynced()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.setLastSynced(500))
	cl, ok, err := st.lastSynced()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 500, cl)

	require.NoError(t, st.setLastSynced(600))
	cl, _, err = st.lastSynced()
	require.NoError(t, err)
	assert.Equal(t, 600, cl)
}

func TestStoreRecordsAreWholeFiles(t *testing.T) {
	dir := t.TempDir()
	st := newStore(dir)

	require.NoError(t, st.setAlias("myfeature", 12345, false))

	data, err := os.ReadFile(filepath.Join(dir, stateDirName, changelistsDirName, "myfeature"))
	require.NoError(t, err)
	assert.Equal(t, "12345\n", string(data))

	// No temp files left behind after the rename.
	entries, err := os.ReadDir(filepath.Join(dir, stateDirName, changelistsDirName))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
