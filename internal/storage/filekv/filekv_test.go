package filekv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltask/internal/storage"
	"ltask/internal/storage/filekv"
)

func TestStore_PutGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := filekv.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get("tasks")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Put("tasks", `[{"id":1,"text":"a"}]`))
	require.NoError(t, s.Put("tasks", `[]`))

	v, err := s.Get("tasks")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	data, err := os.ReadFile(filepath.Join(dir, "tasks.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := filekv.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("darkMode", "true"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{".lock", "darkMode.json"}, names)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	dir := t.TempDir()
	s, err := filekv.Open(dir)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Put("tasks", `[]`))
	require.NoError(t, s.Put("darkMode", `true`))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tasks.json"), []byte("garbage"), 0o600))

	a := storage.NewAdapter(s, nil)
	var list []any
	assert.False(t, a.Load("tasks", &list))
	var dark bool
	assert.True(t, a.Load("darkMode", &dark))
	assert.True(t, dark)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := filekv.Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Put("completedTasks", `[{"id":2,"text":"b"}]`))
	require.NoError(t, s.Close())

	s2, err := filekv.Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	v, err := s2.Get("completedTasks")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":2,"text":"b"}]`, v)
}

func TestStore_InvalidKey(t *testing.T) {
	s, err := filekv.Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	for _, key := range []string{"", "../escape", "a/b", "dot.key"} {
		assert.Error(t, s.Put(key, "x"), "key %q", key)
		_, err := s.Get(key)
		assert.Error(t, err, "key %q", key)
		assert.NotErrorIs(t, err, storage.ErrNotFound)
	}
}
