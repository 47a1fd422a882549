package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ltask/internal/storage"
	"ltask/internal/testutil"
)

type item struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

func TestAdapter_SaveLoad(t *testing.T) {
	a := storage.NewAdapter(storage.NewMemory(), nil)

	require.NoError(t, a.Save("list", []item{{ID: 1, Text: "one"}}))
	require.NoError(t, a.Save("flag", true))

	var list []item
	assert.True(t, a.Load("list", &list))
	assert.Equal(t, []item{{ID: 1, Text: "one"}}, list)

	var flag bool
	assert.True(t, a.Load("flag", &flag))
	assert.True(t, flag)
}

func TestAdapter_LoadAbsent(t *testing.T) {
	be := testutil.NewFakeBackend()
	a := storage.NewAdapter(be, nil)

	be.SetRaw("null", "null")
	be.SetRaw("empty", "")
	be.SetRaw("broken", `[{"id":1,`)
	be.SetRaw("wrongtype", `{"id":1}`)
	be.SetRaw("failing", `[]`)
	be.GetErr["failing"] = testutil.ErrInjected

	for _, key := range []string{"missing", "null", "empty", "broken", "wrongtype", "failing"} {
		t.Run(key, func(t *testing.T) {
			list := []item{{ID: 9, Text: "untouched"}}
			assert.False(t, a.Load(key, &list))
			assert.Equal(t, []item{{ID: 9, Text: "untouched"}}, list)
		})
	}
}

func TestAdapter_LoadNonPointer(t *testing.T) {
	be := testutil.NewFakeBackend()
	be.SetRaw("flag", "true")
	a := storage.NewAdapter(be, nil)

	var flag bool
	assert.False(t, a.Load("flag", flag))
}

func TestAdapter_SaveError(t *testing.T) {
	be := testutil.NewFakeBackend()
	be.PutErr["k"] = testutil.ErrInjected
	a := storage.NewAdapter(be, nil)

	err := a.Save("k", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrInjected)
	assert.Contains(t, err.Error(), "write k")
}

func TestAdapter_SaveUnencodable(t *testing.T) {
	a := storage.NewAdapter(storage.NewMemory(), nil)
	assert.Error(t, a.Save("ch", make(chan int)))
}

func TestMemory_NotFound(t *testing.T) {
	m := storage.NewMemory()
	_, err := m.Get("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, m.Put("k", "v"))
	require.NoError(t, m.Close())
	v, err := m.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
