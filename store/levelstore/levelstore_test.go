package levelstore

import (
	"path/filepath"
	"testing"

	"github.com/sanjit-bhat/anchorage/store"
	"github.com/sanjit-bhat/anchorage/store/storetest"
	"github.com/stretchr/testify/assert"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		st, err := OpenMem()
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { st.Close() })
		return st
	})
}

func TestReopen(t *testing.T) {
	c := &Config{File: filepath.Join(t.TempDir(), "ldb"), CacheMB: 4, Handles: 16}
	st, err := c.Open()
	assert.NoError(t, err)
	assert.NoError(t, st.Put(store.Suspensions, []byte("k"), []byte("v")))
	assert.NoError(t, st.Close())

	st, err = Open(c.File)
	assert.NoError(t, err)
	defer st.Close()
	val, ok, err := st.Get(store.Suspensions, []byte("k"))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)
	_, ok, _ = st.Get(store.Anchors, []byte("k"))
	assert.False(t, ok)
}
