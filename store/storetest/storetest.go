// Package storetest is the behavior every [store.Store] must share.
package storetest

import (
	"bytes"
	"testing"

	"github.com/sanjit-bhat/anchorage/store"
	"github.com/stretchr/testify/assert"
)

// Run checks the store returned by open. open is called once per subtest.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Run("Absent", func(t *testing.T) {
		st := open(t)
		val, ok, err := st.Get(store.Anchors, []byte("nope"))
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("PutGet", func(t *testing.T) {
		st := open(t)
		assert.NoError(t, st.Put(store.Anchors, []byte("k"), []byte("v0")))
		val, ok, err := st.Get(store.Anchors, []byte("k"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v0"), val)
	})

	t.Run("Overwrite", func(t *testing.T) {
		st := open(t)
		assert.NoError(t, st.Put(store.Suspensions, []byte("k"), []byte("v0")))
		assert.NoError(t, st.Put(store.Suspensions, []byte("k"), []byte("v1")))
		val, ok, err := st.Get(store.Suspensions, []byte("k"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v1"), val)
	})

	t.Run("TablesDisjoint", func(t *testing.T) {
		st := open(t)
		assert.NoError(t, st.Put(store.Anchors, []byte("k"), []byte("a")))
		_, ok, err := st.Get(store.Suspensions, []byte("k"))
		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, st.Put(store.Suspensions, []byte("k"), []byte("s")))
		val, _, _ := st.Get(store.Anchors, []byte("k"))
		assert.Equal(t, []byte("a"), val)
		for _, tbl := range []store.Table{store.Events, store.Meta} {
			_, ok, err := st.Get(tbl, []byte("k"))
			assert.NoError(t, err)
			assert.False(t, ok)
		}
	})

	t.Run("BinaryKeys", func(t *testing.T) {
		st := open(t)
		k0 := bytes.Repeat([]byte{0}, 64)
		k1 := append(bytes.Repeat([]byte{0}, 63), 1)
		assert.NoError(t, st.Put(store.Anchors, k0, []byte{0}))
		assert.NoError(t, st.Put(store.Anchors, k1, []byte{1}))
		val, _, _ := st.Get(store.Anchors, k0)
		assert.Equal(t, []byte{0}, val)
		val, _, _ = st.Get(store.Anchors, k1)
		assert.Equal(t, []byte{1}, val)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		st := open(t)
		assert.NoError(t, st.Put(store.Anchors, []byte("k"), []byte{}))
		val, ok, err := st.Get(store.Anchors, []byte("k"))
		assert.NoError(t, err)
		assert.True(t, ok)
		assert.Len(t, val, 0)
	})

	t.Run("NoAliasing", func(t *testing.T) {
		st := open(t)
		v := []byte("abc")
		assert.NoError(t, st.Put(store.Anchors, []byte("k"), v))
		v[0] = 'x'
		got, _, _ := st.Get(store.Anchors, []byte("k"))
		assert.Equal(t, []byte("abc"), got)
		got[1] = 'y'
		got, _, _ = st.Get(store.Anchors, []byte("k"))
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("UnknownTable", func(t *testing.T) {
		st := open(t)
		_, _, err := st.Get(store.Table(99), []byte("k"))
		assert.Error(t, err)
		assert.Error(t, st.Put(store.Table(99), []byte("k"), nil))
	})
}
