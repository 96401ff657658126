package sqlitestore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sanjit-bhat/anchorage/store"
	"github.com/sanjit-bhat/anchorage/store/storetest"
	"github.com/stretchr/testify/assert"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "anchorage.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTempStore(t)
	})
}

func TestMemoryContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		st, err := Open(":memory:")
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { st.Close() })
		return st
	})
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatal("expected empty path error")
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchorage.db")
	st, err := Open(path)
	assert.NoError(t, err)
	assert.NoError(t, st.Put(store.Anchors, []byte("k"), []byte("v")))
	assert.NoError(t, st.Close())

	// migrations don't rerun and data persists.
	st, err = Open(path)
	assert.NoError(t, err)
	defer st.Close()
	val, ok, err := st.Get(store.Anchors, []byte("k"))
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), val)
	var n int
	assert.NoError(t, st.sqlDB.QueryRow("SELECT COUNT(*) FROM "+migrationTable).Scan(&n))
	assert.Equal(t, 2, n)
}

func TestCanceledContext(t *testing.T) {
	st := openTempStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := st.GetContext(ctx, store.Anchors, []byte("k"))
	assert.True(t, errors.Is(err, context.Canceled))
	err = st.PutContext(ctx, store.Anchors, []byte("k"), nil)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestExtractUp(t *testing.T) {
	got := extractUp("-- +migrate Up\nA;\n-- +migrate Down\nB;\n")
	assert.Equal(t, "\nA;\n", got)
	assert.Equal(t, "C;", extractUp("C;"))
}
