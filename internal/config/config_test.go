package config

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	return ParseConfig(fs, args)
}

func TestDefaults(t *testing.T) {
	cfg, err := parse(t)
	assert.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6060", cfg.Addr)
	assert.Equal(t, TransportAdvrpc, cfg.Transport)
	assert.Equal(t, "blake2s", cfg.HashFunc().Name())
	assert.Equal(t, StoreMem, cfg.Store)
	assert.Equal(t, uint64(16), cfg.MaxProof)
	assert.Equal(t, 1024, cfg.AuthCache)
	_, ok := cfg.NewClock().(*registry.HeightClock)
	assert.True(t, ok)
}

func TestEnv(t *testing.T) {
	t.Setenv("ANCHORAGE_ADDR", "0.0.0.0:7000")
	t.Setenv("ANCHORAGE_TRANSPORT", "grpc")
	t.Setenv("ANCHORAGE_HASH", "keccak256")
	t.Setenv("ANCHORAGE_CLOCK", "unix")
	t.Setenv("ANCHORAGE_MAX_PROOF", "20")
	cfg, err := parse(t)
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7000", cfg.Addr)
	assert.Equal(t, TransportGrpc, cfg.Transport)
	assert.Equal(t, "keccak256", cfg.HashFunc().Name())
	assert.Equal(t, uint64(20), cfg.MaxProof)
	_, ok := cfg.NewClock().(registry.UnixClock)
	assert.True(t, ok)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ANCHORAGE_HASH", "keccak256")
	cfg, err := parse(t, "-hash", "blake3", "-max-proof", "8")
	assert.NoError(t, err)
	assert.Equal(t, "blake3", cfg.Hash)
	assert.Equal(t, uint64(8), cfg.MaxProof)
}

func TestBadEnv(t *testing.T) {
	t.Setenv("ANCHORAGE_MAX_PROOF", "lots")
	_, err := parse(t)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	for _, args := range [][]string{
		{"-transport", "carrier-pigeon"},
		{"-hash", "md5"},
		{"-store", "sqlite"},
		{"-store", "tape"},
		{"-clock", "sundial"},
		{"-max-proof", "0"},
		{"-max-proof", "257"},
		{"-auth-cache", "0"},
		{"-addr", " "},
	} {
		_, err := parse(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	for _, args := range [][]string{
		{"-store", "mem"},
		{"-store", "sqlite", "-store-path", filepath.Join(dir, "a.db")},
		{"-store", "leveldb", "-store-path", filepath.Join(dir, "ldb")},
	} {
		cfg, err := parse(t, args...)
		assert.NoError(t, err)
		st, err := cfg.OpenStore()
		assert.NoError(t, err)
		assert.NoError(t, st.Put(store.Anchors, []byte("k"), []byte("v")))
		assert.NoError(t, st.Close())
	}
}
