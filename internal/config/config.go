// Package config loads daemon settings from the environment, then flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/sanjit-bhat/anchorage/store/levelstore"
	"github.com/sanjit-bhat/anchorage/store/sqlitestore"
)

const (
	TransportAdvrpc = "advrpc"
	TransportUrpc   = "urpc"
	TransportGrpc   = "grpc"

	StoreMem     = "mem"
	StoreSqlite  = "sqlite"
	StoreLeveldb = "leveldb"

	ClockHeight = "height"
	ClockUnix   = "unix"
)

// Config holds anchord settings.
type Config struct {
	Addr      string `env:"ANCHORAGE_ADDR" envDefault:"127.0.0.1:6060"`
	Transport string `env:"ANCHORAGE_TRANSPORT" envDefault:"advrpc"`
	Hash      string `env:"ANCHORAGE_HASH" envDefault:"blake2s"`
	Store     string `env:"ANCHORAGE_STORE" envDefault:"mem"`
	StorePath string `env:"ANCHORAGE_STORE_PATH"`
	Clock     string `env:"ANCHORAGE_CLOCK" envDefault:"height"`
	MaxProof  uint64 `env:"ANCHORAGE_MAX_PROOF" envDefault:"16"`
	AuthCache int    `env:"ANCHORAGE_AUTH_CACHE" envDefault:"1024"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses environment, then flags in args, into Config.
// flags override the environment.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address, host:port")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "advrpc, urpc, or grpc")
	fs.StringVar(&cfg.Hash, "hash", cfg.Hash, "hash function: blake2s, blake3, sha512_256, keccak256")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "mem, sqlite, or leveldb")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "database path for sqlite and leveldb")
	fs.StringVar(&cfg.Clock, "clock", cfg.Clock, "height or unix")
	fs.Uint64Var(&cfg.MaxProof, "max-proof", cfg.MaxProof, "longest accepted merkle proof")
	fs.IntVar(&cfg.AuthCache, "auth-cache", cfg.AuthCache, "number of cached public keys")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	switch c.Transport {
	case TransportAdvrpc, TransportUrpc, TransportGrpc:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q", c.Transport))
	}
	if _, ok := cryptoffi.HashFuncByName(c.Hash); !ok {
		errs = append(errs, fmt.Errorf("unknown hash %q", c.Hash))
	}
	switch c.Store {
	case StoreMem:
	case StoreSqlite, StoreLeveldb:
		if strings.TrimSpace(c.StorePath) == "" {
			errs = append(errs, fmt.Errorf("store %s needs a store path", c.Store))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}
	switch c.Clock {
	case ClockHeight, ClockUnix:
	default:
		errs = append(errs, fmt.Errorf("unknown clock %q", c.Clock))
	}
	if c.MaxProof == 0 || c.MaxProof > merkle.MaxDecodeLen {
		errs = append(errs, fmt.Errorf("max proof must be in [1, %d]", merkle.MaxDecodeLen))
	}
	if c.AuthCache <= 0 {
		errs = append(errs, errors.New("auth cache must be positive"))
	}
	return errors.Join(errs...)
}

// HashFunc expects a validated config.
func (c Config) HashFunc() cryptoffi.HashFunc {
	h, _ := cryptoffi.HashFuncByName(c.Hash)
	return h
}

// OpenStore opens the configured backend.
func (c Config) OpenStore() (store.Store, error) {
	switch c.Store {
	case StoreMem:
		return store.NewMem(), nil
	case StoreSqlite:
		return sqlitestore.Open(c.StorePath)
	case StoreLeveldb:
		return levelstore.Open(c.StorePath)
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
}

// NewClock returns the configured clock.
// the server resumes a height clock from the height saved in its store.
func (c Config) NewClock() registry.Clock {
	if c.Clock == ClockUnix {
		return registry.UnixClock{}
	}
	return registry.NewHeightClock()
}
