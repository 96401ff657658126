// Package store is the keyed record store the registries persist into.
// a Store must give each single Get or Put a consistent view;
// callers serialize read-then-write sequences themselves.
package store

import (
	"bytes"
	"sync"
)

// Table names one logical key-value table.
type Table byte

const (
	// Anchors maps (admin root, document root) to an anchor record.
	Anchors Table = 1
	// Suspensions maps (admin root, leaf digest) to a suspend-until time.
	Suspensions Table = 2
	// Events maps a log index to an encoded event.
	Events Table = 3
	// Meta holds dispatcher state, e.g. the clock height.
	Meta Table = 4
)

func (t Table) String() string {
	switch t {
	case Anchors:
		return "anchors"
	case Suspensions:
		return "suspensions"
	case Events:
		return "events"
	case Meta:
		return "meta"
	default:
		return "unknown"
	}
}

// Tables lists every table, in creation order.
var Tables = []Table{Anchors, Suspensions, Events, Meta}

type Store interface {
	// Get returns the value under key, with ok false if absent.
	Get(t Table, key []byte) (val []byte, ok bool, err error)
	// Put inserts or overwrites.
	Put(t Table, key, val []byte) error
	Close() error
}

// Mem is an in-memory [Store]. values are copied on the way in and out.
type Mem struct {
	mu     sync.RWMutex
	tables map[Table]map[string][]byte
}

func NewMem() *Mem {
	m := &Mem{tables: make(map[Table]map[string][]byte)}
	for _, t := range Tables {
		m.tables[t] = make(map[string][]byte)
	}
	return m
}

func (m *Mem) Get(t Table, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tbl, ok := m.tables[t]
	if !ok {
		return nil, false, &UnknownTableError{Table: t}
	}
	val, ok := tbl[string(key)]
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(val), true, nil
}

func (m *Mem) Put(t Table, key, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tbl, ok := m.tables[t]
	if !ok {
		return &UnknownTableError{Table: t}
	}
	tbl[string(key)] = bytes.Clone(val)
	return nil
}

// Len counts records in t.
func (m *Mem) Len(t Table) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[t])
}

func (m *Mem) Close() error {
	return nil
}

type UnknownTableError struct {
	Table Table
}

func (e *UnknownTableError) Error() string {
	return "store: unknown table " + e.Table.String()
}

// Known reports whether t is one of [Tables].
func Known(t Table) bool {
	for _, x := range Tables {
		if x == t {
			return true
		}
	}
	return false
}
