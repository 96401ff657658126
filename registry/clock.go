package registry

import (
	"sync/atomic"
	"time"
)

// Clock is the timestamp source for anchor creation times.
type Clock interface {
	Now() uint64
}

// HeightClock counts applied batches, like a block height.
// it starts at 1 and only moves on [HeightClock.Advance].
type HeightClock struct {
	h atomic.Uint64
}

func NewHeightClock() *HeightClock {
	c := &HeightClock{}
	c.h.Store(1)
	return c
}

func (c *HeightClock) Now() uint64 {
	return c.h.Load()
}

func (c *HeightClock) Advance() {
	c.h.Add(1)
}

// UnixClock reads wall-clock seconds.
type UnixClock struct{}

func (UnixClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

// FixedClock always reads T. handy in tests.
type FixedClock struct {
	T uint64
}

func (c FixedClock) Now() uint64 {
	return c.T
}

// Restore moves the clock up to h. it never moves backwards.
func (c *HeightClock) Restore(h uint64) {
	for {
		cur := c.h.Load()
		if h <= cur || c.h.CompareAndSwap(cur, h) {
			return
		}
	}
}
