package server

import (
	"errors"
	"fmt"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/tchajed/marshal"
)

// the event log lives in [store.Events] under its index,
// so a restarted server serves the same chain.

var (
	errCorruptLog = errors.New("server: corrupt event log")
	heightKey     = []byte("height")
)

type history struct {
	// chain commits to event digests, one per event.
	chain  *hashchain.HashChain
	events []*registry.Event
}

func eventKey(n uint64) []byte {
	return marshal.WriteInt(make([]byte, 0, 8), n)
}

// loadHistory reads events 0, 1, ... until the first gap.
func loadHistory(h cryptoffi.HashFunc, st store.Store) (*history, error) {
	hist := &history{chain: hashchain.New(h)}
	for n := uint64(0); ; n++ {
		b, ok, err := st.Get(store.Events, eventKey(n))
		if err != nil {
			return nil, fmt.Errorf("load event %d: %w", n, err)
		}
		if !ok {
			return hist, nil
		}
		ev, rem, errb := registry.EventDecode(b)
		if errb || len(rem) != 0 {
			return nil, fmt.Errorf("load event %d: %w", n, errCorruptLog)
		}
		hist.events = append(hist.events, ev)
		hist.chain.Append(registry.EventDigest(h, ev))
	}
}

// append stores ev, then adds it to the in-memory log.
// the in-memory log takes ev even if the store fails.
func (hist *history) append(h cryptoffi.HashFunc, st store.Store, ev *registry.Event) error {
	n := uint64(len(hist.events))
	err := st.Put(store.Events, eventKey(n), registry.EventEncode(nil, ev))
	hist.events = append(hist.events, ev)
	hist.chain.Append(registry.EventDigest(h, ev))
	if err != nil {
		return fmt.Errorf("store event %d: %w", n, err)
	}
	return nil
}

// heightClock resumes from the height saved after the last batch.
type heightClock interface {
	registry.Clock
	Advance()
	Restore(h uint64)
}

func loadHeight(st store.Store) (uint64, bool, error) {
	b, ok, err := st.Get(store.Meta, heightKey)
	if err != nil || !ok {
		return 0, false, err
	}
	h, _, errb := marshalutil.ReadInt(b)
	if errb {
		return 0, false, fmt.Errorf("load height: %w", errCorruptLog)
	}
	return h, true, nil
}

func saveHeight(st store.Store, h uint64) error {
	return st.Put(store.Meta, heightKey, marshal.WriteInt(make([]byte, 0, 8), h))
}
