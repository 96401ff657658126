package registry

import (
	"fmt"
	"math"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/tchajed/marshal"
)

// Permanent suspends a leaf for good. nothing can extend past it.
const Permanent uint64 = math.MaxUint64

// Suspensions maps (admins, leaf) to a suspend-until time.
// a suspension only ever moves later; there's no way to lift one.
// it's independent of anchors, since leaf data never comes on-chain.
type Suspensions struct {
	h  cryptoffi.HashFunc
	st store.Store
}

func NewSuspensions(h cryptoffi.HashFunc, st store.Store) *Suspensions {
	return &Suspensions{h: h, st: st}
}

func (s *Suspensions) get(key []byte) (uint64, bool, error) {
	val, ok, err := s.st.Get(store.Suspensions, key)
	if err != nil {
		return 0, false, fmt.Errorf("registry: get suspension: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	until, rem, errb := marshalutil.ReadInt(val)
	if errb || len(rem) != 0 {
		return 0, false, errCorrupt
	}
	return until, true, nil
}

// Suspend marks leaf suspended through until.
// caller proves membership in admins with proof.
// an existing suspension can only be extended: until must be strictly
// later, else [ErrSuspensionNotExtended].
// an until in the past is accepted, it just has no effect.
func (s *Suspensions) Suspend(caller Identity, admins AdminRoot, leaf LeafDigest, proof merkle.Proof, until uint64) (*Event, error) {
	if !merkle.VerifyProof(s.h, admins, proof, caller) {
		return nil, ErrInvalidProof
	}
	key := recordKey(admins.Digest(), leaf.Digest())
	cur, ok, err := s.get(key)
	if err != nil {
		return nil, err
	}
	if ok && until <= cur {
		return nil, ErrSuspensionNotExtended
	}
	if err := s.st.Put(store.Suspensions, key, marshal.WriteInt(nil, until)); err != nil {
		return nil, fmt.Errorf("registry: put suspension: %w", err)
	}
	return &Event{Kind: EventSuspended, Admins: admins.Digest(), Target: leaf.Digest(), Caller: caller.Digest(), Time: until}, nil
}

// IsSuspended reports whether an admins-issued suspension on leaf
// is active at now. the end is inclusive: now == until is suspended.
func (s *Suspensions) IsSuspended(admins AdminRoot, leaf LeafDigest, now uint64) (bool, error) {
	until, ok, err := s.get(recordKey(admins.Digest(), leaf.Digest()))
	if err != nil {
		return false, err
	}
	return ok && now <= until, nil
}

// SuspendedUntil returns the stored suspend-until time, with ok false if none.
func (s *Suspensions) SuspendedUntil(admins AdminRoot, leaf LeafDigest) (until uint64, ok bool, err error) {
	return s.get(recordKey(admins.Digest(), leaf.Digest()))
}
