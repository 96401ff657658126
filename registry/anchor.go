package registry

import (
	"fmt"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/tchajed/marshal"
)

const (
	notRevokedTag byte = 0
	revokedTag    byte = 1
)

// Revokable is an anchor record. once Revoked, always Revoked.
// Created is only meaningful while not revoked.
type Revokable struct {
	Revoked bool
	Created uint64
}

func NotRevoked(created uint64) Revokable {
	return Revokable{Created: created}
}

func Revoked() Revokable {
	return Revokable{Revoked: true}
}

func (r Revokable) String() string {
	if r.Revoked {
		return "revoked"
	}
	return fmt.Sprintf("anchored@%d", r.Created)
}

func RevokableEncode(b0 []byte, r Revokable) []byte {
	var b = b0
	if r.Revoked {
		return marshalutil.WriteByte(b, revokedTag)
	}
	b = marshalutil.WriteByte(b, notRevokedTag)
	b = marshal.WriteInt(b, r.Created)
	return b
}

func RevokableDecode(b0 []byte) (Revokable, []byte, bool) {
	tag, b, err := marshalutil.ReadByte(b0)
	if err {
		return Revokable{}, nil, true
	}
	switch tag {
	case revokedTag:
		return Revoked(), b, false
	case notRevokedTag:
		created, b, err := marshalutil.ReadInt(b)
		if err {
			return Revokable{}, nil, true
		}
		return NotRevoked(created), b, false
	default:
		return Revokable{}, nil, true
	}
}

// Anchors maps (admins, document root) to a [Revokable].
// the admin root is part of the key, so nobody anchoring the same
// document under their own admins can block or shadow another party's anchor.
type Anchors struct {
	h     cryptoffi.HashFunc
	st    store.Store
	clock Clock
}

func NewAnchors(h cryptoffi.HashFunc, st store.Store, clock Clock) *Anchors {
	return &Anchors{h: h, st: st, clock: clock}
}

func (a *Anchors) get(key []byte) (Revokable, bool, error) {
	val, ok, err := a.st.Get(store.Anchors, key)
	if err != nil {
		return Revokable{}, false, fmt.Errorf("registry: get anchor: %w", err)
	}
	if !ok {
		return Revokable{}, false, nil
	}
	r, rem, errb := RevokableDecode(val)
	if errb || len(rem) != 0 {
		return Revokable{}, false, errCorrupt
	}
	return r, true, nil
}

func (a *Anchors) put(key []byte, r Revokable) error {
	if err := a.st.Put(store.Anchors, key, RevokableEncode(nil, r)); err != nil {
		return fmt.Errorf("registry: put anchor: %w", err)
	}
	return nil
}

// Create anchors doc under admins. anyone may create.
// it fails with [ErrAlreadyAnchored] if the key holds any record,
// including a pre-emptive revocation.
//
// if admins is the empty root, nobody can ever revoke the anchor.
func (a *Anchors) Create(admins AdminRoot, doc DocumentRoot) (*Event, error) {
	key := recordKey(admins.Digest(), doc.Digest())
	_, ok, err := a.get(key)
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrAlreadyAnchored
	}
	now := a.clock.Now()
	if err := a.put(key, NotRevoked(now)); err != nil {
		return nil, err
	}
	return &Event{Kind: EventAnchored, Admins: admins.Digest(), Target: doc.Digest(), Time: now}, nil
}

// Revoke permanently revokes (admins, doc).
// caller proves membership in admins with proof.
// a never-created anchor can be revoked, which blocks any later Create.
func (a *Anchors) Revoke(caller Identity, admins AdminRoot, doc DocumentRoot, proof merkle.Proof) (*Event, error) {
	if !merkle.VerifyProof(a.h, admins, proof, caller) {
		return nil, ErrInvalidProof
	}
	key := recordKey(admins.Digest(), doc.Digest())
	r, ok, err := a.get(key)
	if err != nil {
		return nil, err
	}
	if ok && r.Revoked {
		return nil, ErrAlreadyRevoked
	}
	if err := a.put(key, Revoked()); err != nil {
		return nil, err
	}
	return &Event{Kind: EventRevoked, Admins: admins.Digest(), Target: doc.Digest(), Caller: caller.Digest()}, nil
}

// Lookup returns the record for (admins, doc), with ok false if none.
func (a *Anchors) Lookup(admins AdminRoot, doc DocumentRoot) (r Revokable, ok bool, err error) {
	return a.get(recordKey(admins.Digest(), doc.Digest()))
}
