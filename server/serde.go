package server

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
)

// mutations reply with an error code, then the event on success.

type CreateAnchorArg struct {
	Admins cryptoffi.Digest
	Doc    cryptoffi.Digest
}

// RevokeAnchorArg is signed by Pk. see [RevokeAnchorMsg].
type RevokeAnchorArg struct {
	Admins cryptoffi.Digest
	Doc    cryptoffi.Digest
	Proof  merkle.Proof
	Pk     []byte
	Sig    []byte
}

// SuspendLeafArg is signed by Pk. see [SuspendLeafMsg].
type SuspendLeafArg struct {
	Admins cryptoffi.Digest
	Leaf   cryptoffi.Digest
	Proof  merkle.Proof
	Until  uint64
	Pk     []byte
	Sig    []byte
}

type MutationReply struct {
	Err uint64
	Ev  *registry.Event
}

type LookupAnchorArg struct {
	Admins cryptoffi.Digest
	Doc    cryptoffi.Digest
}

type LookupAnchorReply struct {
	Found   bool
	Revoked bool
	Created uint64
	Err     uint64
}

type IsSuspendedArg struct {
	Admins cryptoffi.Digest
	Leaf   cryptoffi.Digest
	Now    uint64
}

type IsSuspendedReply struct {
	Suspended bool
	Err       uint64
}

type EventsArg struct {
	PrevLen uint64
}

type EventsReply struct {
	Events     []*registry.Event
	ChainProof []byte
	Link       cryptoffi.Digest
	Err        uint64
}

type NowReply struct {
	Now uint64
}
