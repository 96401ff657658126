// Package registry holds the anchor and suspension state machines.
// both registries authorize admin actions with exactly one check:
// a merkle proof that the caller's identity digest is under the admin root.
//
// every operation is a single read-then-write against the store.
// the registries don't lock; the caller runs one mutation at a time.
package registry

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/cryptoutil"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/tchajed/marshal"
)

// Document marks digests of documents and document-tree leaves.
type Document struct{}

// Account marks digests of account ids.
type Account struct{}

type (
	AdminRoot    = merkle.Root[Account]
	DocumentRoot = merkle.Root[Document]
	LeafDigest   = cryptoutil.Hashed[Document]
	Identity     = cryptoutil.Hashed[Account]
)

// AccountIdentity is the digest an admin tree stores for account id.
func AccountIdentity(h cryptoffi.HashFunc, id []byte) Identity {
	return cryptoutil.HashOf[Account](h, cryptoutil.Bytes(id))
}

// AccountUint64 encodes a numeric account id.
func AccountUint64(n uint64) []byte {
	return marshal.WriteInt(make([]byte, 0, 8), n)
}

// Registry bundles both registries over one store.
type Registry struct {
	Anchors     *Anchors
	Suspensions *Suspensions
}

func New(h cryptoffi.HashFunc, st store.Store, clock Clock) *Registry {
	return &Registry{
		Anchors:     NewAnchors(h, st, clock),
		Suspensions: NewSuspensions(h, st),
	}
}

// recordKey is admins || target. both are fixed width.
func recordKey(admins, target cryptoffi.Digest) []byte {
	b := make([]byte, 0, 2*cryptoffi.HashLen)
	b = marshalutil.WriteDigest(b, admins)
	b = marshalutil.WriteDigest(b, target)
	return b
}
