package server

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/tchajed/marshal"
)

// Auth resolves a signed request to the caller's identity.
// the identity of a signer is the account digest of its encoded public key,
// so admin trees are built over public keys.
type Auth struct {
	h cryptoffi.HashFunc
	// verifiers caches parsed public keys, keyed by their encoding.
	verifiers *lru.Cache
}

func NewAuth(h cryptoffi.HashFunc, cacheSize int) (*Auth, error) {
	c, err := lru.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Auth{h: h, verifiers: c}, nil
}

// Resolve errors with [registry.ErrBadSignature] unless sig is pk's
// signature on msg.
func (a *Auth) Resolve(pk, msg, sig []byte) (registry.Identity, error) {
	v, err := a.verifier(pk)
	if err {
		return registry.Identity{}, registry.ErrBadSignature
	}
	if v.Verify(msg, sig) {
		return registry.Identity{}, registry.ErrBadSignature
	}
	return registry.AccountIdentity(a.h, pk), nil
}

func (a *Auth) verifier(pk []byte) (*cryptoffi.SigPublicKey, bool) {
	key := string(pk)
	if v, ok := a.verifiers.Get(key); ok {
		return v.(*cryptoffi.SigPublicKey), false
	}
	v, err := cryptoffi.SigPublicKeyDecode(pk)
	if err {
		return nil, true
	}
	a.verifiers.Add(key, v)
	return v, false
}

// Cached counts parsed keys in the cache.
func (a *Auth) Cached() int {
	return a.verifiers.Len()
}

// # Signed messages

// the rpc id leads each message, so a signature for one op
// can't be replayed as another.

func RevokeAnchorMsg(admins, doc cryptoffi.Digest, proof merkle.Proof) []byte {
	var b = make([]byte, 0, 8+2*cryptoffi.HashLen)
	b = marshal.WriteInt(b, RevokeAnchorRpc)
	b = marshalutil.WriteDigest(b, admins)
	b = marshalutil.WriteDigest(b, doc)
	b = merkle.ProofEncode(b, proof)
	return b
}

func SuspendLeafMsg(admins, leaf cryptoffi.Digest, proof merkle.Proof, until uint64) []byte {
	var b = make([]byte, 0, 16+2*cryptoffi.HashLen)
	b = marshal.WriteInt(b, SuspendLeafRpc)
	b = marshalutil.WriteDigest(b, admins)
	b = marshalutil.WriteDigest(b, leaf)
	b = merkle.ProofEncode(b, proof)
	b = marshal.WriteInt(b, until)
	return b
}

// SignRevokeAnchor builds a signed revoke request.
func SignRevokeAnchor(sk *cryptoffi.SigPrivateKey, admins, doc cryptoffi.Digest, proof merkle.Proof) *RevokeAnchorArg {
	sig := sk.Sign(RevokeAnchorMsg(admins, doc, proof))
	return &RevokeAnchorArg{Admins: admins, Doc: doc, Proof: proof, Pk: sk.PublicKey(), Sig: sig}
}

// SignSuspendLeaf builds a signed suspend request.
func SignSuspendLeaf(sk *cryptoffi.SigPrivateKey, admins, leaf cryptoffi.Digest, proof merkle.Proof, until uint64) *SuspendLeafArg {
	sig := sk.Sign(SuspendLeafMsg(admins, leaf, proof, until))
	return &SuspendLeafArg{Admins: admins, Leaf: leaf, Proof: proof, Until: until, Pk: sk.PublicKey(), Sig: sig}
}
