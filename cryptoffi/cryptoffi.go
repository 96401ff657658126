// Package cryptoffi wraps the crypto primitives behind small,
// algorithm-agnostic interfaces.
package cryptoffi

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"
	"hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/sha3"
)

const (
	HashLen uint64 = 32
)

// # Hash

// Digest is the fixed-width output of every [HashFunc].
type Digest [HashLen]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// DigestFrom copies b into a Digest. it errors if b isn't HashLen long.
func DigestFrom(b []byte) (d Digest, err bool) {
	if uint64(len(b)) != HashLen {
		err = true
		return
	}
	copy(d[:], b)
	return
}

// HashFunc is a fixed-output hash primitive.
// New must return a fresh hasher that sums to HashLen bytes.
type HashFunc interface {
	Name() string
	New() hash.Hash
}

// Sum hashes the concatenation of preimage.
func Sum(h HashFunc, preimage ...[]byte) (d Digest) {
	hr := h.New()
	for _, p := range preimage {
		hr.Write(p)
	}
	copy(d[:], hr.Sum(nil))
	return
}

type blake2sFunc struct{}

func (blake2sFunc) Name() string { return "blake2s" }

func (blake2sFunc) New() hash.Hash {
	// only errors on a bad key, and we don't key.
	hr, err := blake2s.New256(nil)
	if err != nil {
		panic("cryptoffi: blake2s init")
	}
	return hr
}

type blake3Func struct{}

func (blake3Func) Name() string { return "blake3" }

func (blake3Func) New() hash.Hash {
	return blake3.New()
}

type sha512_256Func struct{}

func (sha512_256Func) Name() string { return "sha512_256" }

func (sha512_256Func) New() hash.Hash {
	return sha512.New512_256()
}

type keccak256Func struct{}

func (keccak256Func) Name() string { return "keccak256" }

func (keccak256Func) New() hash.Hash {
	return sha3.NewLegacyKeccak256()
}

var (
	Blake2s    HashFunc = blake2sFunc{}
	Blake3     HashFunc = blake3Func{}
	Sha512_256 HashFunc = sha512_256Func{}
	Keccak256  HashFunc = keccak256Func{}
)

var hashFuncs = map[string]HashFunc{
	Blake2s.Name():    Blake2s,
	Blake3.Name():     Blake3,
	Sha512_256.Name(): Sha512_256,
	Keccak256.Name():  Keccak256,
}

// HashFuncByName looks up a built-in [HashFunc].
func HashFuncByName(name string) (HashFunc, bool) {
	h, ok := hashFuncs[name]
	return h, ok
}

// # Random

// RandBytes returns [n] random bytes.
func RandBytes(n uint64) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	// don't care about recovering from crypto/rand failures.
	if err != nil {
		panic("crypto/rand call failed")
	}
	return b
}
