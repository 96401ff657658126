// Package cryptoutil turns typed values into hash preimages
// and tags the resulting digests with the domain they denote.
package cryptoutil

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/tchajed/marshal"
)

// Hash is a shorthand for hashing a single byte slice.
func Hash(h cryptoffi.HashFunc, b []byte) cryptoffi.Digest {
	return cryptoffi.Sum(h, b)
}

// Hashable values know their canonical preimage encoding.
type Hashable interface {
	AppendPreimage(b []byte) []byte
}

// Bytes are hashed as-is, without a length prefix.
type Bytes []byte

func (x Bytes) AppendPreimage(b []byte) []byte {
	return append(b, x...)
}

// Uint64 is hashed as 8 little-endian bytes.
type Uint64 uint64

func (x Uint64) AppendPreimage(b []byte) []byte {
	return marshal.WriteInt(b, uint64(x))
}

// Pair hashes L's encoding followed by R's.
type Pair[A, B Hashable] struct {
	L A
	R B
}

func (p Pair[A, B]) AppendPreimage(b []byte) []byte {
	b = p.L.AppendPreimage(b)
	return p.R.AppendPreimage(b)
}

// Hashed is a digest of some value of domain T.
// T is a marker type; it never appears in the digest bytes,
// so two domains hashing equal preimages get equal digests.
type Hashed[T any] struct {
	d cryptoffi.Digest
}

// Prehashed wraps a digest computed elsewhere.
func Prehashed[T any](d cryptoffi.Digest) Hashed[T] {
	return Hashed[T]{d: d}
}

// HashOf hashes the concatenated encodings of vals.
func HashOf[T any](h cryptoffi.HashFunc, vals ...Hashable) Hashed[T] {
	var b []byte
	for _, v := range vals {
		b = v.AppendPreimage(b)
	}
	return Hashed[T]{d: cryptoffi.Sum(h, b)}
}

func (x Hashed[T]) Digest() cryptoffi.Digest {
	return x.d
}

func (x Hashed[T]) Bytes() []byte {
	return x.d[:]
}

// AppendPreimage lets digests feed other hashes, e.g. as tree nodes.
func (x Hashed[T]) AppendPreimage(b []byte) []byte {
	return append(b, x.d[:]...)
}

func (x Hashed[T]) String() string {
	return x.d.String()
}
