// Package merkle checks inclusion proofs against a claimed root.
// it never builds trees; callers hand in the root and the sibling path.
//
// the tree this verifies is:
//   - a leaf node for member x is H(x), where x is already a digest.
//   - an interior node is H(left || right).
//
// hashing the member digest once more separates leaf nodes from
// interior nodes, so a member digest can't pose as a sibling.
package merkle

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/cryptoutil"
)

// MaxProofSize bounds proof length at the dispatcher.
// it caps an admin set at 2^MaxProofSize members.
// [VerifyProof] itself takes any length.
const MaxProofSize uint64 = 16

// Root is the root of a tree over members of domain T.
type Root[T any] struct {
	d cryptoffi.Digest
}

func RootFrom[T any](d cryptoffi.Digest) Root[T] {
	return Root[T]{d: d}
}

// EmptyRoot is the all-zero sentinel for the empty set.
// nothing hashes to it, so no proof against it verifies.
func EmptyRoot[T any]() Root[T] {
	return Root[T]{}
}

func (r Root[T]) IsEmpty() bool {
	return r.d == cryptoffi.Digest{}
}

func (r Root[T]) Digest() cryptoffi.Digest {
	return r.d
}

func (r Root[T]) Bytes() []byte {
	return r.d[:]
}

func (r Root[T]) String() string {
	return r.d.String()
}

// Side says where the sibling sits relative to the running hash.
type Side byte

const (
	Left  Side = 0
	Right Side = 1
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

type ProofElement struct {
	Side    Side
	Sibling cryptoffi.Digest
}

// Proof goes from the leaf's sibling up to the root's children.
type Proof []ProofElement

// LeafHash is the leaf node for member leaf.
func LeafHash[T any](h cryptoffi.HashFunc, leaf cryptoutil.Hashed[T]) cryptoffi.Digest {
	return cryptoffi.Sum(h, leaf.Bytes())
}

// NodeHash is the interior node over two children.
func NodeHash(h cryptoffi.HashFunc, left, right cryptoffi.Digest) cryptoffi.Digest {
	return cryptoffi.Sum(h, left[:], right[:])
}

// ComputeRoot folds proof over the leaf node.
func ComputeRoot[T any](h cryptoffi.HashFunc, proof Proof, leaf cryptoutil.Hashed[T]) cryptoffi.Digest {
	acc := LeafHash(h, leaf)
	for _, e := range proof {
		if e.Side == Left {
			acc = NodeHash(h, e.Sibling, acc)
		} else {
			acc = NodeHash(h, acc, e.Sibling)
		}
	}
	return acc
}

// VerifyProof reports whether leaf is in the tree rooted at root.
// an empty proof only verifies a single-member tree.
func VerifyProof[T any](h cryptoffi.HashFunc, root Root[T], proof Proof, leaf cryptoutil.Hashed[T]) bool {
	for _, e := range proof {
		if e.Side != Left && e.Side != Right {
			return false
		}
	}
	return ComputeRoot(h, proof, leaf) == root.d
}

// CheckSize errors if proof is longer than max.
func CheckSize(proof Proof, max uint64) bool {
	return uint64(len(proof)) > max
}
