// Package adminset builds the tree that a [merkle.Root] commits to,
// and hands out per-member proofs.
// it's client-side tooling; the registry only ever sees roots and proofs.
package adminset

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/cryptoutil"
	"github.com/sanjit-bhat/anchorage/merkle"
)

// Set is an immutable tree over members.
// levels[0] holds the leaf nodes and the last level holds the root.
// an odd node out at any level is promoted without hashing.
type Set[T any] struct {
	h       cryptoffi.HashFunc
	members []cryptoutil.Hashed[T]
	levels  [][]cryptoffi.Digest
}

func New[T any](h cryptoffi.HashFunc, members []cryptoutil.Hashed[T]) *Set[T] {
	s := &Set[T]{h: h, members: append([]cryptoutil.Hashed[T](nil), members...)}
	if len(members) == 0 {
		return s
	}
	level := make([]cryptoffi.Digest, 0, len(members))
	for _, m := range members {
		level = append(level, merkle.LeafHash(h, m))
	}
	s.levels = append(s.levels, level)
	for len(level) > 1 {
		next := make([]cryptoffi.Digest, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			next = append(next, merkle.NodeHash(h, level[i], level[i+1]))
		}
		s.levels = append(s.levels, next)
		level = next
	}
	return s
}

// Root returns the empty sentinel for an empty set.
func (s *Set[T]) Root() merkle.Root[T] {
	if len(s.levels) == 0 {
		return merkle.EmptyRoot[T]()
	}
	return merkle.RootFrom[T](s.levels[len(s.levels)-1][0])
}

func (s *Set[T]) Len() int {
	return len(s.members)
}

// Index finds the first position of m.
func (s *Set[T]) Index(m cryptoutil.Hashed[T]) (int, bool) {
	for i, x := range s.members {
		if x == m {
			return i, true
		}
	}
	return 0, false
}

// Prove returns the inclusion proof for the member at idx.
// it errors if idx is out of range.
func (s *Set[T]) Prove(idx int) (merkle.Proof, bool) {
	if idx < 0 || idx >= len(s.members) {
		return nil, true
	}
	var proof merkle.Proof
	pos := idx
	for _, level := range s.levels[:len(s.levels)-1] {
		if pos%2 == 1 {
			proof = append(proof, merkle.ProofElement{Side: merkle.Left, Sibling: level[pos-1]})
		} else if pos+1 < len(level) {
			proof = append(proof, merkle.ProofElement{Side: merkle.Right, Sibling: level[pos+1]})
		}
		pos /= 2
	}
	return proof, false
}

// ProveMember is [Set.Prove] by value.
func (s *Set[T]) ProveMember(m cryptoutil.Hashed[T]) (merkle.Proof, bool) {
	idx, ok := s.Index(m)
	if !ok {
		return nil, true
	}
	return s.Prove(idx)
}
