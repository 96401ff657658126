// Package hashchain commits to an append-only list of digests.
// link_0 = H(), link_{i+1} = H(link_i || val_i).
package hashchain

import (
	"bytes"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/tchajed/goose/machine"
)

type HashChain struct {
	h cryptoffi.HashFunc
	// links[i] commits to the first i vals.
	links []cryptoffi.Digest
	// vals is pre-flattened to quickly convert it to a proof.
	vals []byte
}

func New(h cryptoffi.HashFunc) *HashChain {
	return &HashChain{h: h, links: []cryptoffi.Digest{EmptyLink(h)}}
}

// Append adds val and returns the new link.
func (c *HashChain) Append(val cryptoffi.Digest) cryptoffi.Digest {
	link := nextLink(c.h, c.Link(), val)
	c.links = append(c.links, link)
	c.vals = append(c.vals, val[:]...)
	return link
}

func (c *HashChain) Len() uint64 {
	return uint64(len(c.links)) - 1
}

// Link commits to the whole list.
func (c *HashChain) Link() cryptoffi.Digest {
	return c.links[len(c.links)-1]
}

// LinkAt commits to the first n vals. it expects n <= Len.
func (c *HashChain) LinkAt(n uint64) cryptoffi.Digest {
	machine.Assert(n <= c.Len())
	return c.links[n]
}

// Prove transitions from knowing a prevLen prefix to knowing the latest list.
// it expects prevLen <= Len.
func (c *HashChain) Prove(prevLen uint64) []byte {
	return c.ProveTo(prevLen, c.Len())
}

// ProveTo transitions from a prevLen prefix to an endLen prefix.
// it expects prevLen <= endLen <= Len.
func (c *HashChain) ProveTo(prevLen, endLen uint64) []byte {
	machine.Assert(prevLen <= endLen && endLen <= c.Len())
	start := prevLen * cryptoffi.HashLen
	end := endLen * cryptoffi.HashLen
	return bytes.Clone(c.vals[start:end])
}

// Verify extends prevLink with proof, returning the number of new vals,
// the last new val, and the new link.
// if there are no new vals, the last val is zero.
// it errors if proof isn't a whole number of digests.
func Verify(h cryptoffi.HashFunc, prevLink cryptoffi.Digest, proof []byte) (uint64, cryptoffi.Digest, cryptoffi.Digest, bool) {
	var newVal cryptoffi.Digest
	proofLen := uint64(len(proof))
	if proofLen%cryptoffi.HashLen != 0 {
		return 0, newVal, prevLink, true
	}
	lenVals := proofLen / cryptoffi.HashLen

	var newLink = prevLink
	for i := uint64(0); i < lenVals; i++ {
		start := i * cryptoffi.HashLen
		end := (i + 1) * cryptoffi.HashLen
		copy(newVal[:], proof[start:end])
		newLink = nextLink(h, newLink, newVal)
	}
	return lenVals, newVal, newLink, false
}

// Vals splits a proof back into digests. it errors like [Verify].
func Vals(proof []byte) ([]cryptoffi.Digest, bool) {
	if uint64(len(proof))%cryptoffi.HashLen != 0 {
		return nil, true
	}
	out := make([]cryptoffi.Digest, 0, uint64(len(proof))/cryptoffi.HashLen)
	for len(proof) > 0 {
		var d cryptoffi.Digest
		copy(d[:], proof)
		out = append(out, d)
		proof = proof[cryptoffi.HashLen:]
	}
	return out, false
}

// Links is [Verify] keeping every intermediate link.
// links[i] is the link after the first i+1 new vals.
func Links(h cryptoffi.HashFunc, prevLink cryptoffi.Digest, proof []byte) ([]cryptoffi.Digest, bool) {
	vals, err := Vals(proof)
	if err {
		return nil, true
	}
	links := make([]cryptoffi.Digest, 0, len(vals))
	link := prevLink
	for _, v := range vals {
		link = nextLink(h, link, v)
		links = append(links, link)
	}
	return links, false
}

// EmptyLink is the link of the empty chain.
func EmptyLink(h cryptoffi.HashFunc) cryptoffi.Digest {
	return cryptoffi.Sum(h)
}

func nextLink(h cryptoffi.HashFunc, prevLink, nextVal cryptoffi.Digest) cryptoffi.Digest {
	return cryptoffi.Sum(h, prevLink[:], nextVal[:])
}
