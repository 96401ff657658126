package merkle

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/tchajed/marshal"
)

// MaxDecodeLen bounds decoded proofs well past any sane tree depth.
// configured size limits must not exceed it.
// the size policy proper is [MaxProofSize], applied by the caller.
const MaxDecodeLen uint64 = 256

// ProofEncode appends len(p), then per element its side byte and sibling.
func ProofEncode(b0 []byte, p Proof) []byte {
	var b = b0
	b = marshal.WriteInt(b, uint64(len(p)))
	for _, e := range p {
		b = marshalutil.WriteByte(b, byte(e.Side))
		b = marshalutil.WriteDigest(b, e.Sibling)
	}
	return b
}

// ProofDecode errors on unknown side tags and on overlong proofs.
func ProofDecode(b0 []byte) (Proof, []byte, bool) {
	n, b, err := marshalutil.ReadLen(b0, MaxDecodeLen)
	if err {
		return nil, nil, true
	}
	p := make(Proof, 0, n)
	for i := uint64(0); i < n; i++ {
		var side byte
		side, b, err = marshalutil.ReadByte(b)
		if err {
			return nil, nil, true
		}
		if Side(side) != Left && Side(side) != Right {
			return nil, nil, true
		}
		var sib cryptoffi.Digest
		sib, b, err = marshalutil.ReadDigest(b)
		if err {
			return nil, nil, true
		}
		p = append(p, ProofElement{Side: Side(side), Sibling: sib})
	}
	return p, b, false
}
