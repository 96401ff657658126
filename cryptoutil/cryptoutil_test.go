package cryptoutil

import (
	"bytes"
	"testing"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
)

type doc struct{}

type acct struct{}

func TestHashOfDeterministic(t *testing.T) {
	h := cryptoffi.Blake2s
	x0 := HashOf[doc](h, Bytes("x"))
	x1 := HashOf[doc](h, Bytes("x"))
	if x0 != x1 {
		t.Fatal()
	}
	if x0.Digest() != Hash(h, []byte("x")) {
		t.Fatal()
	}
	y := HashOf[doc](h, Bytes("y"))
	if x0 == y {
		t.Fatal()
	}
}

func TestUint64LittleEndian(t *testing.T) {
	b := Uint64(0x0102).AppendPreimage(nil)
	if !bytes.Equal(b, []byte{2, 1, 0, 0, 0, 0, 0, 0}) {
		t.Fatal(b)
	}
}

func TestPairOrder(t *testing.T) {
	h := cryptoffi.Blake3
	a := HashOf[doc](h, Bytes("a"))
	b := HashOf[doc](h, Bytes("b"))
	ab := HashOf[doc](h, Pair[Hashed[doc], Hashed[doc]]{L: a, R: b})
	ba := HashOf[doc](h, Pair[Hashed[doc], Hashed[doc]]{L: b, R: a})
	if ab == ba {
		t.Fatal()
	}
	// a pair is just the concatenation.
	flat := cryptoffi.Sum(h, a.Bytes(), b.Bytes())
	if ab.Digest() != flat {
		t.Fatal()
	}
}

func TestDomainsShareBytes(t *testing.T) {
	// domain tags are static-only. equal preimages give equal bytes.
	h := cryptoffi.Sha512_256
	d := HashOf[doc](h, Uint64(7))
	a := HashOf[acct](h, Uint64(7))
	if d.Digest() != a.Digest() {
		t.Fatal()
	}
}

func TestPrehashed(t *testing.T) {
	var d cryptoffi.Digest
	d[0] = 9
	x := Prehashed[doc](d)
	if x.Digest() != d {
		t.Fatal()
	}
	if len(x.AppendPreimage([]byte{1})) != 1+int(cryptoffi.HashLen) {
		t.Fatal()
	}
}
