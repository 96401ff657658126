package marshalutil

import (
	"bytes"
	"testing"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/tchajed/marshal"
)

func TestShortReads(t *testing.T) {
	if _, _, err := ReadInt(make([]byte, 7)); !err {
		t.Fatal()
	}
	if _, _, err := ReadByte(nil); !err {
		t.Fatal()
	}
	if _, _, err := ReadBool(nil); !err {
		t.Fatal()
	}
	if _, _, err := ReadDigest(make([]byte, cryptoffi.HashLen-1)); !err {
		t.Fatal()
	}
	// length prefix promises more than there is.
	b := marshal.WriteInt(nil, 10)
	b = append(b, 1, 2, 3)
	if _, _, err := ReadSlice1D(b); !err {
		t.Fatal()
	}
}

func TestSlice1D(t *testing.T) {
	data := []byte("data")
	b := WriteSlice1D(nil, data)
	b = WriteByte(b, 7)
	data0, rem, err := ReadSlice1D(b)
	if err {
		t.Fatal()
	}
	if !bytes.Equal(data, data0) {
		t.Fatal()
	}
	x, rem, err := ReadByte(rem)
	if err || x != 7 || len(rem) != 0 {
		t.Fatal()
	}
}

func TestDigest(t *testing.T) {
	var d cryptoffi.Digest
	d[3] = 3
	b := WriteDigest(nil, d)
	if uint64(len(b)) != cryptoffi.HashLen {
		t.Fatal()
	}
	d0, rem, err := ReadDigest(b)
	if err || d0 != d || len(rem) != 0 {
		t.Fatal()
	}
}

func TestReadLen(t *testing.T) {
	b := marshal.WriteInt(nil, 17)
	if _, _, err := ReadLen(b, 16); !err {
		t.Fatal()
	}
	n, _, err := ReadLen(b, 17)
	if err || n != 17 {
		t.Fatal()
	}
}
