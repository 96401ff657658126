// Package marshalutil has bounds-checked decoders on top of
// [github.com/tchajed/marshal], which panics on short input.
package marshalutil

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/tchajed/marshal"
)

type errorTy = bool

const (
	errNone errorTy = false
	errSome errorTy = true
)

func ReadBool(b0 []byte) (bool, []byte, errorTy) {
	var b = b0
	if uint64(len(b)) < 1 {
		return false, nil, errSome
	}
	data, b := marshal.ReadBool(b)
	return data, b, errNone
}

func ReadInt(b0 []byte) (uint64, []byte, errorTy) {
	var b = b0
	if uint64(len(b)) < 8 {
		return 0, nil, errSome
	}
	data, b := marshal.ReadInt(b)
	return data, b, errNone
}

func ReadByte(b0 []byte) (byte, []byte, errorTy) {
	var b = b0
	if uint64(len(b)) < 1 {
		return 0, nil, errSome
	}
	data, b := marshal.ReadBytes(b, 1)
	return data[0], b, errNone
}

func WriteByte(b0 []byte, data byte) []byte {
	var b = b0
	b = marshal.WriteBytes(b, []byte{data})
	return b
}

func ReadBytes(b0 []byte, length uint64) ([]byte, []byte, errorTy) {
	var b = b0
	if uint64(len(b)) < length {
		return nil, nil, errSome
	}
	data, b := marshal.ReadBytes(b, length)
	return data, b, errNone
}

func ReadSlice1D(b0 []byte) ([]byte, []byte, errorTy) {
	var b = b0
	length, b, err := ReadInt(b)
	if err {
		return nil, nil, err
	}
	data, b, err := ReadBytes(b, length)
	if err {
		return nil, nil, err
	}
	return data, b, errNone
}

func WriteSlice1D(b0 []byte, data []byte) []byte {
	var b = b0
	b = marshal.WriteInt(b, uint64(len(data)))
	b = marshal.WriteBytes(b, data)
	return b
}

// ReadDigest reads a fixed-width digest, no length prefix.
func ReadDigest(b0 []byte) (cryptoffi.Digest, []byte, errorTy) {
	var d cryptoffi.Digest
	data, b, err := ReadBytes(b0, cryptoffi.HashLen)
	if err {
		return d, nil, err
	}
	copy(d[:], data)
	return d, b, errNone
}

func WriteDigest(b0 []byte, d cryptoffi.Digest) []byte {
	return marshal.WriteBytes(b0, d[:])
}

// ReadLen reads a slice length and errors if it exceeds max.
// it stops adversarial lengths from driving huge allocations.
func ReadLen(b0 []byte, max uint64) (uint64, []byte, errorTy) {
	length, b, err := ReadInt(b0)
	if err {
		return 0, nil, err
	}
	if length > max {
		return 0, nil, errSome
	}
	return length, b, errNone
}
