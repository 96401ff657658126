package registry

import (
	"errors"
)

// Err is a registry failure code.
// codes are stable; they go on the wire unchanged.
type Err uint64

const ErrNone Err = 0

var errCorrupt = errors.New("registry: corrupt record")

// raised by the registries.
const (
	ErrAlreadyAnchored Err = iota + 1
	ErrAlreadyRevoked
	ErrInvalidProof
	ErrSuspensionNotExtended
)

// raised around the registries, by the store or the dispatcher.
const (
	ErrStore Err = iota + 5
	ErrProofTooLong
	ErrBadSignature
	ErrBadRequest
)

func (e Err) Error() string {
	switch e {
	case ErrNone:
		return "registry: no error"
	case ErrAlreadyAnchored:
		return "registry: already anchored"
	case ErrAlreadyRevoked:
		return "registry: already revoked"
	case ErrInvalidProof:
		return "registry: invalid proof"
	case ErrSuspensionNotExtended:
		return "registry: suspension not extended"
	case ErrStore:
		return "registry: store failure"
	case ErrProofTooLong:
		return "registry: proof too long"
	case ErrBadSignature:
		return "registry: bad signature"
	case ErrBadRequest:
		return "registry: bad request"
	default:
		return "registry: unknown error"
	}
}

// Code maps err onto its wire code. foreign errors count as [ErrStore].
func Code(err error) Err {
	if err == nil {
		return ErrNone
	}
	var e Err
	if errors.As(err, &e) {
		return e
	}
	return ErrStore
}

// FromCode is the inverse of [Code]. it returns nil for [ErrNone].
func FromCode(c Err) error {
	if c == ErrNone {
		return nil
	}
	return c
}
