package grpcapi

import (
	"context"
	"strconv"

	"github.com/sanjit-bhat/anchorage/registry"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// errTrailer carries the exact registry code next to the coarser grpc code.
const errTrailer = "anchorage-err"

func grpcCode(e registry.Err) codes.Code {
	switch e {
	case registry.ErrNone:
		return codes.OK
	case registry.ErrAlreadyAnchored, registry.ErrAlreadyRevoked:
		return codes.AlreadyExists
	case registry.ErrInvalidProof, registry.ErrBadSignature:
		return codes.PermissionDenied
	case registry.ErrSuspensionNotExtended:
		return codes.FailedPrecondition
	case registry.ErrProofTooLong, registry.ErrBadRequest:
		return codes.InvalidArgument
	default:
		return codes.Internal
	}
}

// toStatus converts a server error and sets the trailer.
func toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	e := registry.Code(err)
	// only fails outside an rpc.
	_ = grpc.SetTrailer(ctx, metadata.Pairs(errTrailer, strconv.FormatUint(uint64(e), 10)))
	return status.Error(grpcCode(e), err.Error())
}

// fromStatus recovers the registry error, if the trailer has one.
// other failures come back as is.
func fromStatus(err error, md metadata.MD) error {
	vals := md.Get(errTrailer)
	if len(vals) != 1 {
		return err
	}
	c, perr := strconv.ParseUint(vals[0], 10, 64)
	if perr != nil {
		return err
	}
	if e := registry.FromCode(registry.Err(c)); e != nil {
		return e
	}
	return err
}
