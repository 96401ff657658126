// Package grpcapi serves the dispatcher over grpc.
// there's no .proto; the service is described by hand and messages are
// the same byte encodings the advrpc transport uses.
package grpcapi

import (
	"context"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

const ServiceName = "anchorage.Anchorage"

// AnchorageServer is the part of [server.Server] the service calls.
type AnchorageServer interface {
	CreateAnchor(admins, doc cryptoffi.Digest) (*registry.Event, error)
	RevokeAnchor(arg *server.RevokeAnchorArg) (*registry.Event, error)
	SuspendLeaf(arg *server.SuspendLeafArg) (*registry.Event, error)
	LookupAnchor(admins, doc cryptoffi.Digest) (registry.Revokable, bool, error)
	IsSuspended(admins, leaf cryptoffi.Digest, now uint64) (bool, error)
	Events(prevLen uint64) ([]*registry.Event, []byte, cryptoffi.Digest, error)
	WaitEvents(ctx context.Context, prevLen uint64) error
	Now() uint64
}

type method func(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error)

func unary(name string, f method) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new([]byte)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				out, err := f(srv.(AnchorageServer), ctx, *req.(*[]byte))
				if err != nil {
					return nil, err
				}
				return &out, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func createAnchor(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.CreateAnchorArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	ev, err := srv.CreateAnchor(arg.Admins, arg.Doc)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return registry.EventEncode(nil, ev), nil
}

func revokeAnchor(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.RevokeAnchorArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	ev, err := srv.RevokeAnchor(arg)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return registry.EventEncode(nil, ev), nil
}

func suspendLeaf(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.SuspendLeafArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	ev, err := srv.SuspendLeaf(arg)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return registry.EventEncode(nil, ev), nil
}

func lookupAnchor(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.LookupAnchorArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	r, ok, err := srv.LookupAnchor(arg.Admins, arg.Doc)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	reply := &server.LookupAnchorReply{Found: ok, Revoked: r.Revoked, Created: r.Created}
	return server.LookupAnchorReplyEncode(nil, reply), nil
}

func isSuspended(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.IsSuspendedArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	ok, err := srv.IsSuspended(arg.Admins, arg.Leaf, arg.Now)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	return server.IsSuspendedReplyEncode(nil, &server.IsSuspendedReply{Suspended: ok}), nil
}

func events(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	arg, _, err0 := server.EventsArgDecode(in)
	if err0 {
		return nil, toStatus(ctx, registry.ErrBadRequest)
	}
	evs, proof, link, err := srv.Events(arg.PrevLen)
	if err != nil {
		return nil, toStatus(ctx, err)
	}
	reply := &server.EventsReply{Events: evs, ChainProof: proof, Link: link}
	return server.EventsReplyEncode(nil, reply), nil
}

func now(srv AnchorageServer, ctx context.Context, in []byte) ([]byte, error) {
	return server.NowReplyEncode(nil, &server.NowReply{Now: srv.Now()}), nil
}

// watchEvents streams event pages as they're appended, starting past PrevLen.
func watchEvents(srv interface{}, stream grpc.ServerStream) error {
	s := srv.(AnchorageServer)
	ctx := stream.Context()
	in := new([]byte)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	arg, _, err0 := server.EventsArgDecode(*in)
	if err0 {
		return toStatus(ctx, registry.ErrBadRequest)
	}
	prev := arg.PrevLen
	for {
		if err := s.WaitEvents(ctx, prev); err != nil {
			return status.FromContextError(err).Err()
		}
		evs, proof, link, err := s.Events(prev)
		if err != nil {
			return toStatus(ctx, err)
		}
		out := server.EventsReplyEncode(nil, &server.EventsReply{Events: evs, ChainProof: proof, Link: link})
		if err := stream.SendMsg(&out); err != nil {
			return err
		}
		prev += uint64(len(evs))
	}
}

var watchEventsDesc = grpc.StreamDesc{
	StreamName:    "WatchEvents",
	Handler:       watchEvents,
	ServerStreams: true,
}

// ServiceDesc describes the anchorage service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AnchorageServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CreateAnchor", createAnchor),
		unary("RevokeAnchor", revokeAnchor),
		unary("SuspendLeaf", suspendLeaf),
		unary("LookupAnchor", lookupAnchor),
		unary("IsSuspended", isSuspended),
		unary("Events", events),
		unary("Now", now),
	},
	Streams:  []grpc.StreamDesc{watchEventsDesc},
	Metadata: "anchorage",
}

// NewServer returns a grpc server with the service registered.
func NewServer(s AnchorageServer, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ForceServerCodec(codec{}))
	g := grpc.NewServer(opts...)
	g.RegisterService(&ServiceDesc, s)
	return g
}
