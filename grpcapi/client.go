package grpcapi

import (
	"context"
	"io"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/server"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Client calls the anchorage service. it's safe for concurrent use.
// failures with a registry code come back as [registry.Err].
type Client struct {
	cc *grpc.ClientConn
}

func Dial(addr string, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(codec{})),
	}, opts...)
	cc, err := grpc.Dial(addr, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

func (c *Client) invoke(ctx context.Context, name string, in []byte) ([]byte, error) {
	out := new([]byte)
	var md metadata.MD
	err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+name, &in, out, grpc.Trailer(&md))
	if err != nil {
		return nil, fromStatus(err, md)
	}
	return *out, nil
}

func (c *Client) mutation(ctx context.Context, name string, in []byte) (*registry.Event, error) {
	out, err := c.invoke(ctx, name, in)
	if err != nil {
		return nil, err
	}
	ev, _, err0 := registry.EventDecode(out)
	if err0 {
		return nil, server.ErrBadReply
	}
	return ev, nil
}

func (c *Client) CreateAnchor(ctx context.Context, admins, doc cryptoffi.Digest) (*registry.Event, error) {
	in := server.CreateAnchorArgEncode(nil, &server.CreateAnchorArg{Admins: admins, Doc: doc})
	return c.mutation(ctx, "CreateAnchor", in)
}

func (c *Client) RevokeAnchor(ctx context.Context, arg *server.RevokeAnchorArg) (*registry.Event, error) {
	return c.mutation(ctx, "RevokeAnchor", server.RevokeAnchorArgEncode(nil, arg))
}

func (c *Client) SuspendLeaf(ctx context.Context, arg *server.SuspendLeafArg) (*registry.Event, error) {
	return c.mutation(ctx, "SuspendLeaf", server.SuspendLeafArgEncode(nil, arg))
}

func (c *Client) LookupAnchor(ctx context.Context, admins, doc cryptoffi.Digest) (registry.Revokable, bool, error) {
	in := server.LookupAnchorArgEncode(nil, &server.LookupAnchorArg{Admins: admins, Doc: doc})
	out, err := c.invoke(ctx, "LookupAnchor", in)
	if err != nil {
		return registry.Revokable{}, false, err
	}
	reply, _, err0 := server.LookupAnchorReplyDecode(out)
	if err0 {
		return registry.Revokable{}, false, server.ErrBadReply
	}
	if !reply.Found {
		return registry.Revokable{}, false, nil
	}
	if reply.Revoked {
		return registry.Revoked(), true, nil
	}
	return registry.NotRevoked(reply.Created), true, nil
}

func (c *Client) IsSuspended(ctx context.Context, admins, leaf cryptoffi.Digest, now uint64) (bool, error) {
	in := server.IsSuspendedArgEncode(nil, &server.IsSuspendedArg{Admins: admins, Leaf: leaf, Now: now})
	out, err := c.invoke(ctx, "IsSuspended", in)
	if err != nil {
		return false, err
	}
	reply, _, err0 := server.IsSuspendedReplyDecode(out)
	if err0 {
		return false, server.ErrBadReply
	}
	return reply.Suspended, nil
}

func (c *Client) Events(ctx context.Context, prevLen uint64) (*server.EventsReply, error) {
	out, err := c.invoke(ctx, "Events", server.EventsArgEncode(nil, &server.EventsArg{PrevLen: prevLen}))
	if err != nil {
		return nil, err
	}
	reply, _, err0 := server.EventsReplyDecode(out)
	if err0 {
		return nil, server.ErrBadReply
	}
	return reply, nil
}

func (c *Client) Now(ctx context.Context) (uint64, error) {
	out, err := c.invoke(ctx, "Now", nil)
	if err != nil {
		return 0, err
	}
	reply, _, err0 := server.NowReplyDecode(out)
	if err0 {
		return 0, server.ErrBadReply
	}
	return reply.Now, nil
}

// WatchEvents calls f on each page of events past prevLen, until ctx is
// done or f errors.
func (c *Client) WatchEvents(ctx context.Context, prevLen uint64, f func(*server.EventsReply) error) error {
	stream, err := c.cc.NewStream(ctx, &watchEventsDesc, "/"+ServiceName+"/WatchEvents")
	if err != nil {
		return err
	}
	in := server.EventsArgEncode(nil, &server.EventsArg{PrevLen: prevLen})
	if err := stream.SendMsg(&in); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		out := new([]byte)
		if err := stream.RecvMsg(out); err != nil {
			if err == io.EOF {
				return nil
			}
			return fromStatus(err, stream.Trailer())
		}
		reply, _, err0 := server.EventsReplyDecode(*out)
		if err0 {
			return server.ErrBadReply
		}
		if err := f(reply); err != nil {
			return err
		}
	}
}
