package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sanjit-bhat/anchorage/advrpc"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/grpcapi"
	"github.com/sanjit-bhat/anchorage/internal/config"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/server"
)

const rpcTimeout = 10 * time.Second

// client is what the subcommands need from anchord, on any transport.
type client interface {
	CreateAnchor(admins, doc cryptoffi.Digest) (*registry.Event, error)
	RevokeAnchor(arg *server.RevokeAnchorArg) (*registry.Event, error)
	SuspendLeaf(arg *server.SuspendLeafArg) (*registry.Event, error)
	LookupAnchor(admins, doc cryptoffi.Digest) (registry.Revokable, bool, error)
	IsSuspended(admins, leaf cryptoffi.Digest, now uint64) (bool, error)
	Events(prevLen uint64) (*server.EventsReply, error)
	Now() (uint64, error)
	Close()
}

func dial(cfg *ctlConfig) (client, error) {
	switch cfg.Transport {
	case config.TransportAdvrpc:
		c, err := advrpc.Dial(cfg.Addr)
		if err != nil {
			return nil, err
		}
		return &connClient{c: c, close: func() { c.Close() }}, nil
	case config.TransportUrpc:
		c := server.DialUrpc(cfg.Addr, uint64(rpcTimeout.Milliseconds()))
		return &connClient{c: c, close: func() {}}, nil
	case config.TransportGrpc:
		c, err := grpcapi.Dial(cfg.Addr)
		if err != nil {
			return nil, err
		}
		return &grpcClient{c: c}, nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

type connClient struct {
	c     server.Conn
	close func()
}

func (c *connClient) CreateAnchor(admins, doc cryptoffi.Digest) (*registry.Event, error) {
	return server.CallCreateAnchor(c.c, admins, doc)
}

func (c *connClient) RevokeAnchor(arg *server.RevokeAnchorArg) (*registry.Event, error) {
	return server.CallRevokeAnchor(c.c, arg)
}

func (c *connClient) SuspendLeaf(arg *server.SuspendLeafArg) (*registry.Event, error) {
	return server.CallSuspendLeaf(c.c, arg)
}

func (c *connClient) LookupAnchor(admins, doc cryptoffi.Digest) (registry.Revokable, bool, error) {
	return server.CallLookupAnchor(c.c, admins, doc)
}

func (c *connClient) IsSuspended(admins, leaf cryptoffi.Digest, now uint64) (bool, error) {
	return server.CallIsSuspended(c.c, admins, leaf, now)
}

func (c *connClient) Events(prevLen uint64) (*server.EventsReply, error) {
	return server.CallEvents(c.c, prevLen)
}

func (c *connClient) Now() (uint64, error) {
	return server.CallNow(c.c)
}

func (c *connClient) Close() {
	c.close()
}

type grpcClient struct {
	c *grpcapi.Client
}

func rpcCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), rpcTimeout)
}

func (c *grpcClient) CreateAnchor(admins, doc cryptoffi.Digest) (*registry.Event, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.CreateAnchor(ctx, admins, doc)
}

func (c *grpcClient) RevokeAnchor(arg *server.RevokeAnchorArg) (*registry.Event, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.RevokeAnchor(ctx, arg)
}

func (c *grpcClient) SuspendLeaf(arg *server.SuspendLeafArg) (*registry.Event, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.SuspendLeaf(ctx, arg)
}

func (c *grpcClient) LookupAnchor(admins, doc cryptoffi.Digest) (registry.Revokable, bool, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.LookupAnchor(ctx, admins, doc)
}

func (c *grpcClient) IsSuspended(admins, leaf cryptoffi.Digest, now uint64) (bool, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.IsSuspended(ctx, admins, leaf, now)
}

func (c *grpcClient) Events(prevLen uint64) (*server.EventsReply, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.Events(ctx, prevLen)
}

func (c *grpcClient) Now() (uint64, error) {
	ctx, cancel := rpcCtx()
	defer cancel()
	return c.c.Now(ctx)
}

func (c *grpcClient) Close() {
	c.c.Close()
}
