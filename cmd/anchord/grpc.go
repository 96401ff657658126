package main

import (
	"net"

	"google.golang.org/grpc"
)

func serveGrpc(g *grpc.Server, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return g.Serve(lis)
}
