package server

import (
	"github.com/mit-pdos/gokv/grove_ffi"
	"github.com/mit-pdos/gokv/urpc"
)

// ServeUrpc serves s over gokv's urpc, with the same handlers as advrpc.
// addr is "host:port". it returns once listening.
func ServeUrpc(s *Server, addr string) {
	urpc.MakeServer(Handlers(s)).Serve(grove_ffi.MakeAddress(addr))
}

// UrpcClient is a [Conn] over urpc.
type UrpcClient struct {
	cli       *urpc.Client
	timeoutMs uint64
}

func DialUrpc(addr string, timeoutMs uint64) *UrpcClient {
	return &UrpcClient{cli: urpc.MakeClient(grove_ffi.MakeAddress(addr)), timeoutMs: timeoutMs}
}

func (c *UrpcClient) Call(rpcId uint64, args []byte, reply *[]byte) bool {
	err := c.cli.Call(rpcId, args, reply, c.timeoutMs)
	return err != urpc.ErrNone
}
