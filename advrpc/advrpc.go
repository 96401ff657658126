package advrpc

// advrpc provides a basic RPC lib on top of an adversarial network.
// a request is an 8-byte rpc id followed by the args;
// a reply is whatever bytes the handler wrote.
// clients must decode replies defensively.

import (
	"sync"

	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/netffi"
	"github.com/tchajed/marshal"
)

// # Server

type Server struct {
	handlers map[uint64]func([]byte, *[]byte)
	mu       sync.Mutex
	l        *netffi.Listener
}

func (s *Server) handle(conn *netffi.Conn, rpcId uint64, data []byte) {
	f, ok0 := s.handlers[rpcId]
	if !ok0 {
		// adv gave bad rpcId. reply empty so the client doesn't hang.
		conn.Send(nil)
		return
	}
	resp := new([]byte)
	f(data, resp)
	// ignore errors. the client sees its conn fail.
	conn.Send(*resp)
}

// read serves one conn. replies go out in request order,
// which is what lets a [Client] match them up without ids.
func (s *Server) read(conn *netffi.Conn) {
	for {
		req, err0 := conn.Receive()
		if err0 {
			// connection done. quit thread.
			break
		}
		rpcId, data, err1 := marshalutil.ReadInt(req)
		if err1 {
			// adv didn't even give rpcId.
			conn.Send(nil)
			continue
		}
		s.handle(conn, rpcId, data)
	}
}

// Serve listens on addr and serves in the background until [Server.Close].
func (s *Server) Serve(addr string) error {
	l, err := netffi.Listen(addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.l = l
	s.mu.Unlock()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				// listener closed.
				return
			}
			go func() {
				s.read(conn)
			}()
		}
	}()
	return nil
}

// Addr is the bound address, once serving.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.l == nil {
		return ""
	}
	return s.l.Addr()
}

// Close stops accepting. open conns drain on their own.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.l == nil {
		return nil
	}
	return s.l.Close()
}

func NewServer(handlers map[uint64]func([]byte, *[]byte)) *Server {
	return &Server{handlers: handlers}
}

// # Client

// Client is meant for exclusive use.
type Client struct {
	conn *netffi.Conn
}

func Dial(addr string) (*Client, error) {
	c, err := netffi.Dial(addr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: c}, nil
}

// Call does an rpc. it errors if the conn failed.
func (c *Client) Call(rpcId uint64, args []byte, reply *[]byte) (err bool) {
	req0 := make([]byte, 0, 8+len(args))
	req1 := marshal.WriteInt(req0, rpcId)
	req2 := marshal.WriteBytes(req1, args)
	if c.conn.Send(req2) {
		return true
	}

	resp, err0 := c.conn.Receive()
	if err0 {
		return true
	}
	*reply = resp
	return false
}

func (c *Client) Close() error {
	return c.conn.Close()
}
