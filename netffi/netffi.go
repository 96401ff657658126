package netffi

// This net FFI started from [grove].
// It provides a TCP network of length-prefixed messages.
// callers should treat the network as adversarial:
// [Conn.Send] might not deliver bytes, and [Conn.Receive] returns arbitrary bytes.
//
// [grove]: https://github.com/mit-pdos/gokv/blob/05f31d837641498c3ca5d72f7ea9a6e6b2263e2c/grove_ffi/network.go

import (
	"io"
	"net"
	"sync"

	"github.com/tchajed/marshal"
)

// MaxMsgLen bounds a single message, so a bad header can't make us
// allocate unbounded memory.
const MaxMsgLen uint64 = 1 << 24

// # Conn

type Conn struct {
	c      net.Conn
	sendMu *sync.Mutex
	recvMu *sync.Mutex
}

// Dial connects to a "host:port" addr.
func Dial(addr string) (*Conn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return newConn(conn), nil
}

func newConn(conn net.Conn) *Conn {
	return &Conn{c: conn, sendMu: new(sync.Mutex), recvMu: new(sync.Mutex)}
}

// Send errors on fail.
func (c *Conn) Send(data []byte) bool {
	if uint64(len(data)) > MaxMsgLen {
		return true
	}
	// encoding: len(data) ++ data.
	e := marshal.NewEnc(8 + uint64(len(data)))
	e.PutInt(uint64(len(data)))
	e.PutBytes(data)
	msg := e.Finish()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	_, err := c.c.Write(msg)
	if err != nil {
		// prevent sending on this conn again.
		c.c.Close()
		return true
	}
	return false
}

// Receive returns data and errors on fail.
func (c *Conn) Receive() ([]byte, bool) {
	c.recvMu.Lock()
	defer c.recvMu.Unlock()

	// encoding: len(data) ++ data.
	header := make([]byte, 8)
	_, err0 := io.ReadFull(c.c, header)
	if err0 != nil {
		// the other side may have legitimately hung up.
		// either way, we lost our place in the stream, so close.
		c.c.Close()
		return nil, true
	}
	d := marshal.NewDec(header)
	dataLen := d.GetInt()
	if dataLen > MaxMsgLen {
		c.c.Close()
		return nil, true
	}

	data := make([]byte, dataLen)
	_, err1 := io.ReadFull(c.c, data)
	if err1 != nil {
		c.c.Close()
		return nil, true
	}
	return data, false
}

func (c *Conn) Close() error {
	return c.c.Close()
}

// # Listener

type Listener struct {
	l net.Listener
}

// Listen on a "host:port" addr. port 0 picks a free port; see [Listener.Addr].
func Listen(addr string) (*Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{l}, nil
}

// Accept errors once the listener is closed.
func (l *Listener) Accept() (*Conn, error) {
	conn, err := l.l.Accept()
	if err != nil {
		return nil, err
	}
	return newConn(conn), nil
}

func (l *Listener) Addr() string {
	return l.l.Addr().String()
}

func (l *Listener) Close() error {
	return l.l.Close()
}
