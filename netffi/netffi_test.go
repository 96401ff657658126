package netffi

import (
	"bytes"
	"testing"

	"github.com/tchajed/marshal"
)

func TestNet(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	c0, err := Dial(l.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer c0.Close()
	d0 := []byte{1, 2}
	if c0.Send(d0) {
		t.Fatal()
	}
	if c0.Send(nil) {
		t.Fatal()
	}

	c1, err := l.Accept()
	if err != nil {
		t.Fatal(err)
	}
	defer c1.Close()
	d1, err1 := c1.Receive()
	if err1 {
		t.Fatal()
	}
	if !bytes.Equal(d0, d1) {
		t.Fatal()
	}
	d2, err2 := c1.Receive()
	if err2 || len(d2) != 0 {
		t.Fatal()
	}
}

func TestOversizedHeader(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	c0, err := Dial(l.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer c0.Close()

	// raw header claiming a huge body.
	if _, err := c0.c.Write(marshal.WriteInt(nil, MaxMsgLen+1)); err != nil {
		t.Fatal(err)
	}
	c1, err := l.Accept()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c1.Receive(); !err {
		t.Fatal()
	}
}

func TestClosedListener(t *testing.T) {
	l, err := Listen("127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	l.Close()
	if _, err := l.Accept(); err == nil {
		t.Fatal()
	}
}
