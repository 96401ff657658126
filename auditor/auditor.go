// Package auditor follows a server's event log.
// each page must extend the audited hashchain, and each event must be one
// the registry could have emitted. [Auditor.Get] signs what it has seen.
package auditor

import (
	"errors"
	"sync"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/server"
	"github.com/tchajed/marshal"
)

var (
	// ErrFork is a page that doesn't extend the audited log.
	ErrFork = errors.New("auditor: log does not extend audited link")
	// ErrBadEvent is an event the registry could never have emitted.
	ErrBadEvent = errors.New("auditor: impossible event")
	// ErrUnknown is a checkpoint the auditor hasn't reached.
	ErrUnknown = errors.New("auditor: unknown log length")
)

// Source pages through a server's event log, as [server.Server.Events] does.
type Source interface {
	Events(prevLen uint64) (*server.EventsReply, error)
}

type localSource struct {
	s *server.Server
}

// Local audits an in-process server.
func Local(s *server.Server) Source {
	return localSource{s}
}

func (l localSource) Events(prevLen uint64) (*server.EventsReply, error) {
	evs, proof, link, err := l.s.Events(prevLen)
	if err != nil {
		return nil, err
	}
	return &server.EventsReply{Events: evs, ChainProof: proof, Link: link}, nil
}

type connSource struct {
	c server.Conn
}

// Remote audits a server over advrpc or urpc.
func Remote(c server.Conn) Source {
	return connSource{c}
}

func (r connSource) Events(prevLen uint64) (*server.EventsReply, error) {
	return server.CallEvents(r.c, prevLen)
}

type Auditor struct {
	mu *sync.RWMutex
	h  cryptoffi.HashFunc
	sk *cryptoffi.SigPrivateKey
	// links[n] is the link after n events.
	links []cryptoffi.Digest
	st    *replay
	serv  Source
}

// New returns an auditor and its signing public key.
func New(h cryptoffi.HashFunc, serv Source) (*Auditor, []byte) {
	pk, sk := cryptoffi.SigGenerateKey()
	a := &Auditor{
		mu:    new(sync.RWMutex),
		h:     h,
		sk:    sk,
		links: []cryptoffi.Digest{hashchain.EmptyLink(h)},
		st:    newReplay(),
		serv:  serv,
	}
	return a, pk
}

// Update pulls every new event from the server and applies it.
// on error, the auditor keeps everything it checked before the bad page.
func (a *Auditor) Update() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for {
		n := uint64(len(a.links) - 1)
		reply, err := a.serv.Events(n)
		if err != nil {
			return err
		}
		if err = a.updOnce(reply); err != nil {
			return err
		}
		if uint64(len(reply.Events)) < server.MaxEventsPage {
			return nil
		}
	}
}

func (a *Auditor) updOnce(reply *server.EventsReply) error {
	lastLink := a.links[len(a.links)-1]
	if !server.VerifyEvents(a.h, lastLink, reply.Events, reply.ChainProof, reply.Link) {
		return ErrFork
	}
	for _, ev := range reply.Events {
		if !a.st.apply(ev) {
			a.st.rollback()
			return ErrBadEvent
		}
	}
	a.st.commit()
	links, _ := hashchain.Links(a.h, lastLink, reply.ChainProof)
	a.links = append(a.links, links...)
	return nil
}

// Len is the number of audited events.
func (a *Auditor) Len() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return uint64(len(a.links) - 1)
}

// # Checkpoint

// Checkpoint attests that the log had link after Len events.
type Checkpoint struct {
	Len  uint64
	Link cryptoffi.Digest
	Sig  []byte
}

func checkpointMsg(n uint64, link cryptoffi.Digest) []byte {
	var b = make([]byte, 0, 8+cryptoffi.HashLen)
	b = marshal.WriteInt(b, n)
	b = marshal.WriteBytes(b, link[:])
	return b
}

// Get signs the link after n events.
func (a *Auditor) Get(n uint64) (*Checkpoint, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if n >= uint64(len(a.links)) {
		// could legitimately ask past the end if we're lagging behind.
		return nil, ErrUnknown
	}
	link := a.links[n]
	return &Checkpoint{Len: n, Link: link, Sig: a.sk.Sign(checkpointMsg(n, link))}, nil
}

// VerifyCheckpoint checks cp against the auditor key pk.
func VerifyCheckpoint(pk []byte, cp *Checkpoint) bool {
	v, err := cryptoffi.SigPublicKeyDecode(pk)
	if err {
		return false
	}
	return !v.Verify(checkpointMsg(cp.Len, cp.Link), cp.Sig)
}
