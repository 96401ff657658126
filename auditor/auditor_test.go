package auditor

import (
	"testing"

	"github.com/sanjit-bhat/anchorage/adminset"
	"github.com/sanjit-bhat/anchorage/advrpc"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/server"
	"github.com/sanjit-bhat/anchorage/store"
)

func newServer(t *testing.T) *server.Server {
	s, err := server.New(&server.Opts{})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestAudit(t *testing.T) {
	s := newServer(t)
	h := s.Hash()
	pk, sk := cryptoffi.SigGenerateKey()
	set := adminset.New(h, []registry.Identity{registry.AccountIdentity(h, pk)})
	adm := set.Root().Digest()
	doc, leaf := cryptoffi.Digest{1}, cryptoffi.Digest{2}

	if _, err := s.CreateAnchor(adm, doc); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RevokeAnchor(server.SignRevokeAnchor(sk, adm, doc, nil)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SuspendLeaf(server.SignSuspendLeaf(sk, adm, leaf, nil, 10)); err != nil {
		t.Fatal(err)
	}

	a, adtrPk := New(h, Local(s))
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 3 {
		t.Fatal(a.Len())
	}
	cp, err := a.Get(3)
	if err != nil {
		t.Fatal(err)
	}
	_, _, link, _ := s.Events(3)
	if cp.Link != link || !VerifyCheckpoint(adtrPk, cp) {
		t.Fatal()
	}
	if _, err := a.Get(4); err != ErrUnknown {
		t.Fatal(err)
	}

	if _, err := s.SuspendLeaf(server.SignSuspendLeaf(sk, adm, leaf, nil, 11)); err != nil {
		t.Fatal(err)
	}
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	cp1, err := a.Get(3)
	if err != nil || a.Len() != 4 || cp1.Link != cp.Link {
		t.Fatal()
	}
}

func TestAuditPaged(t *testing.T) {
	s := newServer(t)
	n := server.MaxEventsPage + 5
	for i := uint64(0); i < n; i++ {
		var doc cryptoffi.Digest
		copy(doc[:], registry.AccountUint64(i))
		if _, err := s.CreateAnchor(cryptoffi.Digest{1}, doc); err != nil {
			t.Fatal(err)
		}
	}
	a, _ := New(s.Hash(), Local(s))
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != n {
		t.Fatal(a.Len())
	}
}

// tamperSource changes event times after the server proved them.
type tamperSource struct {
	Source
}

func (s tamperSource) Events(prevLen uint64) (*server.EventsReply, error) {
	reply, err := s.Source.Events(prevLen)
	if err != nil {
		return nil, err
	}
	for i, ev := range reply.Events {
		ev1 := *ev
		ev1.Time++
		reply.Events[i] = &ev1
	}
	return reply, nil
}

func TestFork(t *testing.T) {
	s := newServer(t)
	if _, err := s.CreateAnchor(cryptoffi.Digest{1}, cryptoffi.Digest{2}); err != nil {
		t.Fatal(err)
	}
	a, _ := New(s.Hash(), tamperSource{Local(s)})
	if err := a.Update(); err != ErrFork {
		t.Fatal(err)
	}
	if a.Len() != 0 {
		t.Fatal()
	}
}

// fixedSource serves a log built outside any registry.
type fixedSource struct {
	evs   []*registry.Event
	chain *hashchain.HashChain
}

func newFixedSource(h cryptoffi.HashFunc, evs ...*registry.Event) *fixedSource {
	chain := hashchain.New(h)
	for _, ev := range evs {
		chain.Append(registry.EventDigest(h, ev))
	}
	return &fixedSource{evs: evs, chain: chain}
}

func (s *fixedSource) Events(prevLen uint64) (*server.EventsReply, error) {
	return &server.EventsReply{Events: s.evs[prevLen:], ChainProof: s.chain.Prove(prevLen), Link: s.chain.Link()}, nil
}

func TestBadEvents(t *testing.T) {
	h := cryptoffi.Blake2s
	adm, doc := cryptoffi.Digest{1}, cryptoffi.Digest{2}
	anchored := &registry.Event{Kind: registry.EventAnchored, Admins: adm, Target: doc, Time: 1}
	revoked := &registry.Event{Kind: registry.EventRevoked, Admins: adm, Target: doc, Caller: cryptoffi.Digest{3}}
	suspend := func(until uint64) *registry.Event {
		return &registry.Event{Kind: registry.EventSuspended, Admins: adm, Target: doc, Caller: cryptoffi.Digest{3}, Time: until}
	}

	for i, tc := range []struct {
		evs []*registry.Event
		ok  bool
	}{
		{[]*registry.Event{anchored, revoked, suspend(5), suspend(6)}, true},
		// pre-emptive revocation.
		{[]*registry.Event{revoked}, true},
		{[]*registry.Event{anchored, anchored}, false},
		{[]*registry.Event{revoked, anchored}, false},
		{[]*registry.Event{revoked, revoked}, false},
		{[]*registry.Event{suspend(5), suspend(5)}, false},
		{[]*registry.Event{suspend(5), suspend(4)}, false},
		{[]*registry.Event{{Kind: registry.EventAnchored, Caller: cryptoffi.Digest{3}}}, false},
		// the empty admin root.
		{[]*registry.Event{{Kind: registry.EventRevoked, Target: doc, Caller: cryptoffi.Digest{3}}}, false},
		{[]*registry.Event{{Kind: registry.EventSuspended, Target: doc, Caller: cryptoffi.Digest{3}, Time: 5}}, false},
	} {
		a, _ := New(h, newFixedSource(h, tc.evs...))
		err := a.Update()
		if tc.ok && (err != nil || a.Len() != uint64(len(tc.evs))) {
			t.Fatal(i, err)
		}
		if !tc.ok && (err != ErrBadEvent || a.Len() != 0) {
			t.Fatal(i, err)
		}
	}
}

func TestCheckpointSig(t *testing.T) {
	a, pk := New(cryptoffi.Blake2s, newFixedSource(cryptoffi.Blake2s))
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	cp, err := a.Get(0)
	if err != nil || cp.Link != hashchain.EmptyLink(cryptoffi.Blake2s) {
		t.Fatal()
	}
	cp.Link[0] ^= 1
	if VerifyCheckpoint(pk, cp) {
		t.Fatal()
	}
	if VerifyCheckpoint([]byte("not a key"), cp) {
		t.Fatal()
	}
}

func TestAuditRemote(t *testing.T) {
	s := newServer(t)
	if _, err := s.CreateAnchor(cryptoffi.Digest{1}, cryptoffi.Digest{2}); err != nil {
		t.Fatal(err)
	}
	rs := server.NewRpcServer(s)
	if err := rs.Serve("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	defer rs.Close()
	cli, err := advrpc.Dial(rs.Addr())
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	a, _ := New(s.Hash(), Remote(cli))
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 {
		t.Fatal()
	}
}

// swapSource lets a test point the auditor at a restarted server.
type swapSource struct {
	Source
}

func TestAuditRestart(t *testing.T) {
	st := store.NewMem()
	s, err := server.New(&server.Opts{Store: st})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateAnchor(cryptoffi.Digest{1}, cryptoffi.Digest{2}); err != nil {
		t.Fatal(err)
	}
	src := &swapSource{Local(s)}
	a, _ := New(s.Hash(), src)
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}

	s, err = server.New(&server.Opts{Store: st})
	if err != nil {
		t.Fatal(err)
	}
	src.Source = Local(s)
	if _, err := s.CreateAnchor(cryptoffi.Digest{1}, cryptoffi.Digest{3}); err != nil {
		t.Fatal(err)
	}
	if err := a.Update(); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 2 {
		t.Fatal(a.Len())
	}
}
