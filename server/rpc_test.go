package server

import (
	"testing"

	"github.com/sanjit-bhat/anchorage/advrpc"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/registry"
)

func newRpcPair(t *testing.T) (*Server, *advrpc.Client) {
	s := newTestServer(t)
	rs := NewRpcServer(s)
	if err := rs.Serve("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { rs.Close() })
	c, err := advrpc.Dial(rs.Addr())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return s, c
}

func TestRpc(t *testing.T) {
	s, c := newRpcPair(t)
	a := newAdmins(s.Hash(), 2)
	doc, leaf := cryptoffi.Digest{1}, cryptoffi.Digest{2}

	ev, err := CallCreateAnchor(c, a.root(), doc)
	if err != nil || ev.Kind != registry.EventAnchored {
		t.Fatal(err)
	}
	if _, err := CallCreateAnchor(c, a.root(), doc); err != registry.ErrAlreadyAnchored {
		t.Fatal(err)
	}
	r, ok, err := CallLookupAnchor(c, a.root(), doc)
	if err != nil || !ok || r != registry.NotRevoked(ev.Time) {
		t.Fatal(err, r)
	}

	if _, err := CallRevokeAnchor(c, SignRevokeAnchor(a.sks[0], a.root(), doc, a.proof(t, 1))); err != registry.ErrInvalidProof {
		t.Fatal(err)
	}
	if _, err := CallRevokeAnchor(c, SignRevokeAnchor(a.sks[1], a.root(), doc, a.proof(t, 1))); err != nil {
		t.Fatal(err)
	}
	r, ok, err = CallLookupAnchor(c, a.root(), doc)
	if err != nil || !ok || r != registry.Revoked() {
		t.Fatal(err, r)
	}
	if _, ok, _ := CallLookupAnchor(c, a.root(), leaf); ok {
		t.Fatal()
	}

	now, err := CallNow(c)
	if err != nil || now != s.Now() {
		t.Fatal(err)
	}
	ev, err = CallSuspendLeaf(c, SignSuspendLeaf(a.sks[0], a.root(), leaf, a.proof(t, 0), now+5))
	if err != nil || ev.Time != now+5 {
		t.Fatal(err)
	}
	sus, err := CallIsSuspended(c, a.root(), leaf, now+5)
	if err != nil || !sus {
		t.Fatal(err)
	}
	sus, err = CallIsSuspended(c, a.root(), leaf, now+6)
	if err != nil || sus {
		t.Fatal(err)
	}

	reply, err := CallEvents(c, 0)
	if err != nil || len(reply.Events) != 3 {
		t.Fatal(err)
	}
	if !VerifyEvents(s.Hash(), hashchain.EmptyLink(s.Hash()), reply.Events, reply.ChainProof, reply.Link) {
		t.Fatal()
	}
	if _, err := CallEvents(c, 4); err != registry.ErrBadRequest {
		t.Fatal(err)
	}
}

func TestRpcBadRequest(t *testing.T) {
	_, c := newRpcPair(t)
	for _, id := range []uint64{CreateAnchorRpc, RevokeAnchorRpc, SuspendLeafRpc} {
		_, err := callMutation(c, id, []byte{1, 2, 3})
		if err != registry.ErrBadRequest {
			t.Fatal(id, err)
		}
	}
	reply := new([]byte)
	if c.Call(LookupAnchorRpc, nil, reply) {
		t.Fatal()
	}
	r, _, err := LookupAnchorReplyDecode(*reply)
	if err || r.Err != uint64(registry.ErrBadRequest) {
		t.Fatal()
	}
	// an unknown rpc gets an empty reply, which doesn't decode.
	if _, err := callMutation(c, 99, nil); err != ErrBadReply {
		t.Fatal(err)
	}
}

func TestMutationReplySerde(t *testing.T) {
	ev := &registry.Event{Kind: registry.EventAnchored, Time: 3}
	r, rem, err := MutationReplyDecode(MutationReplyEncode(nil, &MutationReply{Ev: ev}))
	if err || len(rem) != 0 || r.Err != 0 || *r.Ev != *ev {
		t.Fatal()
	}
	// failures carry no event.
	b := MutationReplyEncode(nil, &MutationReply{Err: uint64(registry.ErrInvalidProof)})
	if len(b) != 8 {
		t.Fatal()
	}
	r, _, err = MutationReplyDecode(b)
	if err || r.Ev != nil {
		t.Fatal()
	}
}
