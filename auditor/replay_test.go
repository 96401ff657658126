package auditor

import (
	"testing"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
)

func TestReplayRollback(t *testing.T) {
	adm, doc := cryptoffi.Digest{1}, cryptoffi.Digest{2}
	anchored := &registry.Event{Kind: registry.EventAnchored, Admins: adm, Target: doc}
	revoked := &registry.Event{Kind: registry.EventRevoked, Admins: adm, Target: doc, Caller: cryptoffi.Digest{3}}
	suspend := func(until uint64) *registry.Event {
		return &registry.Event{Kind: registry.EventSuspended, Admins: adm, Target: doc, Caller: cryptoffi.Digest{3}, Time: until}
	}

	r := newReplay()
	if !r.apply(anchored) || !r.apply(suspend(5)) {
		t.Fatal()
	}
	r.commit()

	// a page that goes bad halfway leaves no trace.
	if !r.apply(revoked) || !r.apply(suspend(9)) || r.apply(anchored) {
		t.Fatal()
	}
	r.rollback()
	if r.anchors[recKey{adm, doc}] || r.suspended[recKey{adm, doc}] != 5 {
		t.Fatal()
	}
	if !r.apply(revoked) || !r.apply(suspend(6)) {
		t.Fatal()
	}

	// rolling back fresh keys removes them.
	r.commit()
	other := recKey{adm, cryptoffi.Digest{4}}
	if !r.apply(&registry.Event{Kind: registry.EventAnchored, Admins: adm, Target: other.target}) {
		t.Fatal()
	}
	r.rollback()
	if _, ok := r.anchors[other]; ok {
		t.Fatal()
	}
}
