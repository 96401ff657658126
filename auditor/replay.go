package auditor

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
)

type recKey struct {
	admins cryptoffi.Digest
	target cryptoffi.Digest
}

// undo restores one map entry to how it was before a page.
type undo struct {
	suspension bool
	k          recKey
	had        bool
	revoked    bool
	until      uint64
}

// replay mirrors the registry state that the events imply.
// changes since the last commit can be rolled back.
type replay struct {
	// revoked is false for live anchors.
	anchors   map[recKey]bool
	suspended map[recKey]uint64
	journal   []undo
}

func newReplay() *replay {
	return &replay{anchors: make(map[recKey]bool), suspended: make(map[recKey]uint64)}
}

func (r *replay) commit() {
	r.journal = r.journal[:0]
}

func (r *replay) rollback() {
	for i := len(r.journal) - 1; i >= 0; i-- {
		u := r.journal[i]
		switch {
		case u.suspension && u.had:
			r.suspended[u.k] = u.until
		case u.suspension:
			delete(r.suspended, u.k)
		case u.had:
			r.anchors[u.k] = u.revoked
		default:
			delete(r.anchors, u.k)
		}
	}
	r.commit()
}

func (r *replay) setAnchor(k recKey, revoked bool) {
	prev, had := r.anchors[k]
	r.journal = append(r.journal, undo{k: k, had: had, revoked: prev})
	r.anchors[k] = revoked
}

func (r *replay) setSuspended(k recKey, until uint64) {
	prev, had := r.suspended[k]
	r.journal = append(r.journal, undo{suspension: true, k: k, had: had, until: prev})
	r.suspended[k] = until
}

// apply returns false if the registry would have rejected ev.
func (r *replay) apply(ev *registry.Event) bool {
	k := recKey{admins: ev.Admins, target: ev.Target}
	switch ev.Kind {
	case registry.EventAnchored:
		if _, ok := r.anchors[k]; ok {
			return false
		}
		if ev.Caller != (cryptoffi.Digest{}) {
			return false
		}
		r.setAnchor(k, false)
	case registry.EventRevoked:
		// no proof verifies against the empty root.
		if ev.Admins == (cryptoffi.Digest{}) {
			return false
		}
		// revoking works on absent anchors too.
		if r.anchors[k] {
			return false
		}
		r.setAnchor(k, true)
	case registry.EventSuspended:
		if ev.Admins == (cryptoffi.Digest{}) {
			return false
		}
		if until, ok := r.suspended[k]; ok && ev.Time <= until {
			return false
		}
		r.setSuspended(k, ev.Time)
	default:
		return false
	}
	return true
}
