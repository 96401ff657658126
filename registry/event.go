package registry

import (
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/tchajed/marshal"
)

type EventKind byte

const (
	EventAnchored  EventKind = 1
	EventRevoked   EventKind = 2
	EventSuspended EventKind = 3
)

func (k EventKind) String() string {
	switch k {
	case EventAnchored:
		return "anchored"
	case EventRevoked:
		return "revoked"
	case EventSuspended:
		return "suspended"
	default:
		return "unknown"
	}
}

// Event describes one applied mutation, for the dispatcher to publish.
type Event struct {
	Kind   EventKind
	Admins cryptoffi.Digest
	// Target is the document root or the leaf digest.
	Target cryptoffi.Digest
	// Caller is zero for anchor creation, which needs no proof.
	Caller cryptoffi.Digest
	// Time is the creation time for anchors, and suspend-until for leaves.
	Time uint64
}

func EventEncode(b0 []byte, o *Event) []byte {
	var b = b0
	b = marshalutil.WriteByte(b, byte(o.Kind))
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Target)
	b = marshalutil.WriteDigest(b, o.Caller)
	b = marshal.WriteInt(b, o.Time)
	return b
}

func EventDecode(b0 []byte) (*Event, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadByte(b0)
	if err1 {
		return nil, nil, true
	}
	kind := EventKind(a1)
	if kind != EventAnchored && kind != EventRevoked && kind != EventSuspended {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	a3, b3, err3 := marshalutil.ReadDigest(b2)
	if err3 {
		return nil, nil, true
	}
	a4, b4, err4 := marshalutil.ReadDigest(b3)
	if err4 {
		return nil, nil, true
	}
	a5, b5, err5 := marshalutil.ReadInt(b4)
	if err5 {
		return nil, nil, true
	}
	return &Event{Kind: kind, Admins: a2, Target: a3, Caller: a4, Time: a5}, b5, false
}

// EventDigest commits to ev, e.g. as a hashchain entry.
func EventDigest(h cryptoffi.HashFunc, ev *Event) cryptoffi.Digest {
	return cryptoffi.Sum(h, EventEncode(nil, ev))
}
