package server

import (
	"github.com/sanjit-bhat/anchorage/marshalutil"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/tchajed/marshal"
)

func CreateAnchorArgEncode(b0 []byte, o *CreateAnchorArg) []byte {
	var b = b0
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Doc)
	return b
}
func CreateAnchorArgDecode(b0 []byte) (*CreateAnchorArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadDigest(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	return &CreateAnchorArg{Admins: a1, Doc: a2}, b2, false
}
func RevokeAnchorArgEncode(b0 []byte, o *RevokeAnchorArg) []byte {
	var b = b0
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Doc)
	b = merkle.ProofEncode(b, o.Proof)
	b = marshalutil.WriteSlice1D(b, o.Pk)
	b = marshalutil.WriteSlice1D(b, o.Sig)
	return b
}
func RevokeAnchorArgDecode(b0 []byte) (*RevokeAnchorArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadDigest(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	a3, b3, err3 := merkle.ProofDecode(b2)
	if err3 {
		return nil, nil, true
	}
	a4, b4, err4 := marshalutil.ReadSlice1D(b3)
	if err4 {
		return nil, nil, true
	}
	a5, b5, err5 := marshalutil.ReadSlice1D(b4)
	if err5 {
		return nil, nil, true
	}
	return &RevokeAnchorArg{Admins: a1, Doc: a2, Proof: a3, Pk: a4, Sig: a5}, b5, false
}
func SuspendLeafArgEncode(b0 []byte, o *SuspendLeafArg) []byte {
	var b = b0
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Leaf)
	b = merkle.ProofEncode(b, o.Proof)
	b = marshal.WriteInt(b, o.Until)
	b = marshalutil.WriteSlice1D(b, o.Pk)
	b = marshalutil.WriteSlice1D(b, o.Sig)
	return b
}
func SuspendLeafArgDecode(b0 []byte) (*SuspendLeafArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadDigest(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	a3, b3, err3 := merkle.ProofDecode(b2)
	if err3 {
		return nil, nil, true
	}
	a4, b4, err4 := marshalutil.ReadInt(b3)
	if err4 {
		return nil, nil, true
	}
	a5, b5, err5 := marshalutil.ReadSlice1D(b4)
	if err5 {
		return nil, nil, true
	}
	a6, b6, err6 := marshalutil.ReadSlice1D(b5)
	if err6 {
		return nil, nil, true
	}
	return &SuspendLeafArg{Admins: a1, Leaf: a2, Proof: a3, Until: a4, Pk: a5, Sig: a6}, b6, false
}
func MutationReplyEncode(b0 []byte, o *MutationReply) []byte {
	var b = b0
	b = marshal.WriteInt(b, o.Err)
	if o.Err == 0 {
		b = registry.EventEncode(b, o.Ev)
	}
	return b
}
func MutationReplyDecode(b0 []byte) (*MutationReply, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadInt(b0)
	if err1 {
		return nil, nil, true
	}
	if a1 != 0 {
		return &MutationReply{Err: a1}, b1, false
	}
	a2, b2, err2 := registry.EventDecode(b1)
	if err2 {
		return nil, nil, true
	}
	return &MutationReply{Err: a1, Ev: a2}, b2, false
}
func LookupAnchorArgEncode(b0 []byte, o *LookupAnchorArg) []byte {
	var b = b0
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Doc)
	return b
}
func LookupAnchorArgDecode(b0 []byte) (*LookupAnchorArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadDigest(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	return &LookupAnchorArg{Admins: a1, Doc: a2}, b2, false
}
func LookupAnchorReplyEncode(b0 []byte, o *LookupAnchorReply) []byte {
	var b = b0
	b = marshal.WriteBool(b, o.Found)
	b = marshal.WriteBool(b, o.Revoked)
	b = marshal.WriteInt(b, o.Created)
	b = marshal.WriteInt(b, o.Err)
	return b
}
func LookupAnchorReplyDecode(b0 []byte) (*LookupAnchorReply, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadBool(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadBool(b1)
	if err2 {
		return nil, nil, true
	}
	a3, b3, err3 := marshalutil.ReadInt(b2)
	if err3 {
		return nil, nil, true
	}
	a4, b4, err4 := marshalutil.ReadInt(b3)
	if err4 {
		return nil, nil, true
	}
	return &LookupAnchorReply{Found: a1, Revoked: a2, Created: a3, Err: a4}, b4, false
}
func IsSuspendedArgEncode(b0 []byte, o *IsSuspendedArg) []byte {
	var b = b0
	b = marshalutil.WriteDigest(b, o.Admins)
	b = marshalutil.WriteDigest(b, o.Leaf)
	b = marshal.WriteInt(b, o.Now)
	return b
}
func IsSuspendedArgDecode(b0 []byte) (*IsSuspendedArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadDigest(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadDigest(b1)
	if err2 {
		return nil, nil, true
	}
	a3, b3, err3 := marshalutil.ReadInt(b2)
	if err3 {
		return nil, nil, true
	}
	return &IsSuspendedArg{Admins: a1, Leaf: a2, Now: a3}, b3, false
}
func IsSuspendedReplyEncode(b0 []byte, o *IsSuspendedReply) []byte {
	var b = b0
	b = marshal.WriteBool(b, o.Suspended)
	b = marshal.WriteInt(b, o.Err)
	return b
}
func IsSuspendedReplyDecode(b0 []byte) (*IsSuspendedReply, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadBool(b0)
	if err1 {
		return nil, nil, true
	}
	a2, b2, err2 := marshalutil.ReadInt(b1)
	if err2 {
		return nil, nil, true
	}
	return &IsSuspendedReply{Suspended: a1, Err: a2}, b2, false
}
func EventsArgEncode(b0 []byte, o *EventsArg) []byte {
	var b = b0
	b = marshal.WriteInt(b, o.PrevLen)
	return b
}
func EventsArgDecode(b0 []byte) (*EventsArg, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadInt(b0)
	if err1 {
		return nil, nil, true
	}
	return &EventsArg{PrevLen: a1}, b1, false
}
func EventsReplyEncode(b0 []byte, o *EventsReply) []byte {
	var b = b0
	b = marshal.WriteInt(b, uint64(len(o.Events)))
	for _, ev := range o.Events {
		b = registry.EventEncode(b, ev)
	}
	b = marshalutil.WriteSlice1D(b, o.ChainProof)
	b = marshalutil.WriteDigest(b, o.Link)
	b = marshal.WriteInt(b, o.Err)
	return b
}
func EventsReplyDecode(b0 []byte) (*EventsReply, []byte, bool) {
	n, b1, err1 := marshalutil.ReadLen(b0, MaxEventsPage)
	if err1 {
		return nil, nil, true
	}
	var b = b1
	a1 := make([]*registry.Event, 0, n)
	for i := uint64(0); i < n; i++ {
		ev, b2, err2 := registry.EventDecode(b)
		if err2 {
			return nil, nil, true
		}
		a1 = append(a1, ev)
		b = b2
	}
	a2, b3, err3 := marshalutil.ReadSlice1D(b)
	if err3 {
		return nil, nil, true
	}
	a3, b4, err4 := marshalutil.ReadDigest(b3)
	if err4 {
		return nil, nil, true
	}
	a4, b5, err5 := marshalutil.ReadInt(b4)
	if err5 {
		return nil, nil, true
	}
	return &EventsReply{Events: a1, ChainProof: a2, Link: a3, Err: a4}, b5, false
}
func NowReplyEncode(b0 []byte, o *NowReply) []byte {
	var b = b0
	b = marshal.WriteInt(b, o.Now)
	return b
}
func NowReplyDecode(b0 []byte) (*NowReply, []byte, bool) {
	a1, b1, err1 := marshalutil.ReadInt(b0)
	if err1 {
		return nil, nil, true
	}
	return &NowReply{Now: a1}, b1, false
}
