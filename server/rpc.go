package server

import (
	"errors"

	"github.com/sanjit-bhat/anchorage/advrpc"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
)

const (
	CreateAnchorRpc uint64 = 0
	RevokeAnchorRpc uint64 = 1
	SuspendLeafRpc  uint64 = 2
	LookupAnchorRpc uint64 = 3
	IsSuspendedRpc  uint64 = 4
	EventsRpc       uint64 = 5
	NowRpc          uint64 = 6
)

// Handlers maps rpc ids to handlers, for any transport
// that frames a request as (rpc id, args) and returns reply bytes.
func Handlers(s *Server) map[uint64]func([]byte, *[]byte) {
	h := make(map[uint64]func([]byte, *[]byte))
	h[CreateAnchorRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := CreateAnchorArgDecode(arg)
		if err0 {
			*reply = badMutation()
			return
		}
		ev, err := s.CreateAnchor(argObj.Admins, argObj.Doc)
		*reply = mutationReply(ev, err)
	}
	h[RevokeAnchorRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := RevokeAnchorArgDecode(arg)
		if err0 {
			*reply = badMutation()
			return
		}
		ev, err := s.RevokeAnchor(argObj)
		*reply = mutationReply(ev, err)
	}
	h[SuspendLeafRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := SuspendLeafArgDecode(arg)
		if err0 {
			*reply = badMutation()
			return
		}
		ev, err := s.SuspendLeaf(argObj)
		*reply = mutationReply(ev, err)
	}
	h[LookupAnchorRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := LookupAnchorArgDecode(arg)
		if err0 {
			*reply = LookupAnchorReplyEncode(nil, &LookupAnchorReply{Err: uint64(registry.ErrBadRequest)})
			return
		}
		r, ok, err := s.LookupAnchor(argObj.Admins, argObj.Doc)
		replyObj := &LookupAnchorReply{Found: ok, Revoked: r.Revoked, Created: r.Created, Err: uint64(registry.Code(err))}
		*reply = LookupAnchorReplyEncode(nil, replyObj)
	}
	h[IsSuspendedRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := IsSuspendedArgDecode(arg)
		if err0 {
			*reply = IsSuspendedReplyEncode(nil, &IsSuspendedReply{Err: uint64(registry.ErrBadRequest)})
			return
		}
		ok, err := s.IsSuspended(argObj.Admins, argObj.Leaf, argObj.Now)
		*reply = IsSuspendedReplyEncode(nil, &IsSuspendedReply{Suspended: ok, Err: uint64(registry.Code(err))})
	}
	h[EventsRpc] = func(arg []byte, reply *[]byte) {
		argObj, _, err0 := EventsArgDecode(arg)
		if err0 {
			*reply = EventsReplyEncode(nil, &EventsReply{Err: uint64(registry.ErrBadRequest)})
			return
		}
		evs, proof, link, err := s.Events(argObj.PrevLen)
		replyObj := &EventsReply{Events: evs, ChainProof: proof, Link: link, Err: uint64(registry.Code(err))}
		*reply = EventsReplyEncode(nil, replyObj)
	}
	h[NowRpc] = func(arg []byte, reply *[]byte) {
		*reply = NowReplyEncode(nil, &NowReply{Now: s.Now()})
	}
	return h
}

func NewRpcServer(s *Server) *advrpc.Server {
	return advrpc.NewServer(Handlers(s))
}

func badMutation() []byte {
	return MutationReplyEncode(nil, &MutationReply{Err: uint64(registry.ErrBadRequest)})
}

func mutationReply(ev *registry.Event, err error) []byte {
	return MutationReplyEncode(nil, &MutationReply{Err: uint64(registry.Code(err)), Ev: ev})
}

// # Client

// Conn sends one rpc and waits for its reply. it errors on net failure.
// [advrpc.Client] and [UrpcClient] are Conns.
type Conn interface {
	Call(rpcId uint64, args []byte, reply *[]byte) bool
}

var (
	// ErrNet is a failed rpc. the request may or may not have applied.
	ErrNet = errors.New("server: rpc failed")
	// ErrBadReply is a reply that didn't decode.
	ErrBadReply = errors.New("server: malformed reply")
)

func call(c Conn, rpcId uint64, arg []byte) ([]byte, error) {
	replyByt := new([]byte)
	if c.Call(rpcId, arg, replyByt) {
		return nil, ErrNet
	}
	return *replyByt, nil
}

func callMutation(c Conn, rpcId uint64, arg []byte) (*registry.Event, error) {
	replyByt, err := call(c, rpcId, arg)
	if err != nil {
		return nil, err
	}
	reply, _, err1 := MutationReplyDecode(replyByt)
	if err1 {
		return nil, ErrBadReply
	}
	if reply.Err != 0 {
		return nil, registry.FromCode(registry.Err(reply.Err))
	}
	return reply.Ev, nil
}

func CallCreateAnchor(c Conn, admins, doc cryptoffi.Digest) (*registry.Event, error) {
	arg := &CreateAnchorArg{Admins: admins, Doc: doc}
	return callMutation(c, CreateAnchorRpc, CreateAnchorArgEncode(make([]byte, 0), arg))
}

func CallRevokeAnchor(c Conn, arg *RevokeAnchorArg) (*registry.Event, error) {
	return callMutation(c, RevokeAnchorRpc, RevokeAnchorArgEncode(make([]byte, 0), arg))
}

func CallSuspendLeaf(c Conn, arg *SuspendLeafArg) (*registry.Event, error) {
	return callMutation(c, SuspendLeafRpc, SuspendLeafArgEncode(make([]byte, 0), arg))
}

func CallLookupAnchor(c Conn, admins, doc cryptoffi.Digest) (registry.Revokable, bool, error) {
	arg := &LookupAnchorArg{Admins: admins, Doc: doc}
	replyByt, err := call(c, LookupAnchorRpc, LookupAnchorArgEncode(make([]byte, 0), arg))
	if err != nil {
		return registry.Revokable{}, false, err
	}
	reply, _, err1 := LookupAnchorReplyDecode(replyByt)
	if err1 {
		return registry.Revokable{}, false, ErrBadReply
	}
	if reply.Err != 0 {
		return registry.Revokable{}, false, registry.FromCode(registry.Err(reply.Err))
	}
	if !reply.Found {
		return registry.Revokable{}, false, nil
	}
	if reply.Revoked {
		return registry.Revoked(), true, nil
	}
	return registry.NotRevoked(reply.Created), true, nil
}

func CallIsSuspended(c Conn, admins, leaf cryptoffi.Digest, now uint64) (bool, error) {
	arg := &IsSuspendedArg{Admins: admins, Leaf: leaf, Now: now}
	replyByt, err := call(c, IsSuspendedRpc, IsSuspendedArgEncode(make([]byte, 0), arg))
	if err != nil {
		return false, err
	}
	reply, _, err1 := IsSuspendedReplyDecode(replyByt)
	if err1 {
		return false, ErrBadReply
	}
	if reply.Err != 0 {
		return false, registry.FromCode(registry.Err(reply.Err))
	}
	return reply.Suspended, nil
}

func CallEvents(c Conn, prevLen uint64) (*EventsReply, error) {
	arg := &EventsArg{PrevLen: prevLen}
	replyByt, err := call(c, EventsRpc, EventsArgEncode(make([]byte, 0), arg))
	if err != nil {
		return nil, err
	}
	reply, _, err1 := EventsReplyDecode(replyByt)
	if err1 {
		return nil, ErrBadReply
	}
	if reply.Err != 0 {
		return nil, registry.FromCode(registry.Err(reply.Err))
	}
	return reply, nil
}

func CallNow(c Conn) (uint64, error) {
	replyByt, err := call(c, NowRpc, nil)
	if err != nil {
		return 0, err
	}
	reply, _, err1 := NowReplyDecode(replyByt)
	if err1 {
		return 0, ErrBadReply
	}
	return reply.Now, nil
}
