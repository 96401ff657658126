// Package server dispatches anchor and suspension requests to the registries.
//
// mutations go through a [WorkQ] to a single worker, which applies them in
// arrival order under the write lock. reads take the read lock.
// every applied mutation is published as a [registry.Event] on an event log
// committed to by a [hashchain.HashChain].
// the log and the clock height are saved in the store, so a restart over
// the same store resumes both.
package server

import (
	"context"
	"log"
	"sync"

	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/cryptoutil"
	"github.com/sanjit-bhat/anchorage/hashchain"
	"github.com/sanjit-bhat/anchorage/merkle"
	"github.com/sanjit-bhat/anchorage/registry"
	"github.com/sanjit-bhat/anchorage/store"
	"github.com/tchajed/goose/machine"
)

// MaxEventsPage bounds the events returned by one [Server.Events] call.
const MaxEventsPage uint64 = 1024

type Server struct {
	mu    *sync.RWMutex
	h     cryptoffi.HashFunc
	st    store.Store
	reg   *registry.Registry
	clock registry.Clock
	auth  *Auth
	// maxProof is the proof size policy, see [merkle.CheckSize].
	maxProof uint64
	hist     *history
	// newEv is signaled after each batch. its lock is mu's read lock.
	newEv *sync.Cond
	// workQ batch processes mutations.
	workQ *WorkQ
}

// Opts configures a [Server]. zero fields take defaults.
type Opts struct {
	Hash  cryptoffi.HashFunc
	Store store.Store
	Clock registry.Clock
	// MaxProof defaults to [merkle.MaxProofSize].
	MaxProof uint64
	// AuthCache is the number of parsed public keys kept.
	AuthCache int
}

func New(o *Opts) (*Server, error) {
	h := o.Hash
	if h == nil {
		h = cryptoffi.Blake2s
	}
	st := o.Store
	if st == nil {
		st = store.NewMem()
	}
	clock := o.Clock
	if clock == nil {
		clock = registry.NewHeightClock()
	}
	maxProof := o.MaxProof
	if maxProof == 0 {
		maxProof = merkle.MaxProofSize
	}
	cacheSize := o.AuthCache
	if cacheSize == 0 {
		cacheSize = 1024
	}
	auth, err := NewAuth(h, cacheSize)
	if err != nil {
		return nil, err
	}
	hist, err := loadHistory(h, st)
	if err != nil {
		return nil, err
	}
	if hc, ok := clock.(heightClock); ok {
		height, found, err := loadHeight(st)
		if err != nil {
			return nil, err
		}
		if found {
			hc.Restore(height)
		}
	}
	mu := new(sync.RWMutex)
	s := &Server{
		mu:       mu,
		h:        h,
		st:       st,
		reg:      registry.New(h, st, clock),
		clock:    clock,
		auth:     auth,
		maxProof: maxProof,
		hist:     hist,
		newEv:    sync.NewCond(mu.RLocker()),
		workQ:    NewWorkQ(),
	}
	go func() {
		for {
			s.worker()
		}
	}()
	return s, nil
}

func (s *Server) Hash() cryptoffi.HashFunc {
	return s.h
}

// # Mutations

type reqKind byte

const (
	reqCreate reqKind = iota
	reqRevoke
	reqSuspend
)

type WQReq struct {
	kind   reqKind
	caller registry.Identity
	admins registry.AdminRoot
	target cryptoffi.Digest
	proof  merkle.Proof
	until  uint64
}

type WQResp struct {
	Ev  *registry.Event
	Err error
}

// CreateAnchor anchors doc under admins. it needs no proof or signature.
func (s *Server) CreateAnchor(admins, doc cryptoffi.Digest) (*registry.Event, error) {
	resp := s.workQ.Do(&WQReq{kind: reqCreate, admins: merkle.RootFrom[registry.Account](admins), target: doc})
	return resp.Ev, resp.Err
}

// RevokeAnchor checks the proof size and the signature, then revokes
// as the signer.
func (s *Server) RevokeAnchor(arg *RevokeAnchorArg) (*registry.Event, error) {
	if merkle.CheckSize(arg.Proof, s.maxProof) {
		return nil, registry.ErrProofTooLong
	}
	msg := RevokeAnchorMsg(arg.Admins, arg.Doc, arg.Proof)
	caller, err := s.auth.Resolve(arg.Pk, msg, arg.Sig)
	if err != nil {
		return nil, err
	}
	return s.revoke(caller, arg.Admins, arg.Doc, arg.Proof)
}

// SuspendLeaf checks the proof size and the signature, then suspends
// as the signer.
func (s *Server) SuspendLeaf(arg *SuspendLeafArg) (*registry.Event, error) {
	if merkle.CheckSize(arg.Proof, s.maxProof) {
		return nil, registry.ErrProofTooLong
	}
	msg := SuspendLeafMsg(arg.Admins, arg.Leaf, arg.Proof, arg.Until)
	caller, err := s.auth.Resolve(arg.Pk, msg, arg.Sig)
	if err != nil {
		return nil, err
	}
	return s.suspend(caller, arg.Admins, arg.Leaf, arg.Proof, arg.Until)
}

// revoke is RevokeAnchor for an already-authenticated caller.
func (s *Server) revoke(caller registry.Identity, admins, doc cryptoffi.Digest, proof merkle.Proof) (*registry.Event, error) {
	resp := s.workQ.Do(&WQReq{kind: reqRevoke, caller: caller, admins: merkle.RootFrom[registry.Account](admins), target: doc, proof: proof})
	return resp.Ev, resp.Err
}

// suspend is SuspendLeaf for an already-authenticated caller.
func (s *Server) suspend(caller registry.Identity, admins, leaf cryptoffi.Digest, proof merkle.Proof, until uint64) (*registry.Event, error) {
	resp := s.workQ.Do(&WQReq{kind: reqSuspend, caller: caller, admins: merkle.RootFrom[registry.Account](admins), target: leaf, proof: proof, until: until})
	return resp.Ev, resp.Err
}

func (s *Server) worker() {
	work := s.workQ.Get()

	// NOTE: readers never see a half-applied batch,
	// and nobody else writes, so each op reads what the last one wrote.
	s.mu.Lock()
	for _, w := range work {
		w.Resp = s.apply(w.Req)
	}
	if hc, ok := s.clock.(heightClock); ok {
		hc.Advance()
		if err := saveHeight(s.st, hc.Now()); err != nil {
			log.Printf("server: save height: %v", err)
		}
	}
	s.mu.Unlock()
	s.newEv.Broadcast()

	for _, w := range work {
		w.Finish()
	}
}

func (s *Server) apply(req *WQReq) *WQResp {
	var ev *registry.Event
	var err error
	switch req.kind {
	case reqCreate:
		ev, err = s.reg.Anchors.Create(req.admins, merkle.RootFrom[registry.Document](req.target))
	case reqRevoke:
		ev, err = s.reg.Anchors.Revoke(req.caller, req.admins, merkle.RootFrom[registry.Document](req.target), req.proof)
	case reqSuspend:
		ev, err = s.reg.Suspensions.Suspend(req.caller, req.admins, cryptoutil.Prehashed[registry.Document](req.target), req.proof, req.until)
	default:
		err = registry.ErrBadRequest
	}
	if err != nil {
		if registry.Code(err) == registry.ErrStore {
			log.Printf("server: %v", err)
		}
		return &WQResp{Err: err}
	}
	machine.Assert(ev != nil)
	logEv := *ev
	if err := s.hist.append(s.h, s.st, &logEv); err != nil {
		log.Printf("server: %v", err)
	}
	return &WQResp{Ev: ev}
}

// # Reads

func (s *Server) LookupAnchor(admins, doc cryptoffi.Digest) (registry.Revokable, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Anchors.Lookup(merkle.RootFrom[registry.Account](admins), merkle.RootFrom[registry.Document](doc))
}

func (s *Server) IsSuspended(admins, leaf cryptoffi.Digest, now uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Suspensions.IsSuspended(merkle.RootFrom[registry.Account](admins), cryptoutil.Prehashed[registry.Document](leaf), now)
}

// Now reads the server's clock, e.g. to ask [Server.IsSuspended] about "now".
func (s *Server) Now() uint64 {
	return s.clock.Now()
}

// Events returns events past the first prevLen, at most [MaxEventsPage],
// with a hashchain proof from link prevLen to the returned link.
// it errors with [registry.ErrBadRequest] if prevLen is past the end.
func (s *Server) Events(prevLen uint64) (evs []*registry.Event, chainProof []byte, link cryptoffi.Digest, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	numEvs := uint64(len(s.hist.events))
	if prevLen > numEvs {
		err = registry.ErrBadRequest
		return
	}
	end := numEvs
	if end-prevLen > MaxEventsPage {
		end = prevLen + MaxEventsPage
	}
	evs = append(evs, s.hist.events[prevLen:end]...)
	chainProof = s.hist.chain.ProveTo(prevLen, end)
	link = s.hist.chain.LinkAt(end)
	return
}

// WaitEvents blocks until the log is longer than prevLen, or ctx is done.
func (s *Server) WaitEvents(ctx context.Context, prevLen uint64) error {
	// the write lock waits out a waiter between its checks and Wait.
	stop := context.AfterFunc(ctx, func() {
		s.mu.Lock()
		s.newEv.Broadcast()
		s.mu.Unlock()
	})
	defer stop()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for uint64(len(s.hist.events)) <= prevLen {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.newEv.Wait()
	}
	return nil
}

// VerifyEvents checks that evs extend the log at prevLink to link,
// as returned by [Server.Events].
func VerifyEvents(h cryptoffi.HashFunc, prevLink cryptoffi.Digest, evs []*registry.Event, chainProof []byte, link cryptoffi.Digest) bool {
	n, _, newLink, err := hashchain.Verify(h, prevLink, chainProof)
	if err || n != uint64(len(evs)) || newLink != link {
		return false
	}
	vals, _ := hashchain.Vals(chainProof)
	for i, ev := range evs {
		if registry.EventDigest(h, ev) != vals[i] {
			return false
		}
	}
	return true
}
