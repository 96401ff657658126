package server

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"testing"
	"time"

	porc "github.com/anishathalye/porcupine"
	"github.com/sanjit-bhat/anchorage/cryptoffi"
	"github.com/sanjit-bhat/anchorage/registry"
)

// Code based off of:
// https://github.com/anishathalye/porcupine/blob/master/porcupine_test.go

const (
	opCreate uint64 = iota
	opRevoke
	opLookup
	opSuspend
	opIsSuspended
)

type regInput struct {
	op  uint64
	key byte
	// arg is suspend-until or the is-suspended time.
	arg uint64
}

type regOutput struct {
	err registry.Err
	// found and revoked are lookup results. found doubles as is-suspended.
	found   bool
	revoked bool
}

// anchor keys and leaf keys share a byte space, but not a partition.
func partKey(in regInput) int {
	if in.op <= opLookup {
		return int(in.key)
	}
	return 256 + int(in.key)
}

var regModel = porc.Model{
	Partition: func(history []porc.Operation) [][]porc.Operation {
		m := make(map[int][]porc.Operation)
		for _, v := range history {
			key := partKey(v.Input.(regInput))
			m[key] = append(m[key], v)
		}
		keys := make([]int, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		ret := make([][]porc.Operation, 0, len(keys))
		for _, k := range keys {
			ret = append(ret, m[k])
		}
		return ret
	},
	Init: func() interface{} {
		// each partition is one anchor or one leaf.
		return regState{}
	},
	Step: func(state, input, output interface{}) (bool, interface{}) {
		inp := input.(regInput)
		out := output.(regOutput)
		st := state.(regState)
		switch inp.op {
		case opCreate:
			if st.anchor != 0 {
				return out.err == registry.ErrAlreadyAnchored, st
			}
			return out.err == registry.ErrNone, regState{anchor: 1}
		case opRevoke:
			if st.anchor == 2 {
				return out.err == registry.ErrAlreadyRevoked, st
			}
			return out.err == registry.ErrNone, regState{anchor: 2}
		case opLookup:
			return out.err == registry.ErrNone && out.found == (st.anchor != 0) && out.revoked == (st.anchor == 2), st
		case opSuspend:
			if st.suspended && inp.arg <= st.until {
				return out.err == registry.ErrSuspensionNotExtended, st
			}
			return out.err == registry.ErrNone, regState{suspended: true, until: inp.arg}
		case opIsSuspended:
			return out.err == registry.ErrNone && out.found == (st.suspended && inp.arg <= st.until), st
		default:
			return false, st
		}
	},
	DescribeOperation: func(input, output interface{}) string {
		inp := input.(regInput)
		out := output.(regOutput)
		switch inp.op {
		case opCreate:
			return fmt.Sprintf("create(%v) -> %v", inp.key, out.err)
		case opRevoke:
			return fmt.Sprintf("revoke(%v) -> %v", inp.key, out.err)
		case opLookup:
			return fmt.Sprintf("lookup(%v) -> %v, %v", inp.key, out.found, out.revoked)
		case opSuspend:
			return fmt.Sprintf("suspend(%v, %v) -> %v", inp.key, inp.arg, out.err)
		case opIsSuspended:
			return fmt.Sprintf("suspended(%v, %v) -> %v", inp.key, inp.arg, out.found)
		default:
			return "<invalid>"
		}
	},
}

// regState models one partition.
// anchor is 0 for absent, 1 for anchored, 2 for revoked.
type regState struct {
	anchor    byte
	suspended bool
	until     uint64
}

func runOp(s *Server, caller registry.Identity, admins cryptoffi.Digest, in regInput) regOutput {
	target := cryptoffi.Digest{in.key}
	var out regOutput
	var err error
	switch in.op {
	case opCreate:
		_, err = s.CreateAnchor(admins, target)
	case opRevoke:
		_, err = s.revoke(caller, admins, target, nil)
	case opLookup:
		var r registry.Revokable
		r, out.found, err = s.LookupAnchor(admins, target)
		out.revoked = r.Revoked
	case opSuspend:
		_, err = s.suspend(caller, admins, target, nil, in.arg)
	case opIsSuspended:
		out.found, err = s.IsSuspended(admins, target, in.arg)
	}
	out.err = registry.Code(err)
	return out
}

func TestPorc(t *testing.T) {
	s := newTestServer(t)
	h := s.Hash()
	caller := registry.AccountIdentity(h, registry.AccountUint64(0))
	// single-member admin set, so the empty proof verifies.
	admins := cryptoffi.Sum(h, caller.Bytes())

	const numClients = 8
	const numOps = 200
	start := time.Now()
	var mu sync.Mutex
	var ops []porc.Operation
	wg := new(sync.WaitGroup)
	for cid := 0; cid < numClients; cid++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rnd := rand.New(rand.NewPCG(uint64(cid), 0))
			for i := 0; i < numOps; i++ {
				in := regInput{op: rnd.Uint64N(5), key: byte(rnd.IntN(4)), arg: rnd.Uint64N(20)}
				call := time.Since(start).Nanoseconds()
				out := runOp(s, caller, admins, in)
				ret := time.Since(start).Nanoseconds()
				mu.Lock()
				ops = append(ops, porc.Operation{ClientId: cid, Input: in, Call: call, Output: out, Return: ret})
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if !porc.CheckOperations(regModel, ops) {
		t.Fatal("history not linearizable")
	}
}
