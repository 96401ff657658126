package server

import (
	"sync"
)

// Work is one queued mutation. the worker fills in Resp, then Finish.
type Work struct {
	mu   *sync.Mutex
	cond *sync.Cond
	done bool
	Req  *WQReq
	Resp *WQResp
}

// WorkQ hands queued mutations to a single worker in arrival order.
type WorkQ struct {
	mu   *sync.Mutex
	work []*Work
	cond *sync.Cond
}

func (w *Work) Finish() {
	w.mu.Lock()
	w.done = true
	w.cond.Signal()
	w.mu.Unlock()
}

func newWork(req *WQReq) *Work {
	w := &Work{mu: new(sync.Mutex), Req: req}
	w.cond = sync.NewCond(w.mu)
	return w
}

func (w *Work) wait() {
	w.mu.Lock()
	for !w.done {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// Do queues req and blocks until the worker finishes it.
func (wq *WorkQ) Do(req *WQReq) *WQResp {
	w := newWork(req)

	wq.mu.Lock()
	wq.work = append(wq.work, w)
	wq.cond.Signal()
	wq.mu.Unlock()

	w.wait()
	return w.Resp
}

// DoBatch queues reqs back-to-back, so they land in one batch
// unless the worker is mid-Get.
func (wq *WorkQ) DoBatch(reqs []*WQReq) []*WQResp {
	works := make([]*Work, len(reqs))
	for i, req := range reqs {
		works[i] = newWork(req)
	}

	wq.mu.Lock()
	wq.work = append(wq.work, works...)
	wq.cond.Signal()
	wq.mu.Unlock()

	resps := make([]*WQResp, len(works))
	for i, w := range works {
		w.wait()
		resps[i] = w.Resp
	}
	return resps
}

// Get blocks for and takes all queued work.
func (wq *WorkQ) Get() []*Work {
	wq.mu.Lock()
	for wq.work == nil {
		wq.cond.Wait()
	}

	work := wq.work
	wq.work = nil
	wq.mu.Unlock()
	return work
}

func NewWorkQ() *WorkQ {
	mu := new(sync.Mutex)
	cond := sync.NewCond(mu)
	return &WorkQ{mu: mu, cond: cond}
}
