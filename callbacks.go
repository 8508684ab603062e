// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package gpiosensor

import "sync"

// Callback is a handle for a function registered to receive edge events.
//
// Callbacks are identified by handle, so the same function wrapped by two
// handles is registered twice.
type Callback struct {
	fn EventHandler
}

// NewCallback creates a Callback handle for the function.
func NewCallback(fn func(Event)) *Callback {
	return &Callback{fn: fn}
}

func (cb *Callback) call(evt Event) {
	if cb.fn != nil {
		cb.fn(evt)
	}
}

// callbackSet is a copy-on-write set of callbacks.
//
// The backing slice is never modified once published, so snapshots may be
// iterated without holding the lock.
type callbackSet struct {
	mu  sync.Mutex
	cbs []*Callback
}

func (cs *callbackSet) add(cb *Callback) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.index(cb) >= 0 {
		return false
	}
	cbs := make([]*Callback, len(cs.cbs), len(cs.cbs)+1)
	copy(cbs, cs.cbs)
	cs.cbs = append(cbs, cb)
	return true
}

func (cs *callbackSet) remove(cb *Callback) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	idx := cs.index(cb)
	if idx < 0 {
		return false
	}
	cbs := make([]*Callback, 0, len(cs.cbs)-1)
	cbs = append(cbs, cs.cbs[:idx]...)
	cs.cbs = append(cbs, cs.cbs[idx+1:]...)
	return true
}

func (cs *callbackSet) clear() {
	cs.mu.Lock()
	cs.cbs = nil
	cs.mu.Unlock()
}

func (cs *callbackSet) snapshot() []*Callback {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.cbs
}

// assumes cs is locked.
func (cs *callbackSet) index(cb *Callback) int {
	for i, c := range cs.cbs {
		if c == cb {
			return i
		}
	}
	return -1
}
