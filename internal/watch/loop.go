// SPDX-License-Identifier: MIT
//
// Copyright © 2026 Kent Gibson <warthog618@gmail.com>.

package watch

import (
	"sync"

	sensor "github.com/warthog618/go-gpiosensor"
)

// Detector blocks until an edge is detected or stop is closed.
//
// Returns false if no edge was detected.
type Detector func(stop <-chan struct{}) (sensor.Event, bool)

// Loop runs a Detector on its own goroutine, passing detected events to a
// Pin, until stopped.
type Loop struct {
	p      *Pin
	detect Detector
	stop   chan struct{}
	done   chan struct{}

	// mu covers the attributes below it.
	mu      sync.Mutex
	stopped bool
	// set while the loop is notifying the pin.
	busy bool
}

// Go starts a Loop detecting events for the pin.
func Go(p *Pin, detect Detector) *Loop {
	l := &Loop{
		p:      p,
		detect: detect,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Stop stops the loop.
//
// Stop waits for the loop goroutine to exit, unless the loop is notifying the
// pin, in which case the goroutine exits once the notification returns.
// So Stop may be called by the handler installed in the pin.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	close(l.stop)
	busy := l.busy
	l.mu.Unlock()
	if !busy {
		<-l.done
	}
}

// Done returns a channel that is closed when the loop goroutine exits.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.stop:
			return
		default:
		}
		evt, ok := l.detect(l.stop)
		if !ok {
			continue
		}
		l.mu.Lock()
		if l.stopped {
			l.mu.Unlock()
			return
		}
		l.busy = true
		l.mu.Unlock()
		l.p.Notify(evt)
		l.mu.Lock()
		l.busy = false
		l.mu.Unlock()
	}
}
