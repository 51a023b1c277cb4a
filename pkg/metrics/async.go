package metrics

import (
	"sync"
	"sync/atomic"
)

// AsyncObserver hands events to inner on a background goroutine so request
// handlers never wait on file I/O. Events are dropped when the buffer is full.
type AsyncObserver struct {
	inner   Observer
	mu      sync.RWMutex
	closed  bool
	queue   chan MetricsEvent
	done    chan struct{}
	dropped atomic.Int64
}

func NewAsyncObserver(inner Observer, buffer int) *AsyncObserver {
	if buffer <= 0 {
		buffer = 256
	}
	a := &AsyncObserver{
		inner: inner,
		queue: make(chan MetricsEvent, buffer),
		done:  make(chan struct{}),
	}
	go func() {
		defer close(a.done)
		for ev := range a.queue {
			a.inner.RecordEvent(ev)
		}
	}()
	return a
}

func (a *AsyncObserver) RecordEvent(ev MetricsEvent) {
	if a == nil {
		return
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		a.dropped.Add(1)
		return
	}
	select {
	case a.queue <- ev:
	default:
		a.dropped.Add(1)
	}
}

// Dropped counts events lost to a full buffer or recorded after Drain.
func (a *AsyncObserver) Dropped() int64 { return a.dropped.Load() }

// Drain stops accepting events and waits until the buffered ones are delivered.
func (a *AsyncObserver) Drain() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
	return nil
}
