// Package eventloop runs callbacks one at a time on a single goroutine. Timers
// scheduled with AfterFunc deliver their callback through the same queue, so
// state owned by the loop is never touched concurrently.
package eventloop

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned when posting to a loop that is no longer running.
var ErrStopped = errors.New("eventloop: loop stopped")

// Loop is a FIFO callback queue drained by Run.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	wake    chan struct{}
	stopped bool
	timers  map[*time.Timer]struct{}
}

// New returns an idle loop. Call Run to start draining it.
func New() *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Post appends fn to the queue.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		return nil
	}
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return ErrStopped
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// AfterFunc posts fn to the queue once d has elapsed. Callbacks whose delays
// expire together are queued in whatever order their timers fire; chain them
// from inside an earlier callback when one must follow another.
func (l *Loop) AfterFunc(d time.Duration, fn func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return ErrStopped
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, timer)
		l.mu.Unlock()
		_ = l.Post(fn)
	})
	l.timers[timer] = struct{}{}
	return nil
}

// Run drains the queue until ctx is done. Pending timers are stopped and
// queued callbacks are dropped on exit.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		for {
			fn, ok := l.next()
			if !ok {
				break
			}
			fn()
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending reports the number of queued callbacks and armed timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue) + len(l.timers)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	l.queue = nil
	for timer := range l.timers {
		timer.Stop()
	}
	l.timers = nil
}
