package testsupport

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-leadform/pkg/notify"
)

// Recorder is a notify.Notifier that keeps every notification.
type Recorder struct {
	mu     sync.Mutex
	events []notify.Notification
	signal chan struct{}
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{signal: make(chan struct{}, 1)}
}

// Announce records n.
func (r *Recorder) Announce(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	r.events = append(r.events, n)
	r.mu.Unlock()

	select {
	case r.signal <- struct{}{}:
	default:
	}
}

// Notifications returns what was recorded so far.
func (r *Recorder) Notifications() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.events...)
}

// WaitFor blocks until at least n notifications were recorded or timeout
// elapses, failing the test in the latter case.
func (r *Recorder) WaitFor(t *testing.T, n int, timeout time.Duration) []notify.Notification {
	t.Helper()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if got := r.Notifications(); len(got) >= n {
			return got
		}
		select {
		case <-r.signal:
		case <-deadline.C:
			t.Fatalf("timed out waiting for %d notification(s), got %d", n, len(r.Notifications()))
			return nil
		}
	}
}
