package testsupport

import (
	"context"
	"sync"
	"time"

	"github.com/goliatone/go-leadform/pkg/submission"
)

// Gateway is a scripted submission.Gateway. Each call consumes the next
// entry of Errors (nil means accept); once the script is exhausted every
// call is accepted. Delay is honoured with ctx cancellation.
type Gateway struct {
	Delay  time.Duration
	Errors []error

	mu    sync.Mutex
	calls []submission.Submission
}

// Submit records sub and returns the scripted outcome.
func (g *Gateway) Submit(ctx context.Context, sub submission.Submission) (submission.Receipt, error) {
	g.mu.Lock()
	pos := len(g.calls)
	g.calls = append(g.calls, sub)
	var err error
	if pos < len(g.Errors) {
		err = g.Errors[pos]
	}
	g.mu.Unlock()

	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return submission.Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	if err != nil {
		return submission.Receipt{}, err
	}
	return submission.Receipt{SubmissionID: sub.ID, AcceptedAt: time.Now(), Attempts: 1}, nil
}

// Calls returns the submissions received so far.
func (g *Gateway) Calls() []submission.Submission {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]submission.Submission(nil), g.calls...)
}
