package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds each delivery attempt and retries transient failures with
// exponential backoff. Rejections are never retried.
type Policy struct {
	Timeout         time.Duration
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// OnRetry is called before each retry with the failed attempt's error.
	OnRetry func(err error, wait time.Duration)
}

// DefaultPolicy allows ten seconds per attempt and three retries starting
// at half a second.
func DefaultPolicy() Policy {
	return Policy{
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

type policyGateway struct {
	next   Gateway
	policy Policy
}

// WithPolicy wraps next with policy.
func WithPolicy(next Gateway, policy Policy) Gateway {
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = DefaultPolicy().InitialInterval
	}
	if policy.MaxInterval <= 0 {
		policy.MaxInterval = DefaultPolicy().MaxInterval
	}
	if policy.MaxRetries < 0 {
		policy.MaxRetries = 0
	}
	return &policyGateway{next: next, policy: policy}
}

func (g *policyGateway) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if g.next == nil {
		return Receipt{}, errors.New("submission: gateway is nil")
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = g.policy.InitialInterval
	exp.MaxInterval = g.policy.MaxInterval
	exp.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(g.policy.MaxRetries)), ctx)

	var (
		receipt  Receipt
		attempts int
	)
	operation := func() error {
		attempts++
		r, err := g.attempt(ctx, sub)
		if err == nil {
			receipt = r
			return nil
		}
		if !Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		if g.policy.OnRetry != nil {
			g.policy.OnRetry(err, wait)
		}
	}

	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		return Receipt{}, fmt.Errorf("submission: deliver %s after %d attempt(s): %w", sub.ID, attempts, err)
	}
	receipt.Attempts = attempts
	return receipt, nil
}

func (g *policyGateway) attempt(ctx context.Context, sub Submission) (Receipt, error) {
	if g.policy.Timeout <= 0 {
		return g.next.Submit(ctx, sub)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, g.policy.Timeout)
	defer cancel()

	receipt, err := g.next.Submit(attemptCtx, sub)
	if err != nil && ctx.Err() == nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return Receipt{}, fmt.Errorf("%w after %s", ErrTimeout, g.policy.Timeout)
	}
	return receipt, err
}
