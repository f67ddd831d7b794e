package submission

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-leadform/pkg/format"
	"github.com/goliatone/go-leadform/pkg/model"
)

// DefaultSimulatedDelay is the latency of the simulated remote call.
const DefaultSimulatedDelay = 2 * time.Second

// Simulated accepts every submission after Delay and logs its contents at
// debug level. FailureRate (0..1) makes a share of attempts fail with
// ErrUnavailable, which is useful to exercise retries and the failure path
// in demos.
type Simulated struct {
	Delay       time.Duration
	FailureRate float64
	Logger      zerolog.Logger
	// Definitions, when set, is used to log a sectioned summary instead of
	// raw values.
	Definitions func(formID string) (model.FormDefinition, bool)

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// SimulatedOption configures a Simulated gateway.
type SimulatedOption func(*Simulated)

// WithDelay overrides the simulated latency.
func WithDelay(d time.Duration) SimulatedOption {
	return func(s *Simulated) {
		if d >= 0 {
			s.Delay = d
		}
	}
}

// WithFailureRate makes a share of attempts fail.
func WithFailureRate(rate float64, seed int64) SimulatedOption {
	return func(s *Simulated) {
		s.FailureRate = rate
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) SimulatedOption {
	return func(s *Simulated) {
		s.Logger = logger
	}
}

// WithDefinitions resolves form definitions for summary logging.
func WithDefinitions(lookup func(formID string) (model.FormDefinition, bool)) SimulatedOption {
	return func(s *Simulated) {
		s.Definitions = lookup
	}
}

// NewSimulated returns a simulated gateway with the production delay.
func NewSimulated(opts ...SimulatedOption) *Simulated {
	s := &Simulated{
		Delay:  DefaultSimulatedDelay,
		Logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

func (s *Simulated) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	if s.Delay > 0 {
		timer := time.NewTimer(s.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}

	if s.fails() {
		s.Logger.Warn().Str("submission_id", sub.ID).Str("form", sub.FormID).Msg("simulated delivery failure")
		return Receipt{}, ErrUnavailable
	}

	event := s.Logger.Debug().Str("submission_id", sub.ID).Str("form", sub.FormID)
	if def, ok := s.lookup(sub.FormID); ok {
		event = event.Str("summary", Summary(def, sub))
	} else {
		event = event.Interface("values", format.SanitizeValues(sub.Values))
	}
	event.Msg("form data")

	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return Receipt{SubmissionID: sub.ID, AcceptedAt: now(), Attempts: 1}, nil
}

func (s *Simulated) lookup(formID string) (model.FormDefinition, bool) {
	if s.Definitions == nil {
		return model.FormDefinition{}, false
	}
	return s.Definitions(formID)
}

func (s *Simulated) fails() bool {
	if s.FailureRate <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s.rng.Float64() < s.FailureRate
}
