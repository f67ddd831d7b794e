package submission

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Submission is one delivery request.
type Submission struct {
	ID          string            `json:"id"`
	FormID      string            `json:"formId"`
	Values      map[string]string `json:"values"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// New stamps values for formID with a fresh ID and time.
func New(formID string, values map[string]string, now time.Time) Submission {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Submission{
		ID:          uuid.NewString(),
		FormID:      formID,
		Values:      copied,
		SubmittedAt: now,
	}
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	SubmissionID string    `json:"submissionId"`
	AcceptedAt   time.Time `json:"acceptedAt"`
	Attempts     int       `json:"attempts"`
}

// Gateway delivers a submission. Implementations must honour ctx
// cancellation.
type Gateway interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// GatewayFunc adapts a function into a Gateway.
type GatewayFunc func(ctx context.Context, sub Submission) (Receipt, error)

// Submit calls fn.
func (fn GatewayFunc) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	return fn(ctx, sub)
}
