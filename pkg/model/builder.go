package model

import (
	"github.com/goliatone/go-leadform/internal/model"
)

// Normalizer fills derived values (labels, routes, formatters) into a raw
// definition and rejects inconsistent ones.
type Normalizer interface {
	Normalize(def FormDefinition) (FormDefinition, error)
}

// NormalizerOption configures the normalizer behaviour.
type NormalizerOption func(*model.Options)

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) NormalizerOption {
	return func(opts *model.Options) {
		opts.Labeler = labeler
	}
}

// WithSubmitLabels sets the idle and in-progress submit labels used when a
// definition does not declare its own.
func WithSubmitLabels(idle, submitting string) NormalizerOption {
	return func(opts *model.Options) {
		opts.SubmitLabel = idle
		opts.SubmittingLabel = submitting
	}
}

// WithSuccessMessage sets the fallback success announcement.
func WithSuccessMessage(message string) NormalizerOption {
	return func(opts *model.Options) {
		opts.SuccessMessage = message
	}
}

// NewNormalizer returns a Normalizer backed by the internal implementation.
func NewNormalizer(options ...NormalizerOption) Normalizer {
	cfg := model.DefaultOptions()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return normalizer{opts: cfg}
}

type normalizer struct {
	opts model.Options
}

func (n normalizer) Normalize(def FormDefinition) (FormDefinition, error) {
	return model.Normalize(def, n.opts)
}
