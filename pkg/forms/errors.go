package forms

import "errors"

var (
	// ErrUnknownField is returned when a handler names a field the
	// definition does not declare.
	ErrUnknownField = errors.New("forms: unknown field")
	// ErrRejectedInput signals that an entry guard refused the input; the
	// stored value is unchanged.
	ErrRejectedInput = errors.New("forms: input rejected")
	// ErrInvalid is returned by BeginSubmit when validation produced errors.
	ErrInvalid = errors.New("forms: validation failed")
	// ErrFormEmpty is returned by BeginSubmit while every guarded field is
	// blank.
	ErrFormEmpty = errors.New("forms: form is empty")
	// ErrSubmitInFlight is returned by BeginSubmit while a submission is
	// already in progress.
	ErrSubmitInFlight = errors.New("forms: submission in progress")
)
