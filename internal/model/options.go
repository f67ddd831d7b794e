package model

// Options configures Normalize. The public adapter in pkg/model builds these
// from functional options.
type Options struct {
	Labeler         func(string) string
	SubmitLabel     string
	SubmittingLabel string
	SuccessMessage  string
}

// DefaultOptions returns the labels used by the site forms.
func DefaultOptions() Options {
	return Options{
		Labeler:         DefaultLabeler,
		SubmitLabel:     "Submit",
		SubmittingLabel: "Submitting...",
		SuccessMessage:  "Thank you. We have received your request and will be in touch shortly.",
	}
}
