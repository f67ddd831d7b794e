package forms

// Snapshot is the read model the presentation layer binds to.
type Snapshot struct {
	FormID         string            `json:"formId"`
	Values         map[string]string `json:"values"`
	Errors         ErrorMap          `json:"errors"`
	Status         Status            `json:"status"`
	SubmitDisabled bool              `json:"submitDisabled"`
	SubmitLabel    string            `json:"submitLabel"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		FormID:         e.def.ID,
		Values:         e.Values(),
		Errors:         e.Errors(),
		Status:         e.status,
		SubmitDisabled: e.SubmitDisabled(),
		SubmitLabel:    e.SubmitLabel(),
	}
}
