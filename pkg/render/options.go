package render

import (
	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/notify"
)

// RenderOptions carry the per-request state a renderer binds to. None of it
// is written back into the definition.
type RenderOptions struct {
	// Action overrides the form's post target (defaults to the definition
	// route).
	Action string
	// Values pre-populates controls keyed by field name.
	Values map[string]string
	// Errors holds one message per field, shown next to the control.
	Errors map[string]string
	// FormErrors are messages not tied to a field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs in name order.
	HiddenFields map[string]string
	// SubmitLabel and SubmitDisabled mirror the engine snapshot.
	SubmitLabel    string
	SubmitDisabled bool
	// MinDate is the earliest selectable day for date inputs (YYYY-MM-DD).
	MinDate string
	// Notice is a banner rendered above the form, used for the outcome of a
	// classic post.
	Notice *notify.Notification
	// LiveURL enables the websocket session script when set.
	LiveURL string
	// Theme supplies tokens and CSS variables.
	Theme *theme.RendererConfig
}
