// Package validation maps form state to per-field error messages. Rules are
// derived from a model.FormDefinition: every field is checked (validation
// never stops at the first invalid field) and the first failing rule of a
// field supplies its message.
//
// Two modes exist. ModeClient applies the rules a browser would enforce while
// the visitor types (required fields, email shape, dates not in the past).
// ModeStrict adds the server-side checks applied before delivery: zip and
// phone formats, website URLs, numeric ranges, maximum lengths and choice
// membership.
package validation
