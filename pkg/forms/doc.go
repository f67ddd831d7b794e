// Package forms implements the generic form engine: one Engine holds the
// values, error map and submission status of a single form instance built
// from a model.FormDefinition.
//
// An Engine is owned by exactly one goroutine (a terminal session, or the
// event loop of a live session) and is not safe for concurrent use.
package forms
