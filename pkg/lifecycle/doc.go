// Package lifecycle drives a form engine through a submission: it moves the
// form to Submitting, hands the values to a submission.Gateway, returns to
// Idle, announces the outcome through a notify.Notifier and, after a
// success, restores the defaults.
//
// Every step runs on the eventloop.Loop that owns the engine. The exported
// Controller methods post to that loop and are safe to call from any
// goroutine.
package lifecycle
