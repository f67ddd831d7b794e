// Package submission delivers validated form values through a Gateway.
//
// The default Gateway is Simulated: it waits a fixed delay, logs the
// submission and reports success, since leads are not transmitted anywhere.
// WithPolicy wraps any Gateway with a per-attempt timeout and exponential
// retry. Instrument adds Prometheus metrics and an OpenTelemetry span to every
// call it sees, so wrapping it with WithPolicy records one span per attempt.
package submission
