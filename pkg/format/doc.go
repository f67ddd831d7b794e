// Package format holds the entry-time transformations applied by field change
// handlers: phone masking, digit filtering, ISO date handling, numeric entry
// guards and plain-text sanitising.
package format
