package catalog

import "errors"

// ErrFormNotFound is returned when no definition has the requested ID or
// route.
var ErrFormNotFound = errors.New("catalog: form not found")
