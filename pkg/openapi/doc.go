// Package openapi describes the lead form HTTP API as an OpenAPI 3 document.
// Each catalog form contributes a values schema derived from its field
// definitions, so the published contract and the server-side rules share
// one source. kin-openapi types stay inside this package; callers receive
// a Document holding the serialized payload.
package openapi
