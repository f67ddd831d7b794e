// Package model defines the form definitions consumed by the form engine,
// validators and renderers. Definitions are declarative: each Field names its
// kind, required-ness, default, choices and validation rules, and the engine
// derives formatters and messages from them. Rule kinds use string parameters
// (Params["value"], Params["pattern"]) so definitions round-trip through YAML
// and JSON unchanged.
package model
