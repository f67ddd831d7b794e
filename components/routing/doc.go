// Package routing serves the contact page routes (the cards that send a
// visitor to the proposal, contractor or inquiry form, or to an external
// document portal) as JSON for client navigation widgets.
//
// The handler responds to GET and HEAD requests. An empty query returns
// every route by default; q filters by title and description, limit caps
// the result. Routes come from the form catalog unless overridden.
package routing
