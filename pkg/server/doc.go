// Package server exposes the lead forms over HTTP.
//
// Every catalog form is served at its route as a classic post-redirect-get
// page, as a live websocket session at /forms/{id}/live, and through a small
// JSON API (/api/forms, /api/forms/{id}/validate). The contact routing page
// lives at / and /contact-us. Requests carry a zerolog logger in their
// context, are counted in Prometheus and traced with OpenTelemetry.
package server
