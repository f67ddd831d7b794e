// Package template declares the template engine contract the HTML renderers
// depend on. The pongo2-backed implementation lives in the gotemplate
// subpackage.
package template
