// Package catalog loads form definitions and the contact routing page from
// YAML or JSON files. The site's own definitions are embedded and returned
// by Default.
//
// Each file holds one document with either a "form" or a "contact" key:
//
//	form:
//	  id: general-inquiry
//	  fields:
//	    - name: email
//	      kind: email
//	      required: true
package catalog
