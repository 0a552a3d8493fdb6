// Package template defines the template engine seam used by the page
// renderer and by declarative extensions. The pongo2 implementation lives in
// the gotemplate subpackage.
package template
