package page

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl templates/partials/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded page template bundle. Custom bundles must
// provide templates/page.tpl, plus any partial a theme points at.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
