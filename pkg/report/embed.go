package report

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded report templates for consumers that want
// to extend or partially override the built-in bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
