package export

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the embedded preview templates for consumers that
// want to extend the default layout.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
