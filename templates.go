package formport

import (
	"io/fs"

	"github.com/goliatone/go-formport/pkg/report"
)

// EmbeddedReportTemplates exposes the built-in migration report templates so
// callers can reuse or extend them without importing the report package
// directly.
func EmbeddedReportTemplates() fs.FS {
	return report.TemplatesFS()
}
