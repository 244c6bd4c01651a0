package export

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formport/pkg/layout"
	"github.com/goliatone/go-formport/pkg/migrate"
	"github.com/goliatone/go-formport/pkg/widgets"
)

// requestSchema assembles the submission body: one property per placed input
// control across every fragment, typed from its resolved widget. Static
// widgets are presentation only and never submitted; a duplicate field name
// keeps its first definition.
func requestSchema(result *migrate.Result) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	seen := map[string]struct{}{}

	for _, frag := range result.Fragments {
		for _, row := range frag.Table.Rows {
			for _, cell := range row.Cells {
				for _, control := range cell.Controls {
					widget := frag.Widgets[control.ID]
					if widget == widgets.WidgetStatic {
						continue
					}
					name := fieldName(control)
					if _, dup := seen[name]; dup {
						continue
					}
					seen[name] = struct{}{}
					schema.WithProperty(name, propertySchema(widget, control))
				}
			}
		}
	}
	return schema
}

func fieldName(control layout.Control) string {
	if control.Name != "" {
		return control.Name
	}
	return control.ID
}

// propertySchema types one submission field after its widget. Anything the
// mapping does not know degrades to a plain string, mirroring the registry's
// text fallback.
func propertySchema(widget string, control layout.Control) *openapi3.Schema {
	var schema *openapi3.Schema
	switch widget {
	case widgets.WidgetToggle:
		schema = openapi3.NewBoolSchema()
	case widgets.WidgetNumber:
		schema = openapi3.NewFloat64Schema()
	case widgets.WidgetDate:
		schema = openapi3.NewStringSchema().WithFormat("date-time")
	case widgets.WidgetTable:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema())
	case widgets.WidgetChips:
		schema = openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())
	default:
		schema = openapi3.NewStringSchema()
	}
	if control.Label != "" {
		schema.Title = control.Label
	}
	return schema
}
