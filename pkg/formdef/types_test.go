package formdef_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formport/pkg/formdef"
)

func validDefinition() *formdef.Definition {
	return &formdef.Definition{
		Name: "orders",
		Fragments: []formdef.Fragment{
			{
				Name: "main",
				Role: formdef.RoleStandalone,
				Controls: []formdef.Control{
					{ID: "customer", Type: "text", Name: "customer", Position: "1A"},
					{ID: "notes", Type: "richtext", Name: "notes", Position: "2A"},
				},
			},
			{
				Name: "items-list",
				Role: formdef.RoleList,
				Controls: []formdef.Control{
					{ID: "sku", Type: "text", Name: "sku", Position: "1A"},
				},
			},
		},
		Descriptors: []formdef.FragmentDescriptor{
			{ID: "main", Role: formdef.RoleStandalone, Sequence: 0},
			{ID: "items-list", Role: formdef.RoleList, Section: "Items", Sequence: 1},
		},
	}
}

func TestDefinitionValidate(t *testing.T) {
	if err := validDefinition().Validate(); err != nil {
		t.Fatalf("valid definition rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(*formdef.Definition)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(d *formdef.Definition) { d.Name = "" },
			wantErr: "definition name",
		},
		{
			name: "duplicate fragment",
			mutate: func(d *formdef.Definition) {
				d.Fragments = append(d.Fragments, formdef.Fragment{Name: "main", Role: formdef.RoleStandalone})
			},
			wantErr: "duplicate fragment",
		},
		{
			name:    "unknown role",
			mutate:  func(d *formdef.Definition) { d.Fragments[0].Role = "widget" },
			wantErr: "unknown role",
		},
		{
			name: "duplicate control id",
			mutate: func(d *formdef.Definition) {
				d.Fragments[0].Controls[1].ID = "customer"
			},
			wantErr: "duplicate control",
		},
		{
			name: "descriptor without fragment",
			mutate: func(d *formdef.Definition) {
				d.Descriptors = append(d.Descriptors, formdef.FragmentDescriptor{ID: "ghost", Role: formdef.RoleStandalone})
			},
			wantErr: "unknown fragment",
		},
		{
			name: "list descriptor without section",
			mutate: func(d *formdef.Definition) {
				d.Descriptors[1].Section = ""
			},
			wantErr: "needs a section name",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := validDefinition()
			tc.mutate(def)
			err := def.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestDefinitionCloneIsDeep(t *testing.T) {
	def := validDefinition()
	def.Fragments[0].Controls[0].Metadata = map[string]string{"widget": "text"}

	cloned := def.Clone()
	cloned.Fragments[0].Controls[0].Metadata["widget"] = "memo"
	cloned.Fragments[0].Controls[0].ID = "changed"
	cloned.Descriptors[0].Section = "changed"

	if def.Fragments[0].Controls[0].Metadata["widget"] != "text" {
		t.Fatal("clone shares control metadata")
	}
	if def.Fragments[0].Controls[0].ID != "customer" {
		t.Fatal("clone shares control slice")
	}
	if def.Descriptors[0].Section != "" {
		t.Fatal("clone shares descriptor slice")
	}
}

func TestDefinitionLookups(t *testing.T) {
	def := validDefinition()

	if _, ok := def.Fragment("items-list"); !ok {
		t.Fatal("expected fragment lookup to succeed")
	}
	if _, ok := def.Fragment("ghost"); ok {
		t.Fatal("expected fragment lookup to miss")
	}
	desc, ok := def.Descriptor("items-list")
	if !ok || desc.Section != "Items" {
		t.Fatalf("Descriptor = %+v, %t", desc, ok)
	}
}
