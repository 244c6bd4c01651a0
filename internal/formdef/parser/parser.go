// Package parser implements the formdef.Parser contract. It decodes legacy
// form-definition exports (JSON first, YAML as fallback) into the Definition
// model, sanitizes human-authored display text, and synthesizes fragment
// descriptors when the export predates the descriptor table.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formport/pkg/formdef"
)

// Parser implements formdef.Parser for legacy definition exports.
type Parser struct {
	options formdef.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ formdef.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options formdef.ParserOptions) formdef.Parser {
	return &Parser{options: options}
}

// documentFile mirrors the legacy export layout. Every field is optional in
// the wild; the parser fills the gaps rather than rejecting old exports.
type documentFile struct {
	Form        string            `json:"form" yaml:"form"`
	Title       string            `json:"title" yaml:"title"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
	Fragments   []fragmentFile    `json:"fragments" yaml:"fragments"`
	Descriptors []descriptorFile  `json:"descriptors" yaml:"descriptors"`

	// Controls carries the bare-control-list shape some exporters emit for
	// single-view forms. Mutually exclusive with Fragments.
	Controls []controlFile `json:"controls" yaml:"controls"`
}

type fragmentFile struct {
	Name     string        `json:"name" yaml:"name"`
	Role     string        `json:"role" yaml:"role"`
	Section  string        `json:"section" yaml:"section"`
	Parent   string        `json:"parent" yaml:"parent"`
	Controls []controlFile `json:"controls" yaml:"controls"`
	Sections []markerFile  `json:"sections" yaml:"sections"`
}

type controlFile struct {
	ID        string            `json:"id" yaml:"id"`
	Type      string            `json:"type" yaml:"type"`
	Name      string            `json:"name" yaml:"name"`
	Label     string            `json:"label" yaml:"label"`
	Position  string            `json:"position" yaml:"position"`
	Section   string            `json:"section" yaml:"section"`
	Repeating string            `json:"repeating" yaml:"repeating"`
	Metadata  map[string]string `json:"metadata" yaml:"metadata"`
}

type markerFile struct {
	Name     string `json:"name" yaml:"name"`
	StartRow int    `json:"startRow" yaml:"startRow"`
	EndRow   int    `json:"endRow" yaml:"endRow"`
	Kind     string `json:"kind" yaml:"kind"`
}

type descriptorFile struct {
	Fragment string `json:"fragment" yaml:"fragment"`
	Role     string `json:"role" yaml:"role"`
	Section  string `json:"section" yaml:"section"`
	Parent   string `json:"parent" yaml:"parent"`
}

// Parse decodes a loaded Document into the Definition model.
func (p *Parser) Parse(ctx context.Context, doc formdef.Document) (*formdef.Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("formdef parser: document payload is empty")
	}

	file, err := decodeDocument(raw)
	if err != nil {
		return nil, err
	}

	def, err := p.buildDefinition(file, doc.Location())
	if err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("formdef parser: %w", err)
	}
	return def, nil
}

// decodeDocument tries JSON first and falls back to YAML, the order legacy
// exporters are most likely to satisfy.
func decodeDocument(raw []byte) (documentFile, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return documentFile{}, errors.New("formdef parser: document is empty")
	}

	var file documentFile
	if err := json.Unmarshal(raw, &file); err == nil {
		return file, nil
	}
	if err := yaml.Unmarshal(raw, &file); err == nil {
		return file, nil
	}
	return documentFile{}, errors.New("formdef parser: invalid JSON or YAML")
}

func (p *Parser) buildDefinition(file documentFile, location string) (*formdef.Definition, error) {
	fragments := file.Fragments
	if len(fragments) == 0 && len(file.Controls) > 0 {
		fragments = []fragmentFile{{
			Name:     p.options.DefaultFragmentName,
			Role:     string(formdef.RoleStandalone),
			Controls: file.Controls,
		}}
	}
	if len(fragments) == 0 {
		return nil, errors.New("formdef parser: document defines no fragments or controls")
	}

	def := &formdef.Definition{
		Name:     strings.TrimSpace(file.Form),
		Title:    p.displayText(file.Title),
		Metadata: normalizeMetadata(file.Metadata),
	}
	if def.Name == "" {
		def.Name = defaultFormName(location, p.options.DefaultFragmentName)
	}

	for _, frag := range fragments {
		built, err := p.buildFragment(frag)
		if err != nil {
			return nil, err
		}
		def.Fragments = append(def.Fragments, built)
	}

	descriptors, err := buildDescriptors(file.Descriptors, fragments)
	if err != nil {
		return nil, err
	}
	def.Descriptors = descriptors

	return def, nil
}

func (p *Parser) buildFragment(file fragmentFile) (formdef.Fragment, error) {
	name := strings.TrimSpace(file.Name)
	if name == "" {
		return formdef.Fragment{}, errors.New("formdef parser: fragment without a name")
	}

	frag := formdef.Fragment{
		Name: name,
		Role: parseRole(file.Role),
	}

	for i, ctl := range file.Controls {
		id := strings.TrimSpace(ctl.ID)
		if id == "" {
			return formdef.Fragment{}, fmt.Errorf("formdef parser: fragment %q control %d has no id", name, i)
		}
		frag.Controls = append(frag.Controls, formdef.Control{
			ID:        id,
			Type:      strings.ToLower(strings.TrimSpace(ctl.Type)),
			Name:      strings.TrimSpace(ctl.Name),
			Label:     p.displayText(ctl.Label),
			Position:  strings.TrimSpace(ctl.Position),
			Section:   strings.TrimSpace(ctl.Section),
			Repeating: strings.TrimSpace(ctl.Repeating),
			Metadata:  normalizeMetadata(ctl.Metadata),
		})
	}

	for _, marker := range file.Sections {
		markerName := strings.TrimSpace(marker.Name)
		if markerName == "" {
			return formdef.Fragment{}, fmt.Errorf("formdef parser: fragment %q has a section marker without a name", name)
		}
		frag.Markers = append(frag.Markers, formdef.SectionMarker{
			Name:  markerName,
			Start: marker.StartRow,
			End:   marker.EndRow,
			Kind:  parseMarkerKind(marker.Kind),
		})
	}

	return frag, nil
}

// buildDescriptors keeps the export's descriptor table when present and
// synthesizes one from the fragment entries otherwise. Either way Sequence
// records source order, the stand-in position for fragments nothing else
// locates.
func buildDescriptors(files []descriptorFile, fragments []fragmentFile) ([]formdef.FragmentDescriptor, error) {
	if len(files) > 0 {
		out := make([]formdef.FragmentDescriptor, 0, len(files))
		for i, file := range files {
			id := strings.TrimSpace(file.Fragment)
			if id == "" {
				return nil, fmt.Errorf("formdef parser: descriptor %d has no fragment reference", i)
			}
			out = append(out, formdef.FragmentDescriptor{
				ID:       id,
				Role:     parseRole(file.Role),
				Section:  strings.TrimSpace(file.Section),
				Parent:   strings.TrimSpace(file.Parent),
				Sequence: i,
			})
		}
		return out, nil
	}

	out := make([]formdef.FragmentDescriptor, 0, len(fragments))
	for i, frag := range fragments {
		out = append(out, formdef.FragmentDescriptor{
			ID:       strings.TrimSpace(frag.Name),
			Role:     parseRole(frag.Role),
			Section:  strings.TrimSpace(frag.Section),
			Parent:   strings.TrimSpace(frag.Parent),
			Sequence: i,
		})
	}
	return out, nil
}

func (p *Parser) displayText(raw string) string {
	if !p.options.SanitizeText {
		return strings.TrimSpace(raw)
	}
	return sanitizeDisplayText(raw)
}

func parseRole(raw string) formdef.Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "list":
		return formdef.RoleList
	case "item":
		return formdef.RoleItem
	case "", "standalone", "view", "section":
		return formdef.RoleStandalone
	default:
		return formdef.Role(strings.ToLower(strings.TrimSpace(raw)))
	}
}

func parseMarkerKind(raw string) formdef.MarkerKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "repeating", "repeat":
		return formdef.MarkerRepeating
	default:
		return formdef.MarkerStatic
	}
}

// normalizeMetadata trims keys and values and drops empty keys, walking the
// map in sorted order so repeated parses produce identical results.
func normalizeMetadata(raw map[string]string) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, key := range keys {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			continue
		}
		out[trimmed] = strings.TrimSpace(raw[key])
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// defaultFormName falls back to the document location's base name, so a
// nameless export still yields an addressable definition.
func defaultFormName(location, fallback string) string {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return fallback
	}
	base := trimmed
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return fallback
	}
	return base
}
