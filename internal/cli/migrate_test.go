package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const claimsDefinition = `{
  "form": "claims",
  "fragments": [
    {
      "name": "details",
      "role": "standalone",
      "controls": [
        {"id": "ttl", "type": "label", "label": "Claim Details", "position": "1"},
        {"id": "first", "type": "text", "name": "first", "label": "First name", "position": "4B"},
        {"id": "notes", "type": "memo", "name": "notes", "label": "Notes", "position": "9"}
      ],
      "sections": [
        {"name": "Items", "startRow": 4, "endRow": 9, "kind": "repeating"}
      ]
    },
    {
      "name": "items-list",
      "role": "list",
      "section": "Items",
      "controls": [
        {"id": "items", "type": "grid", "name": "items", "position": "2"}
      ]
    },
    {
      "name": "items-item",
      "role": "item",
      "section": "Items",
      "controls": [
        {"id": "qty", "type": "number", "name": "qty", "position": "3"}
      ]
    }
  ]
}`

// lonelyDefinition carries a list fragment with no item partner, so the run
// emits an unmatched_pair diagnostic and drops the half by default.
const lonelyDefinition = `{
  "form": "orders",
  "fragments": [
    {
      "name": "summary",
      "role": "standalone",
      "controls": [
        {"id": "total", "type": "number", "name": "total", "label": "Total", "position": "1"}
      ]
    },
    {
      "name": "lines-list",
      "role": "list",
      "section": "Lines",
      "controls": [
        {"id": "lines", "type": "grid", "name": "lines", "position": "2"}
      ]
    }
  ]
}`

// stubPrompt scripts prompt answers for command tests.
type stubPrompt struct {
	confirms   []bool
	selections []int
	infos      []string
	err        error
	confirmPos int
	selectPos  int
}

func (s *stubPrompt) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.confirmPos >= len(s.confirms) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirms[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubPrompt) Select(_ context.Context, _ SelectConfig) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.selectPos >= len(s.selections) {
		return -1, errors.New("no select scripted")
	}
	val := s.selections[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubPrompt) Info(_ context.Context, msg string) error {
	s.infos = append(s.infos, msg)
	return nil
}

func writeDefinition(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "form.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	return path
}

func runCommand(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestMigrateCommandWritesLayout(t *testing.T) {
	path := writeDefinition(t, claimsDefinition)
	out := filepath.Join(t.TempDir(), "layout.json")

	c := New(io.Discard, LogInfo)
	if err := runCommand(t, c, "migrate", path, "-o", out); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	for _, want := range []string{
		`"Form": "claims"`,
		`"Title": "Claim Details"`,
		`"ColSpan": 4`,
		`"Kind": "pair"`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("layout missing %s", want)
		}
	}
}

func TestMigrateCommandWritesReport(t *testing.T) {
	path := writeDefinition(t, claimsDefinition)
	dir := t.TempDir()
	out := filepath.Join(dir, "layout.json")
	reportPath := filepath.Join(dir, "report.txt")

	c := New(io.Discard, LogInfo)
	if err := runCommand(t, c, "migrate", path, "-o", out, "--report", reportPath); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "MIGRATION REPORT") {
		t.Errorf("report missing header:\n%s", data)
	}
	if !strings.Contains(string(data), "FRAGMENT details") {
		t.Errorf("report missing fragment summary:\n%s", data)
	}
}

func TestMigrateCommandInteractiveKeepsUnmatched(t *testing.T) {
	path := writeDefinition(t, lonelyDefinition)
	out := filepath.Join(t.TempDir(), "layout.json")

	c := New(io.Discard, LogInfo)
	prompt := &stubPrompt{selections: []int{1}}
	c.Prompt = prompt

	if err := runCommand(t, c, "migrate", path, "-i", "-o", out); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if prompt.selectPos != 1 {
		t.Fatalf("expected one selection prompt, got %d", prompt.selectPos)
	}
	if len(prompt.infos) == 0 {
		t.Fatal("expected the unmatched half to be announced before the prompt")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if !strings.Contains(string(data), `"Fragment": "lines-list"`) {
		t.Errorf("kept half missing from areas:\n%s", data)
	}
}

func TestMigrateCommandInteractiveAbort(t *testing.T) {
	path := writeDefinition(t, lonelyDefinition)
	out := filepath.Join(t.TempDir(), "layout.json")

	c := New(io.Discard, LogInfo)
	c.Prompt = &stubPrompt{selections: []int{2}}

	err := runCommand(t, c, "migrate", path, "-i", "-o", out)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("nothing should be written after abort, stat: %v", err)
	}
}

func TestMigrateCommandKeepUnmatchedFlag(t *testing.T) {
	path := writeDefinition(t, lonelyDefinition)
	out := filepath.Join(t.TempDir(), "layout.json")

	c := New(io.Discard, LogInfo)
	if err := runCommand(t, c, "migrate", path, "--keep-unmatched", "-o", out); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if !strings.Contains(string(data), `"Fragment": "lines-list"`) {
		t.Errorf("kept half missing from areas:\n%s", data)
	}
}

func TestResolveUnmatchedWithoutEvents(t *testing.T) {
	c := New(io.Discard, LogInfo)
	prompt := &stubPrompt{}
	c.Prompt = prompt

	action, err := c.resolveUnmatched(context.Background(), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if action != unmatchedDrop {
		t.Fatalf("expected drop, got %d", action)
	}
	if prompt.selectPos != 0 || len(prompt.infos) != 0 {
		t.Fatal("no prompts expected without unmatched halves")
	}
}

func TestConfirmOverwrite(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "out.json")
	if err := os.WriteFile(existing, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	c := New(io.Discard, LogInfo)

	c.Prompt = &stubPrompt{confirms: []bool{false}}
	if err := c.confirmOverwrite(context.Background(), existing); !errors.Is(err, ErrAborted) {
		t.Fatalf("declining should abort, got %v", err)
	}

	c.Prompt = &stubPrompt{confirms: []bool{true}}
	if err := c.confirmOverwrite(context.Background(), existing); err != nil {
		t.Fatalf("accepting should pass, got %v", err)
	}

	c.Prompt = &stubPrompt{}
	if err := c.confirmOverwrite(context.Background(), filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("missing target should pass silently, got %v", err)
	}
}
