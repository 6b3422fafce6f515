package script

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const yamlScript = `
doc: hello world
selection:
  - anchor: 0
  - anchor: 6
steps:
  - op: replace_selection
    text: X
  - op: commit
`

const tomlScript = `
doc = "hello world"

[[selection]]
anchor = 0

[[selection]]
anchor = 6

[[steps]]
op = "replace_selection"
text = "X"

[[steps]]
op = "commit"
`

const jsonScript = `{
  "doc": "hello world",
  "selection": [{"anchor": 0}, {"anchor": 6}],
  "steps": [
    {"op": "replace_selection", "text": "X"},
    {"op": "commit"}
  ]
}`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected Format
	}{
		{"edit.yaml", FormatYAML},
		{"edit.YML", FormatYAML},
		{"dir/edit.toml", FormatTOML},
		{"edit.json", FormatJSON},
		{"edit.lua", FormatLua},
	}

	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if err != nil {
			t.Errorf("FormatFromPath(%q) error: %v", tt.path, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}

	if _, err := FormatFromPath("edit.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeFormatsAgree(t *testing.T) {
	want := &Script{
		Doc:       "hello world",
		Selection: []RangeSpec{{Anchor: 0}, {Anchor: 6}},
		Steps: []Step{
			{Op: OpReplaceSelection, Text: "X"},
			{Op: OpCommit},
		},
	}

	tests := []struct {
		format Format
		data   string
	}{
		{FormatYAML, yamlScript},
		{FormatTOML, tomlScript},
		{FormatJSON, jsonScript},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := Decode(tt.format, []byte(tt.data))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Decode = %+v, want %+v", got, want)
			}

			res, err := NewRunner().Run(got)
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if res.Doc != "Xhello Xworld" {
				t.Errorf("Doc = %q, want %q", res.Doc, "Xhello Xworld")
			}
		})
	}
}

func TestDecodeOptionalFields(t *testing.T) {
	data := `
doc: abc
steps:
  - op: change
    from: 1
    to: 2
    text: XY
  - op: select
    ranges:
      - {anchor: 0, head: 3}
  - op: meta
    key: history.skip
    value: true
`
	s, err := Decode(FormatYAML, []byte(data))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if s.Steps[0].To == nil || *s.Steps[0].To != 2 {
		t.Errorf("Steps[0].To = %v, want 2", s.Steps[0].To)
	}
	if h := s.Steps[1].Ranges[0].Head; h == nil || *h != 3 {
		t.Errorf("Ranges[0].Head = %v, want 3", h)
	}
	if s.Steps[2].Value != true {
		t.Errorf("Steps[2].Value = %v, want true", s.Steps[2].Value)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"yaml unknown field", FormatYAML, "doc: a\nsteps: []\nbogus: 1\n"},
		{"toml syntax", FormatTOML, "doc = "},
		{"json unknown field", FormatJSON, `{"doc": "a", "bogus": 1}`},
		{"json syntax", FormatJSON, `{"doc": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(tt.format, []byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Decode(FormatLua, nil); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat for lua, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "edit.json")
	if err := os.WriteFile(path, []byte(jsonScript), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Doc != "hello world" || len(s.Steps) != 2 {
		t.Errorf("unexpected script %+v", s)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
