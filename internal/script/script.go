package script

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Step operations.
const (
	OpChange           = "change"
	OpReplaceSelection = "replace_selection"
	OpSelect           = "select"
	OpMeta             = "meta"
	OpSetDoc           = "set_doc"
	OpCommit           = "commit"
	OpUndo             = "undo"
	OpRedo             = "redo"
)

// Script is a starting document plus the steps to run against it.
type Script struct {
	Doc       string      `yaml:"doc" toml:"doc" json:"doc"`
	Selection []RangeSpec `yaml:"selection,omitempty" toml:"selection,omitempty" json:"selection,omitempty"`
	Steps     []Step      `yaml:"steps" toml:"steps" json:"steps"`
}

// RangeSpec describes a selection range. A missing head makes a caret.
type RangeSpec struct {
	Anchor int  `yaml:"anchor" toml:"anchor" json:"anchor"`
	Head   *int `yaml:"head,omitempty" toml:"head,omitempty" json:"head,omitempty"`
}

// Step is a single script operation. Which fields apply depends on Op:
//
//	change             From, To (defaults to From), Text
//	replace_selection  Text
//	select             Ranges
//	meta               Key, Value (bool, number or string)
//	set_doc            Text
//	commit, undo, redo no fields
type Step struct {
	Op     string      `yaml:"op" toml:"op" json:"op"`
	From   int         `yaml:"from,omitempty" toml:"from,omitempty" json:"from,omitempty"`
	To     *int        `yaml:"to,omitempty" toml:"to,omitempty" json:"to,omitempty"`
	Text   string      `yaml:"text,omitempty" toml:"text,omitempty" json:"text,omitempty"`
	Ranges []RangeSpec `yaml:"ranges,omitempty" toml:"ranges,omitempty" json:"ranges,omitempty"`
	Key    string      `yaml:"key,omitempty" toml:"key,omitempty" json:"key,omitempty"`
	Value  any         `yaml:"value,omitempty" toml:"value,omitempty" json:"value,omitempty"`
}

// Format identifies a script encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatLua  Format = "lua"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".lua":
		return FormatLua, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}

// Decode parses a declarative script. Lua scripts are programs, not data,
// and are run with RunLua instead.
func Decode(format Format, data []byte) (*Script, error) {
	var s Script
	var err error

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s script: %w", format, err)
	}
	return &s, nil
}

// Load reads and decodes the script at path.
func Load(path string) (*Script, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return Decode(format, data)
}
