package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/keystate/internal/config"
	"github.com/dshills/keystate/internal/logging"
	"github.com/dshills/keystate/internal/script"
)

func writeScript(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunOnceFormats(t *testing.T) {
	yamlPath := writeScript(t, "edit.yaml", `
doc: hello world
selection: [{anchor: 0}, {anchor: 6}]
steps:
  - {op: replace_selection, text: X}
`)
	luaPath := writeScript(t, "edit.lua", `
ks.init("hello world", {0, 6})
ks.replace_selection("X")
`)

	tests := []struct {
		name   string
		path   string
		format string
		want   string
	}{
		{"yaml text", yamlPath, config.FormatText, `doc: "Xhello Xworld"`},
		{"yaml json", yamlPath, config.FormatJSON, `"doc": "Xhello Xworld"`},
		{"lua text", luaPath, config.FormatText, "selection: 1 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Output.Format = tt.format

			var out bytes.Buffer
			if err := runOnce(context.Background(), &out, tt.path, cfg, logging.Null()); err != nil {
				t.Fatalf("runOnce failed: %v", err)
			}
			if !strings.Contains(out.String(), tt.want) {
				t.Errorf("output %q missing %q", out.String(), tt.want)
			}
		})
	}
}

func TestRunOnceErrors(t *testing.T) {
	bad := writeScript(t, "bad.json", `{"doc": "abc", "steps": [{"op": "change", "from": 7}]}`)

	var out bytes.Buffer
	err := runOnce(context.Background(), &out, bad, config.Default(), logging.Null())
	if !errors.Is(err, script.ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}

	err = runOnce(context.Background(), &out, "edit.txt", config.Default(), logging.Null())
	if !errors.Is(err, script.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	cfg, err := loadConfig(options{LogLevel: "debug", Format: "json"})
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.LogLevel() != logging.LevelDebug || cfg.Output.Format != config.FormatJSON {
		t.Errorf("flags not applied: %+v", cfg)
	}

	if _, err := loadConfig(options{Format: "xml"}); !errors.Is(err, config.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestWatchScriptStopsOnCancel(t *testing.T) {
	path := writeScript(t, "edit.yaml", "doc: abc\nsteps: []\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := watchScript(ctx, &out, path, config.Default(), logging.Null()); err != nil {
		t.Fatalf("watchScript returned %v", err)
	}
	if !strings.Contains(out.String(), `doc: "abc"`) {
		t.Errorf("expected initial run output, got %q", out.String())
	}
}
