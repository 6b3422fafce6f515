package change

import (
	"testing"

	"github.com/dshills/keystate/internal/engine/text"
)

func TestDiffRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
	}{
		{"identical", "hello", "hello"},
		{"insert", "hello world", "hello brave world"},
		{"delete", "hello brave world", "hello world"},
		{"replace", "the cat sat", "the dog sat"},
		{"from empty", "", "new text"},
		{"to empty", "old text", ""},
		{"multiple", "alpha beta gamma delta", "alpha BETA gamma epsilon"},
		{"unicode", "héllo wörld", "hällo welt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Diff(tt.old, tt.new)
			got := m.Apply(text.FromString(tt.old))
			if got.String() != tt.new {
				t.Errorf("Apply(Diff()) = %q, want %q", got.String(), tt.new)
			}
		})
	}
}

func TestDiffIdenticalIsEmpty(t *testing.T) {
	if m := Diff("same", "same"); len(m) != 0 {
		t.Errorf("expected no changes, got %v", m)
	}
}

func TestDiffPreservesUntouchedPositions(t *testing.T) {
	m := Diff("hello world", "hello brave world")

	// "world" starts at 6 and should follow the insertion.
	if got := m.Map(6, BiasAfter); got != 12 {
		t.Errorf("Map(6) = %d, want 12", got)
	}
	if got := m.Map(2, BiasAfter); got != 2 {
		t.Errorf("Map(2) = %d, want 2", got)
	}
}
