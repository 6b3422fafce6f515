package selection

import (
	"errors"
	"testing"

	"github.com/dshills/keystate/internal/engine/change"
)

func TestDefault(t *testing.T) {
	sel := Default()
	if sel.Len() != 1 {
		t.Fatalf("expected 1 range, got %d", sel.Len())
	}
	if sel.Primary() != Cursor(0) {
		t.Errorf("Primary() = %v, want Cursor(0)", sel.Primary())
	}
}

func TestNewKeepsOrder(t *testing.T) {
	sel := New(Cursor(9), Cursor(2), NewRange(1, 4))
	want := []Range{Cursor(9), Cursor(2), NewRange(1, 4)}

	got := sel.Ranges()
	if len(got) != len(want) {
		t.Fatalf("expected %d ranges, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range %d = %v, want %v", i, got[i], want[i])
		}
	}
	if sel.Primary() != Cursor(9) {
		t.Errorf("primary should be the first range, got %v", sel.Primary())
	}
	if !sel.IsMulti() {
		t.Error("expected multi selection")
	}
}

func TestRangesReturnsCopy(t *testing.T) {
	sel := New(Cursor(1), Cursor(2))
	ranges := sel.Ranges()
	ranges[0] = Cursor(100)
	if sel.At(0) != Cursor(1) {
		t.Error("modifying Ranges() result changed the selection")
	}
}

func TestFromRanges(t *testing.T) {
	if _, err := FromRanges(nil); !errors.Is(err, ErrEmptySelection) {
		t.Errorf("expected ErrEmptySelection, got %v", err)
	}

	sel, err := FromRanges([]Range{Cursor(3), Cursor(1)})
	if err != nil {
		t.Fatal(err)
	}
	if sel.Len() != 2 || sel.Primary() != Cursor(3) {
		t.Errorf("unexpected selection %v", sel)
	}
}

func TestSelectionMapPreservesCardinality(t *testing.T) {
	sel := New(Cursor(0), Cursor(2), NewRange(3, 5), Cursor(5), NewRange(8, 1))
	changes := []change.Change{
		change.Delete(0, 10),
		change.Insert(2, "xyz"),
		change.New(1, 6, "q"),
		change.Insert(20, "late"),
	}

	for _, c := range changes {
		mapped := sel.Map(c)
		if mapped.Len() != sel.Len() {
			t.Errorf("%s: Len() = %d, want %d", c, mapped.Len(), sel.Len())
		}
	}
}

func TestSelectionMapDoesNotMerge(t *testing.T) {
	sel := New(Cursor(2), Cursor(4))
	mapped := sel.Map(change.Delete(1, 6))

	if mapped.Len() != 2 {
		t.Fatalf("expected 2 ranges, got %d", mapped.Len())
	}
	if mapped.At(0) != Cursor(1) || mapped.At(1) != Cursor(1) {
		t.Errorf("expected two coincident carets at 1, got %v", mapped)
	}
}

func TestSelectionMapUnchanged(t *testing.T) {
	sel := New(Cursor(1), NewRange(2, 3))
	mapped := sel.Map(change.Insert(10, "x"))
	if !mapped.Equal(sel) {
		t.Errorf("Map() = %v, want %v", mapped, sel)
	}
}

func TestSelectionMapDoesNotModifyOriginal(t *testing.T) {
	sel := New(Cursor(1), Cursor(5))
	sel.Map(change.Insert(0, "abc"))
	if sel.At(0) != Cursor(1) || sel.At(1) != Cursor(5) {
		t.Errorf("original selection modified: %v", sel)
	}
}

func TestSelectionEqual(t *testing.T) {
	a := New(Cursor(1), Cursor(2))
	if !a.Equal(New(Cursor(1), Cursor(2))) {
		t.Error("expected equal")
	}
	if a.Equal(New(Cursor(2), Cursor(1))) {
		t.Error("order should matter")
	}
	if a.Equal(New(Cursor(1))) {
		t.Error("length should matter")
	}
}

func TestNormalize(t *testing.T) {
	sel := New(NewRange(8, 10), Cursor(1), NewRange(2, 5), NewRange(4, 7))
	got := sel.Normalize()

	want := []Range{Cursor(1), NewRange(2, 7), NewRange(8, 10)}
	if got.Len() != len(want) {
		t.Fatalf("expected %d ranges, got %v", len(want), got)
	}
	for i, r := range want {
		if got.At(i) != r {
			t.Errorf("range %d = %v, want %v", i, got.At(i), r)
		}
	}
	if sel.Len() != 4 {
		t.Error("Normalize() modified the original selection")
	}
}

func TestSelectionString(t *testing.T) {
	got := New(Cursor(1), NewRange(2, 4)).String()
	if want := "Selection[Cursor(1) Range(2→4)]"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
