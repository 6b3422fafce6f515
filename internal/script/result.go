package script

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Result is the outcome of running a script.
type Result struct {
	Doc       string        `json:"doc"`
	Selection []ResultRange `json:"selection"`
	Commits   int           `json:"commits"`
	UndoDepth int           `json:"undo_depth"`
	RedoDepth int           `json:"redo_depth"`
}

// ResultRange is a selection range in a Result.
type ResultRange struct {
	Anchor int `json:"anchor"`
	Head   int `json:"head"`
}

// JSON encodes the result as indented JSON.
func (r Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// String formats the result for terminals.
func (r Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "doc: %q\n", r.Doc)
	sb.WriteString("selection:")
	for _, rg := range r.Selection {
		if rg.Anchor == rg.Head {
			fmt.Fprintf(&sb, " %d", rg.Head)
		} else {
			fmt.Fprintf(&sb, " %d..%d", rg.Anchor, rg.Head)
		}
	}
	sb.WriteByte('\n')
	fmt.Fprintf(&sb, "commits: %d (undo %d, redo %d)\n", r.Commits, r.UndoDepth, r.RedoDepth)
	return sb.String()
}
