package script

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/dshills/keystate/internal/engine/change"
	"github.com/dshills/keystate/internal/engine/history"
	"github.com/dshills/keystate/internal/engine/selection"
	"github.com/dshills/keystate/internal/engine/state"
	"github.com/dshills/keystate/internal/logging"
)

// Runner executes script steps. The open transaction collects every step
// up to the next commit, including selection and meta steps; undo and redo
// require it to be empty. A Runner is not safe for concurrent use.
type Runner struct {
	state   *state.EditorState
	tx      *state.Transaction
	history *history.History
	logger  *logging.Logger

	steps   int
	commits int
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMaxUndo bounds the undo history.
func WithMaxUndo(n int) RunnerOption {
	return func(r *Runner) {
		r.history = history.New(n)
	}
}

// NewRunner creates a runner over an empty document.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		history: history.New(history.DefaultMaxEntries),
		logger:  logging.Null(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("script")
	r.reset(state.New(nil))
	return r
}

// Init replaces the state with doc and sel and clears the history.
// An empty sel places a caret at the start.
func (r *Runner) Init(doc string, sel []RangeSpec) error {
	st := state.FromString(doc)
	if len(sel) > 0 {
		s, err := buildSelection(sel, len(doc))
		if err != nil {
			return err
		}
		st = state.FromString(doc, state.WithSelection(s))
	}
	r.history.Clear()
	r.steps = 0
	r.commits = 0
	r.reset(st)
	r.logger.Debug("init doc_len=%d ranges=%d", len(doc), st.Selection().Len())
	return nil
}

func (r *Runner) reset(st *state.EditorState) {
	r.state = st
	r.tx = st.Transaction()
}

// Run initializes from s, executes every step and commits whatever is
// still pending.
func (r *Runner) Run(s *Script) (Result, error) {
	if err := r.Init(s.Doc, s.Selection); err != nil {
		return Result{}, err
	}
	for _, step := range s.Steps {
		if err := r.Exec(step); err != nil {
			return r.Result(), err
		}
	}
	r.Commit()
	return r.Result(), nil
}

// Exec validates and executes one step. Errors are *StepError values.
func (r *Runner) Exec(step Step) error {
	index := r.steps
	r.steps++

	log := r.logger.WithFields(map[string]any{"step": index, "op": step.Op})
	if err := r.exec(step); err != nil {
		log.Warn("step failed: %v", err)
		return &StepError{Index: index, Op: step.Op, Err: err}
	}
	log.Debug("ok")
	return nil
}

func (r *Runner) exec(step Step) error {
	switch step.Op {
	case OpChange:
		to := step.From
		if step.To != nil {
			to = *step.To
		}
		return r.Change(step.From, to, step.Text)
	case OpReplaceSelection:
		r.ReplaceSelection(step.Text)
		return nil
	case OpSelect:
		return r.Select(step.Ranges)
	case OpMeta:
		return r.Meta(step.Key, step.Value)
	case OpSetDoc:
		r.SetDoc(step.Text)
		return nil
	case OpCommit:
		r.Commit()
		return nil
	case OpUndo:
		return r.Undo()
	case OpRedo:
		return r.Redo()
	}
	return fmt.Errorf("%w: %q", ErrUnknownOp, step.Op)
}

// Change records a replacement of [from, to) with s.
func (r *Runner) Change(from, to int, s string) error {
	c := change.New(from, to, s)
	if err := c.Validate(r.tx.Doc().Len()); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}
	r.tx.Change(c)
	return nil
}

// ReplaceSelection replaces every selected range with s.
func (r *Runner) ReplaceSelection(s string) {
	r.tx.ReplaceSelection(s)
}

// Select replaces the selection.
func (r *Runner) Select(specs []RangeSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: select needs at least one range", ErrInvalidStep)
	}
	sel, err := buildSelection(specs, r.tx.Doc().Len())
	if err != nil {
		return err
	}
	r.tx.SetSelection(sel)
	return nil
}

// Meta annotates the open transaction. Booleans, whole numbers and strings
// are stored under typed keys of the matching type. Numbers that do not fit
// an int are stored as float64; unsigned values past the int range are
// rejected.
func (r *Runner) Meta(key string, value any) error {
	if key == "" {
		return fmt.Errorf("%w: meta needs a key", ErrInvalidStep)
	}
	switch v := value.(type) {
	case bool:
		state.NewMetaKey[bool](key).Set(r.tx, v)
	case string:
		state.NewMetaKey[string](key).Set(r.tx, v)
	case int:
		state.NewMetaKey[int](key).Set(r.tx, v)
	case int64:
		if v < math.MinInt || v > math.MaxInt {
			state.NewMetaKey[float64](key).Set(r.tx, float64(v))
		} else {
			state.NewMetaKey[int](key).Set(r.tx, int(v))
		}
	case uint64:
		if v > math.MaxInt {
			return fmt.Errorf("%w: %s=%d overflows int", ErrUnsupportedMetaVal, key, v)
		}
		state.NewMetaKey[int](key).Set(r.tx, int(v))
	case float64:
		if v == math.Trunc(v) && v >= minIntFloat && v < -minIntFloat {
			state.NewMetaKey[int](key).Set(r.tx, int(v))
		} else {
			state.NewMetaKey[float64](key).Set(r.tx, v)
		}
	default:
		return fmt.Errorf("%w: %s has type %T", ErrUnsupportedMetaVal, key, value)
	}
	return nil
}

// minIntFloat is math.MinInt as a float64. It is a power of two, so the
// conversion is exact and -minIntFloat is the first value past MaxInt.
const minIntFloat = float64(math.MinInt)

// SetDoc records the minimal changes that turn the current document into s.
// Selection ranges move with the text around them.
func (r *Runner) SetDoc(s string) {
	for _, c := range change.Diff(r.tx.Doc().String(), s) {
		r.tx.Change(c)
	}
}

// Commit applies the open transaction and records it in the history.
// Committing an empty transaction only updates the selection.
func (r *Runner) Commit() {
	if !r.tx.DocChanged() {
		r.reset(r.tx.Apply())
		return
	}
	if _, ok := history.ID.Get(r.tx); !ok {
		history.ID.Set(r.tx, uuid.New().String())
	}
	if r.history.Record(r.tx) {
		r.commits++
	}
	id, _ := history.ID.Get(r.tx)
	r.logger.Info("commit %s: %d changes", id, r.tx.Len())
	r.reset(r.tx.Apply())
}

// pending reports whether the open transaction holds anything a commit
// would keep: document changes, a new selection or annotations.
func (r *Runner) pending() bool {
	return r.tx.DocChanged() ||
		len(r.tx.MetaNames()) > 0 ||
		!r.tx.Selection().Equal(r.state.Selection())
}

// Undo reverts the last committed transaction. It fails with
// ErrPendingChanges while the open transaction is not empty.
func (r *Runner) Undo() error {
	if r.pending() {
		return ErrPendingChanges
	}
	tx, err := r.history.Undo(r.state)
	if err != nil {
		return err
	}
	r.reset(tx.Apply())
	return nil
}

// Redo reapplies the last undone transaction. It fails with
// ErrPendingChanges while the open transaction is not empty.
func (r *Runner) Redo() error {
	if r.pending() {
		return ErrPendingChanges
	}
	tx, err := r.history.Redo(r.state)
	if err != nil {
		return err
	}
	r.reset(tx.Apply())
	return nil
}

// Text returns the current document, including uncommitted changes.
func (r *Runner) Text() string {
	return r.tx.Doc().String()
}

// Len returns the current document length in bytes.
func (r *Runner) Len() int {
	return r.tx.Doc().Len()
}

// Selection returns the current selection, including uncommitted changes.
func (r *Runner) Selection() selection.Selection {
	return r.tx.Selection()
}

// State returns the last committed state.
func (r *Runner) State() *state.EditorState {
	return r.state
}

// History returns the undo history.
func (r *Runner) History() *history.History {
	return r.history
}

// Result summarizes the runner's current state.
func (r *Runner) Result() Result {
	sel := r.tx.Selection()
	ranges := make([]ResultRange, 0, sel.Len())
	for _, rg := range sel.Ranges() {
		ranges = append(ranges, ResultRange{Anchor: rg.Anchor, Head: rg.Head})
	}
	return Result{
		Doc:       r.Text(),
		Selection: ranges,
		Commits:   r.commits,
		UndoDepth: r.history.UndoCount(),
		RedoDepth: r.history.RedoCount(),
	}
}

// buildSelection converts specs into a selection over a document of docLen bytes.
func buildSelection(specs []RangeSpec, docLen int) (selection.Selection, error) {
	ranges := make([]selection.Range, 0, len(specs))
	for i, spec := range specs {
		head := spec.Anchor
		if spec.Head != nil {
			head = *spec.Head
		}
		if spec.Anchor < 0 || spec.Anchor > docLen || head < 0 || head > docLen {
			return selection.Selection{}, fmt.Errorf("%w: range %d (%d, %d) outside document of length %d",
				ErrOutOfRange, i, spec.Anchor, head, docLen)
		}
		ranges = append(ranges, selection.NewRange(spec.Anchor, head))
	}
	return selection.FromRanges(ranges)
}
