package text

import "strings"

const (
	// MaxLeafSize is the largest number of bytes stored in a single leaf.
	MaxLeafSize = 1024

	// maxDepth triggers a rebuild of the tree after many small edits.
	maxDepth = 48
)

// node is a rope tree node. Leaves carry text; internal nodes always have
// two non-nil children.
type node struct {
	left, right *node
	leaf        string
	length      int
	depth       int
}

func newLeaf(s string) *node {
	if s == "" {
		return nil
	}
	return &node{leaf: s, length: len(s)}
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

// Rope is an immutable rope. Operations return new Rope values sharing
// unchanged subtrees with the original. The zero value is an empty document.
type Rope struct {
	root *node
}

var _ Text = Rope{}

// New creates an empty rope.
func New() Rope {
	return Rope{}
}

// FromString creates a rope holding s.
func FromString(s string) Rope {
	return Rope{root: build(s)}
}

// build creates a balanced tree over s.
func build(s string) *node {
	if len(s) <= MaxLeafSize {
		return newLeaf(s)
	}
	mid := len(s) / 2
	return concat(build(s[:mid]), build(s[mid:]))
}

// concat joins two subtrees, folding small leaves together.
func concat(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.isLeaf() && b.isLeaf() && a.length+b.length <= MaxLeafSize {
		return newLeaf(a.leaf + b.leaf)
	}
	// Appending a small leaf (typing at the end) extends the rightmost leaf.
	if !a.isLeaf() && a.right.isLeaf() && b.isLeaf() && a.right.length+b.length <= MaxLeafSize {
		return concat(a.left, newLeaf(a.right.leaf+b.leaf))
	}
	return &node{
		left:   a,
		right:  b,
		length: a.length + b.length,
		depth:  max(a.depth, b.depth) + 1,
	}
}

// prefix returns the first k bytes of n.
func (n *node) prefix(k int) *node {
	if n == nil || k <= 0 {
		return nil
	}
	if k >= n.length {
		return n
	}
	if n.isLeaf() {
		return newLeaf(n.leaf[:k])
	}
	if k <= n.left.length {
		return n.left.prefix(k)
	}
	return concat(n.left, n.right.prefix(k-n.left.length))
}

// suffix returns the bytes of n from offset k to the end.
func (n *node) suffix(k int) *node {
	if n == nil || k >= n.length {
		return nil
	}
	if k <= 0 {
		return n
	}
	if n.isLeaf() {
		return newLeaf(n.leaf[k:])
	}
	if k >= n.left.length {
		return n.right.suffix(k - n.left.length)
	}
	return concat(n.left.suffix(k), n.right)
}

// appendRange writes the bytes of n in [from, to) to sb.
func (n *node) appendRange(sb *strings.Builder, from, to int) {
	if n == nil || from >= to {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.leaf[from:to])
		return
	}
	split := n.left.length
	if from < split {
		n.left.appendRange(sb, from, min(to, split))
	}
	if to > split {
		n.right.appendRange(sb, max(from-split, 0), to-split)
	}
}

// Len returns the total byte length.
func (r Rope) Len() int {
	if r.root == nil {
		return 0
	}
	return r.root.length
}

// IsEmpty returns true if the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// Depth returns the height of the underlying tree.
func (r Rope) Depth() int {
	if r.root == nil {
		return 0
	}
	return r.root.depth
}

// String returns the full text.
func (r Rope) String() string {
	return r.Slice(0, r.Len())
}

// Slice returns the text in the byte range [from, to).
// It panics with a *RangeError if the range is invalid.
func (r Rope) Slice(from, to int) string {
	mustRange("slice", from, to, r.Len())
	var sb strings.Builder
	sb.Grow(to - from)
	r.root.appendRange(&sb, from, to)
	return sb.String()
}

// Replace returns a rope with [from, to) replaced by s.
// It panics with a *RangeError if the range is invalid.
func (r Rope) Replace(from, to int, s string) Text {
	return r.replace(from, to, s)
}

func (r Rope) replace(from, to int, s string) Rope {
	mustRange("replace", from, to, r.Len())
	root := concat(concat(r.root.prefix(from), build(s)), r.root.suffix(to))
	if root != nil && root.depth > maxDepth {
		var sb strings.Builder
		sb.Grow(root.length)
		root.appendRange(&sb, 0, root.length)
		root = build(sb.String())
	}
	return Rope{root: root}
}

// Insert returns a rope with s inserted at offset.
func (r Rope) Insert(offset int, s string) Rope {
	return r.replace(offset, offset, s)
}

// Delete returns a rope with [from, to) removed.
func (r Rope) Delete(from, to int) Rope {
	return r.replace(from, to, "")
}
