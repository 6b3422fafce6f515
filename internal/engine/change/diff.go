package change

import "github.com/sergi/go-diff/diffmatchpatch"

// Diff returns a sequence of changes turning oldText into newText. Adjacent
// deletions and insertions are folded into single replacements.
func Diff(oldText, newText string) Mapping {
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldText, newText, false))

	var out Mapping
	pos := 0 // offset in the document produced so far
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			pos += len(d.Text)

		case diffmatchpatch.DiffDelete:
			c := Delete(pos, pos+len(d.Text))
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				c.Text = diffs[i+1].Text
				i++
			}
			out = append(out, c)
			pos += len(c.Text)

		case diffmatchpatch.DiffInsert:
			c := Insert(pos, d.Text)
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffDelete {
				c.To = pos + len(diffs[i+1].Text)
				i++
			}
			out = append(out, c)
			pos += len(c.Text)
		}
	}
	return out
}
