// Package script replays edit scripts against an editor state.
//
// A script names a starting document and selection followed by a list of
// steps. Steps accumulate into an open transaction; "commit" applies it
// and records it in the undo history. Scripts are read from YAML, TOML or
// JSON files, or run as Lua programs that call the same operations
// directly:
//
//	doc: "hello world"
//	selection:
//	  - {anchor: 0}
//	  - {anchor: 6}
//	steps:
//	  - {op: replace_selection, text: "X"}
//	  - {op: commit}
//
// Every step is validated before it reaches the editor core, so malformed
// scripts produce errors rather than panics.
package script
