// Package history provides undo/redo on top of editor state transactions.
//
// The state core never depends on this package. History consumes committed
// transactions and produces new transactions that revert or replay them:
//
//	h := history.New(1000)
//
//	tx := st.Transaction().ReplaceSelection("x")
//	st = tx.Apply()
//	h.Record(tx)
//
//	undo, err := h.Undo(st)
//	if err == nil {
//	    st = undo.Apply()
//	}
//
// # Entries
//
// Each recorded transaction becomes one undo entry holding its changes, the
// changes that revert them, and the selection before and after. A
// transaction with several changes (for example a multi-cursor edit) undoes
// as a single unit.
//
// # Annotations
//
// Transactions may carry these annotations:
//   - ID: the entry id; a random UUID is assigned when absent
//   - Skip: when true the transaction is not recorded
//   - Origin: set by History on the transactions it creates ("undo" or "redo")
//
// History is safe for concurrent use.
package history
