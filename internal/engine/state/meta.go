package state

// MetaKey names a transaction annotation whose values have type T.
// Annotations are stored per key name; the last Set for a name wins.
type MetaKey[T any] struct {
	name string
}

// NewMetaKey creates a key for annotations named name.
func NewMetaKey[T any](name string) MetaKey[T] {
	return MetaKey[T]{name: name}
}

// Name returns the annotation name.
func (k MetaKey[T]) Name() string {
	return k.name
}

// Set stores value on tx and returns tx for chaining.
func (k MetaKey[T]) Set(tx *Transaction, value T) *Transaction {
	if tx.meta == nil {
		tx.meta = make(map[string]any)
	}
	tx.meta[k.name] = value
	return tx
}

// Get returns the value stored on tx. The boolean is false if no value was
// set under this name or the stored value has a different type.
func (k MetaKey[T]) Get(tx *Transaction) (T, bool) {
	v, ok := tx.meta[k.name].(T)
	return v, ok
}

// Delete removes the annotation from tx.
func (k MetaKey[T]) Delete(tx *Transaction) *Transaction {
	delete(tx.meta, k.name)
	return tx
}

// MetaNames returns the names of all annotations set on the transaction.
func (tx *Transaction) MetaNames() []string {
	names := make([]string, 0, len(tx.meta))
	for name := range tx.meta {
		names = append(names, name)
	}
	return names
}
