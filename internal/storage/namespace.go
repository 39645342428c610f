package storage

// Namespace scopes a DB to keys under a fixed prefix, so several caches
// can share one store.
type Namespace struct {
	db     DB
	prefix []byte
}

// NewNamespace returns a view of db limited to keys starting with prefix.
func NewNamespace(db DB, prefix string) *Namespace {
	return &Namespace{db: db, prefix: []byte(prefix)}
}

func (n *Namespace) key(k string) []byte {
	return append(append(make([]byte, 0, len(n.prefix)+len(k)), n.prefix...), k...)
}

// Get reads k within the namespace.
func (n *Namespace) Get(k string) ([]byte, error) {
	return n.db.Get(n.key(k))
}

// Put writes k within the namespace.
func (n *Namespace) Put(k string, value []byte) error {
	return n.db.Put(n.key(k), value)
}

// Len counts the keys in the namespace.
func (n *Namespace) Len() (int, error) {
	return n.db.Count(n.prefix)
}

// Clear removes every key in the namespace and leaves the rest of the
// store untouched.
func (n *Namespace) Clear() error {
	return n.db.DropPrefix(n.prefix)
}
