package sqlite

import "testing"

// NewTestStore crea un Store sobre una base SQLite en memoria con el esquema aplicado.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}
