package sqlite

import (
	"database/sql"
	"fmt"
)

// schema esquema completo. Cantidades como TEXT decimal exacto, fechas como 'YYYY-MM-DD'
// y timestamps RFC3339; las comparaciones de rango son lexicográficas.
const schema = `
CREATE TABLE IF NOT EXISTS bases (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL UNIQUE,
    location   TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equipment_types (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL UNIQUE,
    category    TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS purchases (
    id                TEXT PRIMARY KEY,
    base_id           TEXT NOT NULL REFERENCES bases(id),
    equipment_type_id TEXT NOT NULL REFERENCES equipment_types(id),
    quantity          TEXT NOT NULL,
    supplier          TEXT NOT NULL DEFAULT '',
    purchase_date     TEXT NOT NULL,
    created_by        TEXT NOT NULL,
    created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transfers (
    id                TEXT PRIMARY KEY,
    from_base_id      TEXT NOT NULL REFERENCES bases(id),
    to_base_id        TEXT NOT NULL REFERENCES bases(id),
    equipment_type_id TEXT NOT NULL REFERENCES equipment_types(id),
    quantity          TEXT NOT NULL,
    status            TEXT NOT NULL DEFAULT 'pending'
                      CHECK (status IN ('pending', 'in_transit', 'completed', 'cancelled')),
    transfer_date     TEXT NOT NULL,
    created_by        TEXT NOT NULL,
    created_at        TEXT NOT NULL,
    CHECK (from_base_id <> to_base_id)
);

CREATE TABLE IF NOT EXISTS assignments (
    id                TEXT PRIMARY KEY,
    base_id           TEXT NOT NULL REFERENCES bases(id),
    equipment_type_id TEXT NOT NULL REFERENCES equipment_types(id),
    personnel_name    TEXT NOT NULL,
    personnel_id      TEXT NOT NULL DEFAULT '',
    assigned_quantity TEXT NOT NULL,
    returned_quantity TEXT NOT NULL DEFAULT '0',
    assignment_date   TEXT NOT NULL,
    return_date       TEXT,
    created_by        TEXT NOT NULL,
    created_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS expenditures (
    id                TEXT PRIMARY KEY,
    base_id           TEXT NOT NULL REFERENCES bases(id),
    equipment_type_id TEXT NOT NULL REFERENCES equipment_types(id),
    quantity          TEXT NOT NULL,
    reason            TEXT NOT NULL,
    expenditure_date  TEXT NOT NULL,
    created_by        TEXT NOT NULL,
    created_at        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_purchases_base_date ON purchases(base_id, purchase_date);
CREATE INDEX IF NOT EXISTS idx_transfers_from_date ON transfers(from_base_id, transfer_date);
CREATE INDEX IF NOT EXISTS idx_transfers_to_date ON transfers(to_base_id, transfer_date);
CREATE INDEX IF NOT EXISTS idx_assignments_base_date ON assignments(base_id, assignment_date);
CREATE INDEX IF NOT EXISTS idx_expenditures_base_date ON expenditures(base_id, expenditure_date);
`

// EnsureSchema crea las tablas si no existen.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
