package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var (
	_ ledger.TxRunner         = (*Store)(nil)
	_ repository.LedgerReader = (*Store)(nil)
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// querier abstrae *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store agrupa los repositorios SQLite y las transacciones de lectura y escritura.
type Store struct {
	db *sql.DB
}

// NewStore construye el store sobre una base ya abierta.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB devuelve la conexión subyacente.
func (s *Store) DB() *sql.DB { return s.db }

// Bases repositorio de bases fuera de transacción.
func (s *Store) Bases() *BaseRepo { return &BaseRepo{q: s.db} }

// EquipmentTypes repositorio de tipos de equipo fuera de transacción.
func (s *Store) EquipmentTypes() *EquipmentTypeRepo { return &EquipmentTypeRepo{q: s.db} }

// Run ejecuta fn en una transacción con repos atados a ella; Commit si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerWriter,
	baseRepo repository.BaseRepository,
	equipmentRepo repository.EquipmentTypeRepository,
) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&LedgerRepo{q: tx}, &BaseRepo{q: tx}, &EquipmentTypeRepo{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return classify("commit transaction", err)
	}
	return nil
}

// ReadSnapshot ejecuta fn dentro de una transacción: SQLite garantiza que todas sus lecturas
// ven el mismo estado.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(snap repository.LedgerSnapshot) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("begin snapshot", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&LedgerRepo{q: tx}); err != nil {
		return err
	}
	return classify("commit snapshot", tx.Commit())
}

// classify marca bloqueos y duplicados con los sentinels del dominio.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
		}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func formatDate(t time.Time) string { return t.Format(dateLayout) }

func parseDate(s string) (time.Time, error) { return time.Parse(dateLayout, s) }

func parseTimestamp(s string) (time.Time, error) { return time.Parse(timestampLayout, s) }
