package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var _ repository.BaseRepository = (*BaseRepo)(nil)

// BaseRepo bases sobre SQLite.
type BaseRepo struct {
	q querier
}

// Create inserta una base.
func (r *BaseRepo) Create(ctx context.Context, b *entity.Base) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO bases (id, name, location, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, b.Location, b.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert base", err)
}

// GetByID devuelve (nil, nil) si no existe.
func (r *BaseRepo) GetByID(ctx context.Context, id string) (*entity.Base, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, name, location, created_at FROM bases WHERE id = ?`, id)
	b, err := scanBase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get base", err)
	}
	return b, nil
}

// List lista las bases por nombre.
func (r *BaseRepo) List(ctx context.Context) ([]*entity.Base, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, location, created_at FROM bases ORDER BY name, id`)
	if err != nil {
		return nil, classify("list bases", err)
	}
	defer rows.Close()

	var list []*entity.Base
	for rows.Next() {
		b, err := scanBase(rows)
		if err != nil {
			return nil, classify("scan base", err)
		}
		list = append(list, b)
	}
	return list, classify("list bases", rows.Err())
}

func scanBase(row interface{ Scan(...any) error }) (*entity.Base, error) {
	var (
		b         entity.Base
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.Name, &b.Location, &createdAt); err != nil {
		return nil, err
	}
	var err error
	b.CreatedAt, err = parseTimestamp(createdAt)
	return &b, err
}
