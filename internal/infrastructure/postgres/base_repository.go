package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var _ repository.BaseRepository = (*BaseRepo)(nil)

// BaseRepo implementación del puerto BaseRepository sobre PostgreSQL (pool o tx).
type BaseRepo struct {
	q Querier
}

// NewBaseRepository construye el adaptador de persistencia para bases.
func NewBaseRepository(q Querier) *BaseRepo {
	return &BaseRepo{q: q}
}

// Create persiste una nueva base.
func (r *BaseRepo) Create(ctx context.Context, base *entity.Base) error {
	query := `
		INSERT INTO bases (id, name, location, created_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, base.ID, base.Name, base.Location, base.CreatedAt)
	return classify("insert base", err)
}

// GetByID obtiene una base por ID.
func (r *BaseRepo) GetByID(ctx context.Context, id string) (*entity.Base, error) {
	query := `SELECT id, name, location, created_at FROM bases WHERE id = $1`
	var b entity.Base
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Location, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get base", err)
	}
	return &b, nil
}

// List lista las bases ordenadas por nombre.
func (r *BaseRepo) List(ctx context.Context) ([]*entity.Base, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, location, created_at FROM bases ORDER BY name, id`)
	if err != nil {
		return nil, classify("list bases", err)
	}
	defer rows.Close()
	var list []*entity.Base
	for rows.Next() {
		var b entity.Base
		if err := rows.Scan(&b.ID, &b.Name, &b.Location, &b.CreatedAt); err != nil {
			return nil, classify("scan base", err)
		}
		list = append(list, &b)
	}
	return list, classify("list bases", rows.Err())
}
