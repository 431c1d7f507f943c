package repository

import (
	"context"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// BaseRepository define el puerto de persistencia para Base (DIP).
// GetByID devuelve (nil, nil) si no existe.
type BaseRepository interface {
	Create(ctx context.Context, base *entity.Base) error
	GetByID(ctx context.Context, id string) (*entity.Base, error)
	List(ctx context.Context) ([]*entity.Base, error)
}
