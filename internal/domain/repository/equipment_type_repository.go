package repository

import (
	"context"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// EquipmentTypeRepository define el puerto de persistencia para EquipmentType.
type EquipmentTypeRepository interface {
	Create(ctx context.Context, et *entity.EquipmentType) error
	GetByID(ctx context.Context, id string) (*entity.EquipmentType, error)
	List(ctx context.Context) ([]*entity.EquipmentType, error)
}
