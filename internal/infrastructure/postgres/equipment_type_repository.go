package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var _ repository.EquipmentTypeRepository = (*EquipmentTypeRepo)(nil)

// EquipmentTypeRepo implementación del puerto EquipmentTypeRepository sobre PostgreSQL.
type EquipmentTypeRepo struct {
	q Querier
}

// NewEquipmentTypeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentTypeRepository(q Querier) *EquipmentTypeRepo {
	return &EquipmentTypeRepo{q: q}
}

// Create persiste un tipo de equipo.
func (r *EquipmentTypeRepo) Create(ctx context.Context, et *entity.EquipmentType) error {
	query := `
		INSERT INTO equipment_types (id, name, category, description, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, et.ID, et.Name, et.Category, et.Description, et.CreatedAt)
	return classify("insert equipment type", err)
}

// GetByID obtiene un tipo de equipo por ID.
func (r *EquipmentTypeRepo) GetByID(ctx context.Context, id string) (*entity.EquipmentType, error) {
	query := `SELECT id, name, category, description, created_at FROM equipment_types WHERE id = $1`
	var et entity.EquipmentType
	err := r.q.QueryRow(ctx, query, id).Scan(&et.ID, &et.Name, &et.Category, &et.Description, &et.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify("get equipment type", err)
	}
	return &et, nil
}

// List lista los tipos de equipo ordenados por nombre.
func (r *EquipmentTypeRepo) List(ctx context.Context) ([]*entity.EquipmentType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, category, description, created_at FROM equipment_types ORDER BY name, id`)
	if err != nil {
		return nil, classify("list equipment types", err)
	}
	defer rows.Close()
	var list []*entity.EquipmentType
	for rows.Next() {
		var et entity.EquipmentType
		if err := rows.Scan(&et.ID, &et.Name, &et.Category, &et.Description, &et.CreatedAt); err != nil {
			return nil, classify("scan equipment type", err)
		}
		list = append(list, &et)
	}
	return list, classify("list equipment types", rows.Err())
}
