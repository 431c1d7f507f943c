package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

var _ repository.EquipmentTypeRepository = (*EquipmentTypeRepo)(nil)

// EquipmentTypeRepo tipos de equipo sobre SQLite.
type EquipmentTypeRepo struct {
	q querier
}

// Create inserta un tipo de equipo.
func (r *EquipmentTypeRepo) Create(ctx context.Context, et *entity.EquipmentType) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO equipment_types (id, name, category, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		et.ID, et.Name, et.Category, et.Description, et.CreatedAt.UTC().Format(timestampLayout),
	)
	return classify("insert equipment type", err)
}

// GetByID devuelve (nil, nil) si no existe.
func (r *EquipmentTypeRepo) GetByID(ctx context.Context, id string) (*entity.EquipmentType, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT id, name, category, description, created_at FROM equipment_types WHERE id = ?`, id)
	et, err := scanEquipmentType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("get equipment type", err)
	}
	return et, nil
}

// List lista los tipos de equipo por nombre.
func (r *EquipmentTypeRepo) List(ctx context.Context) ([]*entity.EquipmentType, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, name, category, description, created_at FROM equipment_types ORDER BY name, id`)
	if err != nil {
		return nil, classify("list equipment types", err)
	}
	defer rows.Close()

	var list []*entity.EquipmentType
	for rows.Next() {
		et, err := scanEquipmentType(rows)
		if err != nil {
			return nil, classify("scan equipment type", err)
		}
		list = append(list, et)
	}
	return list, classify("list equipment types", rows.Err())
}

func scanEquipmentType(row interface{ Scan(...any) error }) (*entity.EquipmentType, error) {
	var (
		et        entity.EquipmentType
		createdAt string
	)
	if err := row.Scan(&et.ID, &et.Name, &et.Category, &et.Description, &createdAt); err != nil {
		return nil, err
	}
	var err error
	et.CreatedAt, err = parseTimestamp(createdAt)
	return &et, err
}
