package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

// EquipmentTypeUseCase casos de uso para tipos de equipo.
type EquipmentTypeUseCase struct {
	repo repository.EquipmentTypeRepository
}

// NewEquipmentTypeUseCase construye el caso de uso.
func NewEquipmentTypeUseCase(repo repository.EquipmentTypeRepository) *EquipmentTypeUseCase {
	return &EquipmentTypeUseCase{repo: repo}
}

// Create crea un tipo de equipo. El nombre es único.
func (uc *EquipmentTypeUseCase) Create(ctx context.Context, in dto.CreateEquipmentTypeRequest) (*dto.EquipmentTypeResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	et := &entity.EquipmentType{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, et); err != nil {
		return nil, wrapReferenceError("equipment_type.create", err)
	}
	return toEquipmentTypeResponse(et), nil
}

// List lista todos los tipos de equipo ordenados por nombre.
func (uc *EquipmentTypeUseCase) List(ctx context.Context) ([]dto.EquipmentTypeResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.WrapStorage("equipment_type.list", err)
	}
	items := make([]dto.EquipmentTypeResponse, 0, len(list))
	for _, et := range list {
		items = append(items, *toEquipmentTypeResponse(et))
	}
	return items, nil
}

func toEquipmentTypeResponse(et *entity.EquipmentType) *dto.EquipmentTypeResponse {
	return &dto.EquipmentTypeResponse{
		ID:          et.ID,
		Name:        et.Name,
		Category:    et.Category,
		Description: et.Description,
		CreatedAt:   et.CreatedAt,
	}
}
