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

// BaseUseCase casos de uso para bases (datos de referencia, nunca se eliminan).
type BaseUseCase struct {
	repo repository.BaseRepository
}

// NewBaseUseCase construye el caso de uso.
func NewBaseUseCase(repo repository.BaseRepository) *BaseUseCase {
	return &BaseUseCase{repo: repo}
}

// Create crea una nueva base.
func (uc *BaseUseCase) Create(ctx context.Context, in dto.CreateBaseRequest) (*dto.BaseResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	base := &entity.Base{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Location:  in.Location,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, base); err != nil {
		return nil, wrapReferenceError("base.create", err)
	}
	return toBaseResponse(base), nil
}

// GetByID obtiene una base por ID.
func (uc *BaseUseCase) GetByID(ctx context.Context, id string) (*dto.BaseResponse, error) {
	base, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStorage("base.get", err)
	}
	if base == nil {
		return nil, domain.ErrNotFound
	}
	return toBaseResponse(base), nil
}

// List lista todas las bases ordenadas por nombre.
func (uc *BaseUseCase) List(ctx context.Context) ([]dto.BaseResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, domain.WrapStorage("base.list", err)
	}
	items := make([]dto.BaseResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBaseResponse(b))
	}
	return items, nil
}

func toBaseResponse(b *entity.Base) *dto.BaseResponse {
	if b == nil {
		return nil
	}
	return &dto.BaseResponse{
		ID:        b.ID,
		Name:      b.Name,
		Location:  b.Location,
		CreatedAt: b.CreatedAt,
	}
}
