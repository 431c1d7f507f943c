package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
)

// ListUseCase listados paginados de registros del libro mayor, filtrados por el mismo
// alcance efectivo que las estadísticas (incluye transferencias en cualquier estado).
type ListUseCase struct {
	reader   repository.LedgerReader
	resolver *domainledger.Resolver
	now      func() time.Time
}

// NewListUseCase construye el caso de uso.
func NewListUseCase(reader repository.LedgerReader, resolver *domainledger.Resolver) *ListUseCase {
	return &ListUseCase{reader: reader, resolver: resolver, now: time.Now}
}

// List devuelve registros de kind, más recientes primero.
func (uc *ListUseCase) List(ctx context.Context, caller entity.Caller, kind entity.RecordKind, req dto.ListRecordsRequest) (*dto.RecordListResponse, error) {
	if !kind.IsValid() {
		return nil, domain.NewValidationError(domain.ReasonInvalidField, "kind", "tipo de registro desconocido: "+string(kind))
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Status != "" && kind != entity.KindTransfer {
		return nil, domain.NewValidationError(domain.ReasonInvalidField, "status", "status solo aplica a transferencias")
	}
	raw, err := rawScope(req.Filters())
	if err != nil {
		return nil, err
	}
	scope, err := uc.resolver.Resolve(raw, caller, uc.now())
	if err != nil {
		return nil, err
	}

	page := req.Page()
	until := scope.Range.Until
	filter := repository.RecordFilter{
		BaseID:          scope.BaseID,
		EquipmentTypeID: scope.EquipmentTypeID,
		From:            scope.Range.From,
		Until:           &until,
		Kinds:           []entity.RecordKind{kind},
		TransferStatus:  req.Status,
		Limit:           page.Limit,
		Offset:          page.Offset,
	}

	var records []entity.Record
	err = uc.reader.ReadSnapshot(ctx, func(snap repository.LedgerSnapshot) error {
		var err error
		records, err = snap.ListRecords(ctx, filter)
		return err
	})
	if err != nil {
		return nil, domain.WrapStorage("ledger.list", err)
	}

	items := make([]dto.RecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toRecordResponse(rec))
	}
	return &dto.RecordListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
