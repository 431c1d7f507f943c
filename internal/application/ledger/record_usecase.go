package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

// RecordUseCase único punto de escritura del libro mayor. Cada operación valida la entrada,
// autoriza al caller y aplica el cambio en una sola transacción.
type RecordUseCase struct {
	txRunner TxRunner
	resolver *domainledger.Resolver
	cache    StatsCache
	log      *logger.Logger
	now      func() time.Time
}

// NewRecordUseCase construye el caso de uso. cache puede ser nil.
func NewRecordUseCase(txRunner TxRunner, resolver *domainledger.Resolver, cache StatsCache, log *logger.Logger) *RecordUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordUseCase{
		txRunner: txRunner,
		resolver: resolver,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para fechas por defecto y created_at.
func (uc *RecordUseCase) WithClock(now func() time.Time) *RecordUseCase {
	uc.now = now
	return uc
}

// RecordPurchase registra una compra.
func (uc *RecordUseCase) RecordPurchase(ctx context.Context, caller entity.Caller, in dto.CreatePurchaseRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requirePositive(in.Quantity, "quantity"); err != nil {
		return nil, err
	}
	date, err := uc.dateOrToday(in.PurchaseDate, "purchase_date")
	if err != nil {
		return nil, err
	}
	if err := domainledger.AuthorizeWrite(caller, domainledger.OpPurchase, in.BaseID); err != nil {
		return nil, err
	}

	p := &entity.Purchase{
		RecordHeader: uc.header(caller, in.EquipmentTypeID, date),
		BaseID:       in.BaseID,
		Supplier:     in.Supplier,
	}
	p.Quantity = in.Quantity
	err = uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, baseRepo repository.BaseRepository, equipmentRepo repository.EquipmentTypeRepository) error {
		if err := requireBase(ctx, baseRepo, "base_id", in.BaseID); err != nil {
			return err
		}
		if err := fillEquipment(ctx, equipmentRepo, &p.RecordHeader); err != nil {
			return err
		}
		return ledgerRepo.CreatePurchase(ctx, p)
	})
	if err != nil {
		return nil, domain.WrapStorage("purchase.create", err)
	}
	uc.committed(ctx, p, p.BaseID, caller)
	out := toRecordResponse(p)
	return &out, nil
}

// RecordTransfer registra una transferencia entre dos bases distintas. Estado inicial por defecto: pending.
func (uc *RecordUseCase) RecordTransfer(ctx context.Context, caller entity.Caller, in dto.CreateTransferRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requirePositive(in.Quantity, "quantity"); err != nil {
		return nil, err
	}
	if in.FromBaseID == in.ToBaseID {
		return nil, domain.NewValidationError(domain.ReasonSelfTransfer, "to_base_id", "la base destino debe ser distinta de la base origen")
	}
	date, err := uc.dateOrToday(in.TransferDate, "transfer_date")
	if err != nil {
		return nil, err
	}
	if err := domainledger.AuthorizeWrite(caller, domainledger.OpTransfer, in.FromBaseID, in.ToBaseID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = entity.TransferPending
	}
	t := &entity.Transfer{
		RecordHeader: uc.header(caller, in.EquipmentTypeID, date),
		FromBaseID:   in.FromBaseID,
		ToBaseID:     in.ToBaseID,
		Status:       status,
	}
	t.Quantity = in.Quantity
	err = uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, baseRepo repository.BaseRepository, equipmentRepo repository.EquipmentTypeRepository) error {
		if err := requireBase(ctx, baseRepo, "from_base_id", in.FromBaseID); err != nil {
			return err
		}
		if err := requireBase(ctx, baseRepo, "to_base_id", in.ToBaseID); err != nil {
			return err
		}
		if err := fillEquipment(ctx, equipmentRepo, &t.RecordHeader); err != nil {
			return err
		}
		return ledgerRepo.CreateTransfer(ctx, t)
	})
	if err != nil {
		return nil, domain.WrapStorage("transfer.create", err)
	}
	uc.committed(ctx, t, t.FromBaseID, caller)
	out := toRecordResponse(t)
	return &out, nil
}

// UpdateTransferStatus avanza el estado de una transferencia. El cambio se aplica con un UPDATE
// condicionado al estado leído, así ambas bases observan la completitud en el mismo commit.
func (uc *RecordUseCase) UpdateTransferStatus(ctx context.Context, caller entity.Caller, id string, in dto.UpdateTransferStatusRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	var t *entity.Transfer
	err := uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, _ repository.BaseRepository, _ repository.EquipmentTypeRepository) error {
		var err error
		t, err = ledgerRepo.GetTransfer(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
		}
		if err := domainledger.AuthorizeWrite(caller, domainledger.OpTransferStatus, t.FromBaseID, t.ToBaseID); err != nil {
			return err
		}
		if !entity.CanTransition(t.Status, in.Status) {
			return domain.NewValidationError(domain.ReasonInvalidTransition, "status",
				fmt.Sprintf("transición %s -> %s no permitida", t.Status, in.Status))
		}
		ok, err := ledgerRepo.UpdateTransferStatus(ctx, id, []string{t.Status}, in.Status)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("transfer %s cambió de estado concurrentemente: %w", id, domain.ErrConflict)
		}
		t.Status = in.Status
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage("transfer.status", err)
	}
	uc.committed(ctx, t, t.FromBaseID, caller)
	out := toRecordResponse(t)
	return &out, nil
}

// RecordAssignment registra una asignación de equipo a personal.
func (uc *RecordUseCase) RecordAssignment(ctx context.Context, caller entity.Caller, in dto.CreateAssignmentRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requirePositive(in.Quantity, "assigned_quantity"); err != nil {
		return nil, err
	}
	date, err := uc.dateOrToday(in.AssignmentDate, "assignment_date")
	if err != nil {
		return nil, err
	}
	if err := domainledger.AuthorizeWrite(caller, domainledger.OpAssignment, in.BaseID); err != nil {
		return nil, err
	}

	a := &entity.Assignment{
		RecordHeader:  uc.header(caller, in.EquipmentTypeID, date),
		BaseID:        in.BaseID,
		PersonnelName: in.PersonnelName,
		PersonnelID:   in.PersonnelID,
	}
	a.Quantity = in.Quantity
	err = uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, baseRepo repository.BaseRepository, equipmentRepo repository.EquipmentTypeRepository) error {
		if err := requireBase(ctx, baseRepo, "base_id", in.BaseID); err != nil {
			return err
		}
		if err := fillEquipment(ctx, equipmentRepo, &a.RecordHeader); err != nil {
			return err
		}
		return ledgerRepo.CreateAssignment(ctx, a)
	})
	if err != nil {
		return nil, domain.WrapStorage("assignment.create", err)
	}
	uc.committed(ctx, a, a.BaseID, caller)
	out := toRecordResponse(a)
	return &out, nil
}

// RecordReturn suma una devolución a la asignación. El UPDATE está condicionado a
// returned + qty <= assigned, de modo que la cantidad pendiente nunca es negativa.
func (uc *RecordUseCase) RecordReturn(ctx context.Context, caller entity.Caller, assignmentID string, in dto.RecordReturnRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requirePositive(in.Quantity, "quantity"); err != nil {
		return nil, err
	}
	date, err := uc.dateOrToday(in.ReturnDate, "return_date")
	if err != nil {
		return nil, err
	}

	var a *entity.Assignment
	err = uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, _ repository.BaseRepository, _ repository.EquipmentTypeRepository) error {
		var err error
		a, err = ledgerRepo.GetAssignment(ctx, assignmentID)
		if err != nil {
			return err
		}
		if a == nil {
			return fmt.Errorf("assignment %s: %w", assignmentID, domain.ErrNotFound)
		}
		if err := domainledger.AuthorizeWrite(caller, domainledger.OpReturn, a.BaseID); err != nil {
			return err
		}
		if date.Before(a.Date) {
			return domain.NewValidationError(domain.ReasonInvalidDate, "return_date", "la devolución es anterior a la asignación")
		}
		exceeds := domain.NewValidationError(domain.ReasonReturnExceedsAssigned, "quantity",
			fmt.Sprintf("pendiente %s, devolución %s", a.Outstanding(), in.Quantity))
		if in.Quantity.GreaterThan(a.Outstanding()) {
			return exceeds
		}
		ok, err := ledgerRepo.AddReturn(ctx, assignmentID, in.Quantity, date)
		if err != nil {
			return err
		}
		if !ok {
			return exceeds
		}
		a.Returned = a.Returned.Add(in.Quantity)
		a.ReturnDate = &date
		return nil
	})
	if err != nil {
		return nil, domain.WrapStorage("assignment.return", err)
	}
	uc.committed(ctx, a, a.BaseID, caller)
	out := toRecordResponse(a)
	return &out, nil
}

// RecordExpenditure registra un gasto (consumo, pérdida) que sale del inventario de la base.
func (uc *RecordUseCase) RecordExpenditure(ctx context.Context, caller entity.Caller, in dto.CreateExpenditureRequest) (*dto.RecordResponse, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if err := requirePositive(in.Quantity, "quantity"); err != nil {
		return nil, err
	}
	date, err := uc.dateOrToday(in.ExpenditureDate, "expenditure_date")
	if err != nil {
		return nil, err
	}
	if err := domainledger.AuthorizeWrite(caller, domainledger.OpExpenditure, in.BaseID); err != nil {
		return nil, err
	}

	e := &entity.Expenditure{
		RecordHeader: uc.header(caller, in.EquipmentTypeID, date),
		BaseID:       in.BaseID,
		Reason:       in.Reason,
	}
	e.Quantity = in.Quantity
	err = uc.txRunner.Run(ctx, func(ledgerRepo repository.LedgerWriter, baseRepo repository.BaseRepository, equipmentRepo repository.EquipmentTypeRepository) error {
		if err := requireBase(ctx, baseRepo, "base_id", in.BaseID); err != nil {
			return err
		}
		if err := fillEquipment(ctx, equipmentRepo, &e.RecordHeader); err != nil {
			return err
		}
		return ledgerRepo.CreateExpenditure(ctx, e)
	})
	if err != nil {
		return nil, domain.WrapStorage("expenditure.create", err)
	}
	uc.committed(ctx, e, e.BaseID, caller)
	out := toRecordResponse(e)
	return &out, nil
}

func (uc *RecordUseCase) header(caller entity.Caller, equipmentTypeID string, date time.Time) entity.RecordHeader {
	return entity.RecordHeader{
		ID:              uuid.New().String(),
		EquipmentTypeID: equipmentTypeID,
		Date:            date,
		CreatedBy:       caller.UserID,
		CreatedAt:       uc.now().UTC(),
	}
}

func (uc *RecordUseCase) dateOrToday(s, field string) (time.Time, error) {
	d, err := parseDate(s, field)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return uc.resolver.Today(uc.now()), nil
	}
	return entity.Day(*d), nil
}

// committed invalida el cache de estadísticas y deja traza de la escritura.
// Si Bump falla la cache se salta hasta el siguiente Bump exitoso.
func (uc *RecordUseCase) committed(ctx context.Context, rec entity.Record, baseID string, caller entity.Caller) {
	writeEpoch.Add(1)
	if uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			uc.log.Warn().Err(err).Msg("no se pudo invalidar el cache de estadísticas; se lee sin cache")
		}
	}
	uc.log.Info().
		Str("kind", string(rec.Kind())).
		Str("id", rec.Header().ID).
		Str("base_id", baseID).
		Str("actor", caller.UserID).
		Str("quantity", rec.Header().Quantity.String()).
		Msg("registro del libro mayor")
}

func requireBase(ctx context.Context, repo repository.BaseRepository, field, id string) error {
	b, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return domain.NewValidationError(domain.ReasonUnknownReference, field, "base inexistente: "+id)
	}
	return nil
}

func fillEquipment(ctx context.Context, repo repository.EquipmentTypeRepository, h *entity.RecordHeader) error {
	et, err := repo.GetByID(ctx, h.EquipmentTypeID)
	if err != nil {
		return err
	}
	if et == nil {
		return domain.NewValidationError(domain.ReasonUnknownReference, "equipment_type_id", "tipo de equipo inexistente: "+h.EquipmentTypeID)
	}
	h.EquipmentTypeName = et.Name
	return nil
}
