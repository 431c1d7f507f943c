package ledger

import (
	"time"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// RawScope filtros tal como llegan del caller, sin validar.
type RawScope struct {
	BaseID          string
	EquipmentTypeID string
	StartDate       *time.Time
	EndDate         *time.Time
}

// Resolver única autoridad de visibilidad: traduce RawScope + Caller en Scope.
type Resolver struct {
	loc *time.Location
}

// NewResolver construye el resolver. loc define el "hoy" que cierra rangos abiertos.
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{loc: loc}
}

// Resolve valida el rol, fuerza la base del caller cuando no es admin y valida el rango.
// now es el único reloj: con el mismo now y los mismos datos el resultado es idéntico.
func (r *Resolver) Resolve(raw RawScope, caller entity.Caller, now time.Time) (Scope, error) {
	baseID, err := r.permittedBase(raw.BaseID, caller)
	if err != nil {
		return Scope{}, err
	}

	var from *time.Time
	if raw.StartDate != nil {
		d := entity.Day(*raw.StartDate)
		from = &d
	}
	until := r.Today(now).AddDate(0, 0, 1)
	if raw.EndDate != nil {
		end := entity.Day(*raw.EndDate)
		if from != nil && from.After(end) {
			return Scope{}, domain.NewValidationError(domain.ReasonInvalidRange, "start_date", "start_date es posterior a end_date")
		}
		until = end.AddDate(0, 0, 1)
	} else if from != nil && !from.Before(until) {
		return Scope{}, domain.NewValidationError(domain.ReasonInvalidRange, "start_date", "start_date es posterior a hoy")
	}

	return Scope{
		BaseID:          baseID,
		EquipmentTypeID: raw.EquipmentTypeID,
		Range:           DateRange{From: from, Until: until},
	}, nil
}

// Today día calendario de now en la zona del resolver.
func (r *Resolver) Today(now time.Time) time.Time {
	return entity.Day(now.In(r.loc))
}

func (r *Resolver) permittedBase(requested string, caller entity.Caller) (string, error) {
	if !entity.IsKnownRole(caller.Role) {
		return "", domain.NewAccessError(domain.ReasonUnknownRole, "rol desconocido: "+caller.Role)
	}
	if caller.IsAdmin() {
		return requested, nil
	}
	if caller.BaseID == "" {
		return "", domain.NewAccessError(domain.ReasonNoAssignedBase, "el usuario no tiene base asignada")
	}
	if requested != "" && requested != caller.BaseID {
		return "", domain.NewAccessError(domain.ReasonForbiddenScope, "la base solicitada está fuera del alcance del usuario")
	}
	return caller.BaseID, nil
}

// WriteOp operación de escritura sujeta a autorización.
type WriteOp string

// Operaciones de escritura.
const (
	OpPurchase       WriteOp = "purchase"
	OpTransfer       WriteOp = "transfer"
	OpTransferStatus WriteOp = "transfer_status"
	OpAssignment     WriteOp = "assignment"
	OpReturn         WriteOp = "return"
	OpExpenditure    WriteOp = "expenditure"
)

// AuthorizeWrite verifica que el caller pueda ejecutar op sobre alguna de baseIDs
// (para transferencias basta con origen o destino).
func AuthorizeWrite(caller entity.Caller, op WriteOp, baseIDs ...string) error {
	if !entity.IsKnownRole(caller.Role) {
		return domain.NewAccessError(domain.ReasonUnknownRole, "rol desconocido: "+caller.Role)
	}
	switch op {
	case OpAssignment, OpReturn, OpExpenditure:
		if !caller.CanModifyAssignments() {
			return domain.NewAccessError(domain.ReasonForbiddenOperation, "el rol "+caller.Role+" no puede registrar "+string(op))
		}
	}
	if caller.IsAdmin() {
		return nil
	}
	if caller.BaseID == "" {
		return domain.NewAccessError(domain.ReasonNoAssignedBase, "el usuario no tiene base asignada")
	}
	for _, id := range baseIDs {
		if id == caller.BaseID {
			return nil
		}
	}
	return domain.NewAccessError(domain.ReasonForbiddenScope, "la base está fuera del alcance del usuario")
}
