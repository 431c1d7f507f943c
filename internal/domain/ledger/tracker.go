package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// ExpenditureMode define qué se considera "gastado".
type ExpenditureMode string

const (
	// ExpenditureFromRecords gastado = registros Expenditure; es una salida adicional del balance.
	ExpenditureFromRecords ExpenditureMode = "records"
	// ExpenditureFromAssignments gastado = cantidad pendiente de las asignaciones; ya salió
	// del balance al asignarse, así que no agrega movimiento.
	ExpenditureFromAssignments ExpenditureMode = "assignments"
)

// ParseExpenditureMode interpreta el modo configurado; vacío = ExpenditureFromRecords.
func ParseExpenditureMode(s string) (ExpenditureMode, error) {
	switch ExpenditureMode(s) {
	case "", ExpenditureFromRecords:
		return ExpenditureFromRecords, nil
	case ExpenditureFromAssignments:
		return ExpenditureFromAssignments, nil
	}
	return "", fmt.Errorf("modo de gasto desconocido %q", s)
}

// AssignmentTotals totales de asignaciones del alcance.
// ExpendedDelta es la parte de Expended que resta del movimiento neto.
type AssignmentTotals struct {
	Assigned      decimal.Decimal
	Returned      decimal.Decimal
	Outstanding   decimal.Decimal
	Expended      decimal.Decimal
	ExpendedDelta decimal.Decimal

	AssignedByEquipment []EquipmentTotal
	ExpendedByEquipment []EquipmentTotal
	DeltaByEquipment    []EquipmentTotal
}

// TrackAssignments suma asignaciones (por fecha de asignación) y gastos del alcance.
// Una asignación con devuelto negativo o mayor que lo asignado es estado corrupto.
func TrackAssignments(records []entity.Record, scope Scope, mode ExpenditureMode) (AssignmentTotals, error) {
	assigned, expended := tally{}, tally{}
	returned := decimal.Zero
	for _, rec := range records {
		h := rec.Header()
		if !scope.matches(h) {
			continue
		}
		switch r := rec.(type) {
		case *entity.Assignment:
			if !scope.coversBase(r.BaseID) {
				continue
			}
			if r.Returned.IsNegative() || r.Returned.GreaterThan(r.Quantity) {
				return AssignmentTotals{}, &domain.ConsistencyError{
					Subject: "assignment " + r.ID,
					Detail:  fmt.Sprintf("devuelto %s fuera de [0, %s]", r.Returned, r.Quantity),
				}
			}
			assigned.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
			returned = returned.Add(r.Returned)
			if mode == ExpenditureFromAssignments {
				expended.add(h.EquipmentTypeID, h.EquipmentTypeName, r.Outstanding())
			}
		case *entity.Expenditure:
			if mode == ExpenditureFromRecords && scope.coversBase(r.BaseID) {
				expended.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
			}
		case *entity.Purchase, *entity.Transfer:
			// Aggregate
		}
	}

	t := AssignmentTotals{
		AssignedByEquipment: assigned.sorted(),
		ExpendedByEquipment: expended.sorted(),
		Returned:            returned,
	}
	t.Assigned = sumTotals(t.AssignedByEquipment)
	t.Expended = sumTotals(t.ExpendedByEquipment)
	t.Outstanding = t.Assigned.Sub(t.Returned)
	if t.Outstanding.IsNegative() {
		return AssignmentTotals{}, &domain.ConsistencyError{
			Subject: "assignments " + scope.Key(),
			Detail:  "cantidad pendiente negativa: " + t.Outstanding.String(),
		}
	}
	if mode == ExpenditureFromRecords {
		t.ExpendedDelta = t.Expended
		t.DeltaByEquipment = t.ExpendedByEquipment
	} else {
		t.ExpendedDelta = decimal.Zero
	}
	return t, nil
}
