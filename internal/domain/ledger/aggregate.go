package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// LedgerTotals compras y transferencias completadas dentro de un alcance.
// ByEquipment es el neto con signo (compras + entradas - salidas) por tipo de equipo.
type LedgerTotals struct {
	Purchases    decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal

	PurchasesByEquipment    []EquipmentTotal
	TransfersInByEquipment  []EquipmentTotal
	TransfersOutByEquipment []EquipmentTotal
	ByEquipment             []EquipmentTotal
}

// Aggregate suma compras y transferencias completadas del alcance.
// Una transferencia completada cuenta como entrada si el alcance cubre el destino y como
// salida si cubre el origen; sin filtro de base cuenta en ambos lados.
func Aggregate(records []entity.Record, scope Scope) LedgerTotals {
	purchases, in, out, net := tally{}, tally{}, tally{}, tally{}
	for _, rec := range records {
		h := rec.Header()
		if !scope.matches(h) {
			continue
		}
		switch r := rec.(type) {
		case *entity.Purchase:
			if scope.coversBase(r.BaseID) {
				purchases.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
				net.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
			}
		case *entity.Transfer:
			if !r.IsCompleted() {
				continue
			}
			if scope.coversBase(r.ToBaseID) {
				in.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
				net.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
			}
			if scope.coversBase(r.FromBaseID) {
				out.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity)
				net.add(h.EquipmentTypeID, h.EquipmentTypeName, h.Quantity.Neg())
			}
		case *entity.Assignment, *entity.Expenditure:
			// TrackAssignments
		}
	}

	t := LedgerTotals{
		PurchasesByEquipment:    purchases.sorted(),
		TransfersInByEquipment:  in.sorted(),
		TransfersOutByEquipment: out.sorted(),
		ByEquipment:             net.sorted(),
	}
	t.Purchases = sumTotals(t.PurchasesByEquipment)
	t.TransfersIn = sumTotals(t.TransfersInByEquipment)
	t.TransfersOut = sumTotals(t.TransfersOutByEquipment)
	return t
}
