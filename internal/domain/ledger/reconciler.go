package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// Breakdown listas por tipo de equipo para presentación. Net es el movimiento neto con signo.
type Breakdown struct {
	Purchases    []EquipmentTotal
	TransfersIn  []EquipmentTotal
	TransfersOut []EquipmentTotal
	Assigned     []EquipmentTotal
	Expended     []EquipmentTotal
	Net          []EquipmentTotal
}

// Balance resultado de conciliar un alcance.
// Closing = Opening + NetMovement, y NetMovement = Purchases + TransfersIn - TransfersOut - Assigned - gasto que resta.
type Balance struct {
	Scope        Scope
	Opening      decimal.Decimal
	Closing      decimal.Decimal
	NetMovement  decimal.Decimal
	Purchases    decimal.Decimal
	TransfersIn  decimal.Decimal
	TransfersOut decimal.Decimal
	Assigned     decimal.Decimal
	Returned     decimal.Decimal
	Outstanding  decimal.Decimal
	Expended     decimal.Decimal
	Breakdown    Breakdown
}

// Reconciler concilia balances sobre un conjunto de registros leído de un snapshot.
type Reconciler struct {
	mode ExpenditureMode
}

// NewReconciler construye el conciliador con el modo de gasto indicado.
func NewReconciler(mode ExpenditureMode) *Reconciler {
	if mode == "" {
		mode = ExpenditureFromRecords
	}
	return &Reconciler{mode: mode}
}

// Mode modo de gasto en uso.
func (r *Reconciler) Mode() ExpenditureMode { return r.mode }

// Reconcile calcula apertura, agregados y cierre del alcance.
// records debe contener todo el historial hasta scope.Range.Until (ver Scope.Filter).
func (r *Reconciler) Reconcile(records []entity.Record, scope Scope) (Balance, error) {
	opening, err := r.Opening(records, scope)
	if err != nil {
		return Balance{}, err
	}
	tracked, err := r.Track(records, scope)
	if err != nil {
		return Balance{}, err
	}
	return Combine(scope, opening, Aggregate(records, scope), tracked)
}

// Opening balance de cierre del periodo anterior con los mismos filtros; cero si no hay periodo anterior.
func (r *Reconciler) Opening(records []entity.Record, scope Scope) (decimal.Decimal, error) {
	prev, ok := scope.Preceding()
	if !ok {
		return decimal.Zero, nil
	}
	b, err := r.Reconcile(records, prev)
	if err != nil {
		return decimal.Zero, err
	}
	return b.Closing, nil
}

// Track totales de asignaciones con el modo del conciliador.
func (r *Reconciler) Track(records []entity.Record, scope Scope) (AssignmentTotals, error) {
	return TrackAssignments(records, scope, r.mode)
}

// Combine arma el Balance y verifica la identidad de conciliación y la aditividad por equipo.
func Combine(scope Scope, opening decimal.Decimal, totals LedgerTotals, tracked AssignmentTotals) (Balance, error) {
	net := totals.Purchases.
		Add(totals.TransfersIn).
		Sub(totals.TransfersOut).
		Sub(tracked.Assigned).
		Sub(tracked.ExpendedDelta)

	perEquipment := tally{}
	perEquipment.addAll(totals.ByEquipment, 1)
	perEquipment.addAll(tracked.AssignedByEquipment, -1)
	perEquipment.addAll(tracked.DeltaByEquipment, -1)

	b := Balance{
		Scope:        scope,
		Opening:      opening,
		NetMovement:  net,
		Closing:      opening.Add(net),
		Purchases:    totals.Purchases,
		TransfersIn:  totals.TransfersIn,
		TransfersOut: totals.TransfersOut,
		Assigned:     tracked.Assigned,
		Returned:     tracked.Returned,
		Outstanding:  tracked.Outstanding,
		Expended:     tracked.Expended,
		Breakdown: Breakdown{
			Purchases:    totals.PurchasesByEquipment,
			TransfersIn:  totals.TransfersInByEquipment,
			TransfersOut: totals.TransfersOutByEquipment,
			Assigned:     tracked.AssignedByEquipment,
			Expended:     tracked.ExpendedByEquipment,
			Net:          perEquipment.sorted(),
		},
	}

	if !b.Closing.Sub(b.Opening).Equal(b.NetMovement) {
		return Balance{}, &domain.ConsistencyError{
			Subject: "balance " + scope.Key(),
			Detail:  fmt.Sprintf("cierre %s != apertura %s + neto %s", b.Closing, b.Opening, b.NetMovement),
		}
	}
	if sum := sumTotals(b.Breakdown.Net); !sum.Equal(net) {
		return Balance{}, &domain.ConsistencyError{
			Subject: "breakdown " + scope.Key(),
			Detail:  fmt.Sprintf("suma por equipo %s != neto %s", sum, net),
		}
	}
	return b, nil
}
