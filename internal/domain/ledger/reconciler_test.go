package ledger_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/internal/domain/ledger"
)

func scope(base, eq string, from, to int) ledger.Scope {
	s := ledger.Scope{BaseID: base, EquipmentTypeID: eq, Range: ledger.DateRange{Until: day(to + 1)}}
	if from > 0 {
		s.Range.From = ptr(day(from))
	}
	return s
}

func TestReconcile_EscenarioBaseA(t *testing.T) {
	b, err := ledger.NewReconciler(ledger.ExpenditureFromRecords).Reconcile(scenario(), scope(baseA, "", 1, 3))
	require.NoError(t, err)

	assertDec(t, "0", b.Opening)
	assertDec(t, "100", b.Purchases)
	assertDec(t, "0", b.TransfersIn)
	assertDec(t, "30", b.TransfersOut)
	assertDec(t, "20", b.Assigned)
	assertDec(t, "5", b.Returned)
	assertDec(t, "15", b.Outstanding)
	assertDec(t, "0", b.Expended)
	assertDec(t, "50", b.NetMovement)
	assertDec(t, "50", b.Closing)

	require.Len(t, b.Breakdown.Net, 1)
	assert.Equal(t, "Rifle", b.Breakdown.Net[0].EquipmentTypeName)
	assertDec(t, "50", b.Breakdown.Net[0].Total)
}

func TestReconcile_AperturaEsCierreDelPeriodoAnterior(t *testing.T) {
	r := ledger.NewReconciler(ledger.ExpenditureFromRecords)
	records := scenario()

	b, err := r.Reconcile(records, scope(baseA, "", 2, 3))
	require.NoError(t, err)
	assertDec(t, "100", b.Opening)
	assertDec(t, "-50", b.NetMovement)
	assertDec(t, "50", b.Closing)

	// La base B recibe la transferencia.
	b, err = r.Reconcile(records, scope(baseB, "", 3, 3))
	require.NoError(t, err)
	assertDec(t, "30", b.Opening)
	assertDec(t, "0", b.NetMovement)
	assertDec(t, "30", b.Closing)

	prev, ok := scope(baseA, "", 3, 3).Preceding()
	require.True(t, ok)
	closing, err := r.Reconcile(records, prev)
	require.NoError(t, err)
	opening, err := r.Opening(records, scope(baseA, "", 3, 3))
	require.NoError(t, err)
	assert.True(t, closing.Closing.Equal(opening))
}

func TestReconcile_IdentidadDeConciliacion(t *testing.T) {
	records := append(scenario(),
		purchase("p2", baseB, radio, 12, 1),
		purchase("p3", baseA, radio, 7, 4),
		transfer("t2", baseB, baseA, radio, 4, 5, entity.TransferCompleted),
		assignment("a2", baseB, radio, 3, 0, 6),
		expenditure("e1", baseA, rifle, 10, 6),
	)
	r := ledger.NewReconciler(ledger.ExpenditureFromRecords)
	for _, base := range []string{"", baseA, baseB} {
		for _, eq := range []string{"", rifle, radio} {
			for from := 0; from <= 6; from++ {
				b, err := r.Reconcile(records, scope(base, eq, from, 6))
				require.NoError(t, err)
				assert.True(t, b.Closing.Equal(b.Opening.Add(b.NetMovement)), "base=%s eq=%s from=%d", base, eq, from)
			}
		}
	}
}

func TestReconcile_AditividadPorEquipoYBase(t *testing.T) {
	records := append(scenario(),
		purchase("p2", baseA, radio, 12, 1),
		transfer("t2", baseA, baseB, radio, 2, 2, entity.TransferCompleted),
		assignment("a2", baseB, radio, 3, 1, 3),
		expenditure("e1", baseA, radio, 4, 3),
	)
	r := ledger.NewReconciler(ledger.ExpenditureFromRecords)

	for _, base := range []string{"", baseA, baseB} {
		all, err := r.Reconcile(records, scope(base, "", 1, 3))
		require.NoError(t, err)

		sum := decimal.Zero
		for _, eq := range []string{rifle, radio} {
			b, err := r.Reconcile(records, scope(base, eq, 1, 3))
			require.NoError(t, err)
			sum = sum.Add(b.NetMovement)
		}
		assert.True(t, all.NetMovement.Equal(sum), "base=%q: %s != %s", base, all.NetMovement, sum)
		assert.True(t, all.NetMovement.Equal(sumNet(all.Breakdown.Net)))
	}

	all, err := r.Reconcile(records, scope("", "", 1, 3))
	require.NoError(t, err)
	a, err := r.Reconcile(records, scope(baseA, "", 1, 3))
	require.NoError(t, err)
	b, err := r.Reconcile(records, scope(baseB, "", 1, 3))
	require.NoError(t, err)
	assert.True(t, all.Closing.Equal(a.Closing.Add(b.Closing)))
	assert.True(t, all.Purchases.Equal(a.Purchases.Add(b.Purchases)))
}

func sumNet(list []ledger.EquipmentTotal) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range list {
		sum = sum.Add(e.Total)
	}
	return sum
}

func TestAggregate_SoloTransferenciasCompletadas(t *testing.T) {
	records := []entity.Record{
		transfer("t1", baseA, baseB, rifle, 30, 1, entity.TransferCompleted),
		transfer("t2", baseA, baseB, rifle, 7, 1, entity.TransferCancelled),
		transfer("t3", baseA, baseB, rifle, 5, 1, entity.TransferPending),
		transfer("t4", baseA, baseB, rifle, 3, 1, entity.TransferInTransit),
	}

	a := ledger.Aggregate(records, scope(baseA, "", 1, 1))
	assertDec(t, "30", a.TransfersOut)
	assertDec(t, "0", a.TransfersIn)

	b := ledger.Aggregate(records, scope(baseB, "", 1, 1))
	assertDec(t, "30", b.TransfersIn)
	assertDec(t, "0", b.TransfersOut)

	all := ledger.Aggregate(records, scope("", "", 1, 1))
	assertDec(t, "30", all.TransfersIn)
	assertDec(t, "30", all.TransfersOut)
	require.Len(t, all.ByEquipment, 1)
	assertDec(t, "0", all.ByEquipment[0].Total)
}

func TestAggregate_ExcluyeFuturoYOtrosTipos(t *testing.T) {
	records := []entity.Record{
		purchase("p1", baseA, rifle, 10, 1),
		purchase("p2", baseA, radio, 10, 1),
		purchase("p3", baseA, rifle, 10, 9),
		purchase("p4", baseB, rifle, 10, 1),
	}
	a := ledger.Aggregate(records, scope(baseA, rifle, 0, 5))
	assertDec(t, "10", a.Purchases)
}

func TestAggregate_OrdenDeterministaPorNombre(t *testing.T) {
	mk := func(id, eq, name string) *entity.Purchase {
		p := purchase(id, baseA, eq, 1, 1)
		p.EquipmentTypeName = name
		return p
	}
	records := []entity.Record{
		mk("p1", "eq-3", "rifle"),
		mk("p2", "eq-2", "Binoculars"),
		mk("p3", "eq-9", "ammo"),
		mk("p4", "eq-5", "Radio"),
		mk("p5", "eq-4", "Radio"),
	}
	var order []string
	for _, e := range ledger.Aggregate(records, scope(baseA, "", 1, 1)).PurchasesByEquipment {
		order = append(order, e.EquipmentTypeID)
	}
	assert.Equal(t, []string{"eq-9", "eq-2", "eq-4", "eq-5", "eq-3"}, order)
}

func TestReconcile_DeterministaEIdempotente(t *testing.T) {
	records := append(scenario(),
		purchase("p2", baseA, radio, 12, 1),
		expenditure("e1", baseA, radio, 2, 2),
	)
	r := ledger.NewReconciler(ledger.ExpenditureFromRecords)
	first, err := r.Reconcile(records, scope(baseA, "", 1, 3))
	require.NoError(t, err)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]entity.Record(nil), records...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		again, err := r.Reconcile(shuffled, scope(baseA, "", 1, 3))
		require.NoError(t, err)
		assert.Equal(t, first.Closing.String(), again.Closing.String())
		assert.Equal(t, render(first.Breakdown.Net), render(again.Breakdown.Net))
	}
}

func render(list []ledger.EquipmentTotal) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.EquipmentTypeName+"="+e.Total.String())
	}
	return out
}

func TestTrackAssignments_ModosDeGasto(t *testing.T) {
	records := append(scenario(), expenditure("e1", baseA, rifle, 8, 3))

	byRecords, err := ledger.TrackAssignments(records, scope(baseA, "", 1, 3), ledger.ExpenditureFromRecords)
	require.NoError(t, err)
	assertDec(t, "8", byRecords.Expended)
	assertDec(t, "8", byRecords.ExpendedDelta)
	assertDec(t, "15", byRecords.Outstanding)

	byAssignments, err := ledger.TrackAssignments(records, scope(baseA, "", 1, 3), ledger.ExpenditureFromAssignments)
	require.NoError(t, err)
	assertDec(t, "15", byAssignments.Expended)
	assertDec(t, "0", byAssignments.ExpendedDelta)

	r := ledger.NewReconciler(ledger.ExpenditureFromRecords)
	b, err := r.Reconcile(records, scope(baseA, "", 1, 3))
	require.NoError(t, err)
	assertDec(t, "42", b.Closing)

	r = ledger.NewReconciler(ledger.ExpenditureFromAssignments)
	b, err = r.Reconcile(records, scope(baseA, "", 1, 3))
	require.NoError(t, err)
	assertDec(t, "50", b.Closing)
	assertDec(t, "15", b.Expended)
}

func TestTrackAssignments_EstadoCorruptoEsConsistencyError(t *testing.T) {
	bad := assignment("a9", baseA, rifle, 5, 6, 1)
	_, err := ledger.TrackAssignments([]entity.Record{bad}, scope(baseA, "", 1, 1), ledger.ExpenditureFromRecords)
	require.Error(t, err)
	var ce *domain.ConsistencyError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, domain.ErrIntegrity)

	negative := assignment("a8", baseA, rifle, 5, 0, 1)
	negative.Returned = decimal.NewFromInt(-1)
	_, err = ledger.NewReconciler("").Reconcile([]entity.Record{negative}, scope(baseA, "", 1, 1))
	assert.ErrorIs(t, err, domain.ErrIntegrity, "nunca se recorta a cero")
}

func TestParseExpenditureMode(t *testing.T) {
	m, err := ledger.ParseExpenditureMode("")
	require.NoError(t, err)
	assert.Equal(t, ledger.ExpenditureFromRecords, m)

	m, err = ledger.ParseExpenditureMode("assignments")
	require.NoError(t, err)
	assert.Equal(t, ledger.ExpenditureFromAssignments, m)

	_, err = ledger.ParseExpenditureMode("other")
	assert.Error(t, err)
}
