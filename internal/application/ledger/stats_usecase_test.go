package ledger_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/domain"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
)

func TestGetStats_EscenarioBaseAlpha(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	stats, err := e.stats.GetStats(context.Background(), admin, dto.StatsRequest{
		BaseID: baseA, StartDate: "2024-01-01", EndDate: "2024-01-31",
	})
	require.NoError(t, err)

	assertDec(t, "0", stats.OpeningBalance)
	assertDec(t, "100", stats.Purchases)
	assertDec(t, "0", stats.TransfersIn)
	assertDec(t, "30", stats.TransfersOut)
	assertDec(t, "20", stats.AssignedTotal)
	assertDec(t, "5", stats.ReturnedTotal)
	assertDec(t, "15", stats.OutstandingTotal)
	assertDec(t, "50", stats.NetMovement)
	assertDec(t, "50", stats.ClosingBalance)
	assert.Equal(t, "2024-01-01", stats.StartDate)
	assert.Equal(t, "2024-01-31", stats.EndDate)
	assert.Equal(t, "records", stats.ExpenditureMode)

	require.Len(t, stats.Breakdown.Purchases, 1)
	assert.Equal(t, "Rifle", stats.Breakdown.Purchases[0].EquipmentTypeName)
}

func TestGetStats_BaseDestinoVeLaEntrada(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	stats, err := e.stats.GetStats(context.Background(), commanderB, dto.StatsRequest{})
	require.NoError(t, err)
	assert.Equal(t, baseB, stats.BaseID, "el alcance se fuerza a la base del comandante")
	assertDec(t, "30", stats.TransfersIn)
	assertDec(t, "30", stats.ClosingBalance)
}

func TestGetStats_AperturaArrastraPeriodoAnterior(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	stats, err := e.stats.GetStats(context.Background(), admin, dto.StatsRequest{
		BaseID: baseA, StartDate: "2024-01-03", EndDate: "2024-01-31",
	})
	require.NoError(t, err)
	assertDec(t, "70", stats.OpeningBalance)
	assertDec(t, "-20", stats.NetMovement)
	assertDec(t, "50", stats.ClosingBalance)
}

func TestGetStats_ModoAsignaciones(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromAssignments, false)
	seedScenario(t, e)

	stats, err := e.stats.GetStats(context.Background(), admin, dto.StatsRequest{BaseID: baseA})
	require.NoError(t, err)
	assert.Equal(t, "assignments", stats.ExpenditureMode)
	assertDec(t, "15", stats.ExpendedTotal)
	assertDec(t, "50", stats.ClosingBalance, "el gasto derivado no vuelve a restar")
}

func TestGetStats_GastosRestanEnModoRegistros(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	_, err := e.records.RecordExpenditure(context.Background(), commanderA, dto.CreateExpenditureRequest{
		BaseID: baseA, EquipmentTypeID: rifle, Quantity: qty(8), Reason: "Training exercise", ExpenditureDate: "2024-01-10",
	})
	require.NoError(t, err)

	stats, err := e.stats.GetStats(context.Background(), admin, dto.StatsRequest{BaseID: baseA})
	require.NoError(t, err)
	assertDec(t, "8", stats.ExpendedTotal)
	assertDec(t, "42", stats.ClosingBalance)
}

func TestGetStats_AlcanceProhibido(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)

	_, err := e.stats.GetStats(context.Background(), commanderB, dto.StatsRequest{BaseID: baseA})
	var ae *domain.AccessError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, domain.ReasonForbiddenScope, ae.Reason)

	_, err = e.stats.GetStats(context.Background(), entity.Caller{Role: entity.RoleLogisticsOfficer}, dto.StatsRequest{})
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, domain.ReasonNoAssignedBase, ae.Reason)
}

func TestGetStats_ErroresDeValidacion(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)

	cases := []struct {
		name   string
		req    dto.StatsRequest
		reason domain.ValidationReason
	}{
		{"rango invertido", dto.StatsRequest{StartDate: "2024-02-01", EndDate: "2024-01-01"}, domain.ReasonInvalidRange},
		{"fecha mal formada", dto.StatsRequest{StartDate: "01/02/2024"}, domain.ReasonInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.stats.GetStats(context.Background(), admin, tc.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.reason, ve.Reason)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestGetStats_CacheSeInvalidaConEscrituras(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, true)
	seedScenario(t, e)
	ctx := context.Background()

	before, err := e.stats.GetStats(ctx, admin, dto.StatsRequest{BaseID: baseA})
	require.NoError(t, err)
	again, err := e.stats.GetStats(ctx, admin, dto.StatsRequest{BaseID: baseA})
	require.NoError(t, err)
	assert.True(t, again.ClosingBalance.Equal(before.ClosingBalance))

	_, err = e.records.RecordPurchase(ctx, admin, dto.CreatePurchaseRequest{
		BaseID: baseA, EquipmentTypeID: radio, Quantity: qty(4), PurchaseDate: "2024-01-20",
	})
	require.NoError(t, err)

	after, err := e.stats.GetStats(ctx, admin, dto.StatsRequest{BaseID: baseA})
	require.NoError(t, err)
	assertDec(t, "54", after.ClosingBalance)
	require.Len(t, after.Breakdown.Purchases, 2)
	assert.Equal(t, "Radio", after.Breakdown.Purchases[0].EquipmentTypeName, "ordenado por nombre")
}

func TestGetStats_ConcurrentesDevuelvenLoMismo(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, false)
	seedScenario(t, e)

	const n = 8
	var wg sync.WaitGroup
	results := make([]*dto.StatsResponse, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.stats.GetStats(context.Background(), admin, dto.StatsRequest{BaseID: baseA})
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assertDec(t, "50", results[i].ClosingBalance)
	}
}
