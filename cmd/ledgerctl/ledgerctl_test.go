package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

var today = time.Date(2024, time.June, 30, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *app {
	t.Helper()
	store := sqlite.NewTestStore(t)
	resolver := domainledger.NewResolver(time.UTC)
	clock := func() time.Time { return today }
	return &app{
		log: logger.Nop(),
		stats: appledger.NewStatsUseCase(store, resolver, domainledger.NewReconciler(domainledger.ExpenditureFromRecords), nil, nil).
			WithClock(clock),
		records:   appledger.NewRecordUseCase(store, resolver, nil, nil).WithClock(clock),
		bases:     usecase.NewBaseUseCase(store.Bases()),
		equipment: usecase.NewEquipmentTypeUseCase(store.EquipmentTypes()),
	}
}

func TestSeeder_CargaDatosYConcilia(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	sum, err := newSeeder(a.bases, a.equipment, a.records, 7, today).run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Bases)
	assert.Equal(t, 4, sum.EquipmentTypes)
	assert.Equal(t, 30, sum.Purchases)
	assert.Equal(t, 20, sum.Transfers)
	assert.Equal(t, 25, sum.Assignments)
	assert.Equal(t, 15, sum.Expenditures)
	assert.LessOrEqual(t, sum.Returns, sum.Assignments)

	stats, err := a.stats.GetStats(ctx, operator, dto.StatsRequest{})
	require.NoError(t, err)
	assert.True(t, stats.ClosingBalance.Equal(stats.OpeningBalance.Add(stats.NetMovement)))
	assert.True(t, stats.OutstandingTotal.Equal(stats.AssignedTotal.Sub(stats.ReturnedTotal)))
	assert.False(t, stats.OutstandingTotal.IsNegative())
	// Sin base, las transferencias entre bases se compensan.
	assert.True(t, stats.TransfersIn.Equal(stats.TransfersOut))
}

func TestSeeder_ReutilizaReferenciasExistentes(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	_, err := newSeeder(a.bases, a.equipment, a.records, 1, today).run(ctx)
	require.NoError(t, err)
	sum, err := newSeeder(a.bases, a.equipment, a.records, 2, today).run(ctx)
	require.NoError(t, err)

	bases, err := a.bases.List(ctx)
	require.NoError(t, err)
	assert.Len(t, bases, 3)
	assert.Equal(t, 3, sum.Bases)
}

func TestStatsCmd_ImprimeJSON(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t)

	base, err := a.bases.Create(ctx, dto.CreateBaseRequest{Name: "Fort Alpha"})
	require.NoError(t, err)
	et, err := a.equipment.Create(ctx, dto.CreateEquipmentTypeRequest{Name: "Rifles"})
	require.NoError(t, err)
	_, err = a.records.RecordPurchase(ctx, operator, dto.CreatePurchaseRequest{
		BaseID: base.ID, EquipmentTypeID: et.ID, Quantity: mustDec(t, "12"), PurchaseDate: "2024-06-01",
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	cmd := &statsCmd{base: base.ID, from: "2024-06-01", to: "2024-06-30"}
	require.NoError(t, cmd.run(ctx, a, &buf))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, base.ID, out["base_id"])
	assert.Equal(t, "12", out["closing_balance"])
}

func TestStatsCmd_PropagaErroresDeValidacion(t *testing.T) {
	a := newTestApp(t)
	cmd := &statsCmd{from: "2024-06-30", to: "2024-06-01"}
	assert.Error(t, cmd.run(context.Background(), a, &bytes.Buffer{}))
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
