package ledger_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/sqlite"
)

const (
	baseA = "base-alpha"
	baseB = "base-bravo"
	rifle = "eq-rifle"
	radio = "eq-radio"
)

var (
	admin      = entity.Caller{UserID: "u-admin", Role: entity.RoleAdmin}
	commanderA = entity.Caller{UserID: "u-cmd-a", Role: entity.RoleBaseCommander, BaseID: baseA}
	commanderB = entity.Caller{UserID: "u-cmd-b", Role: entity.RoleBaseCommander, BaseID: baseB}
	logisticsB = entity.Caller{UserID: "u-log-b", Role: entity.RoleLogisticsOfficer, BaseID: baseB}
)

// fixedNow 31 de enero de 2024, mediodía UTC.
func fixedNow() time.Time { return time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC) }

type env struct {
	store   *sqlite.Store
	cache   ledger.StatsCache
	redis   *miniredis.Miniredis
	stats   *ledger.StatsUseCase
	records *ledger.RecordUseCase
	lists   *ledger.ListUseCase
}

func newEnv(t *testing.T, mode domainledger.ExpenditureMode, withCache bool) *env {
	t.Helper()
	ctx := context.Background()
	store := sqlite.NewTestStore(t)

	for _, b := range []*entity.Base{
		{ID: baseA, Name: "Alpha", Location: "North", CreatedAt: fixedNow()},
		{ID: baseB, Name: "Bravo", Location: "South", CreatedAt: fixedNow()},
	} {
		require.NoError(t, store.Bases().Create(ctx, b))
	}
	for _, et := range []*entity.EquipmentType{
		{ID: rifle, Name: "Rifle", Category: "weapon", CreatedAt: fixedNow()},
		{ID: radio, Name: "Radio", Category: "comms", CreatedAt: fixedNow()},
	} {
		require.NoError(t, store.EquipmentTypes().Create(ctx, et))
	}

	var (
		statsCache ledger.StatsCache
		mr         *miniredis.Miniredis
	)
	if withCache {
		mr = miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		statsCache = cache.NewStatsCache(client, time.Minute, nil)
	}

	resolver := domainledger.NewResolver(time.UTC)
	return &env{
		store:   store,
		cache:   statsCache,
		redis:   mr,
		stats:   ledger.NewStatsUseCase(store, resolver, domainledger.NewReconciler(mode), statsCache, nil).WithClock(fixedNow),
		records: ledger.NewRecordUseCase(store, resolver, statsCache, nil).WithClock(fixedNow),
		lists:   ledger.NewListUseCase(store, resolver),
	}
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// seedScenario compra 100 rifles en Alpha (1 de enero), transfiere 30 a Bravo completada
// (2 de enero), asigna 20 en Alpha (3 de enero) y se devuelven 5 (4 de enero).
func seedScenario(t *testing.T, e *env) (assignmentID string) {
	t.Helper()
	ctx := context.Background()

	_, err := e.records.RecordPurchase(ctx, admin, dto.CreatePurchaseRequest{
		BaseID: baseA, EquipmentTypeID: rifle, Quantity: qty(100), Supplier: "Defense Corp", PurchaseDate: "2024-01-01",
	})
	require.NoError(t, err)

	_, err = e.records.RecordTransfer(ctx, admin, dto.CreateTransferRequest{
		FromBaseID: baseA, ToBaseID: baseB, EquipmentTypeID: rifle, Quantity: qty(30),
		Status: entity.TransferCompleted, TransferDate: "2024-01-02",
	})
	require.NoError(t, err)

	a, err := e.records.RecordAssignment(ctx, commanderA, dto.CreateAssignmentRequest{
		BaseID: baseA, EquipmentTypeID: rifle, PersonnelName: "John Smith", Quantity: qty(20), AssignmentDate: "2024-01-03",
	})
	require.NoError(t, err)

	_, err = e.records.RecordReturn(ctx, commanderA, a.ID, dto.RecordReturnRequest{Quantity: qty(5), ReturnDate: "2024-01-04"})
	require.NoError(t, err)
	return a.ID
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), append([]interface{}{"want %s got %s", want, got.String()}, msgAndArgs...)...)
}
