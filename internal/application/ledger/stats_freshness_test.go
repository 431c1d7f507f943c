package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/cache"
)

// gatedReader retiene la primera lectura después de tomar su snapshot.
type gatedReader struct {
	inner       repository.LedgerReader
	first       sync.Once
	read        chan struct{}
	release     chan struct{}
	releaseOnce sync.Once
}

func newGatedReader(t *testing.T, inner repository.LedgerReader) *gatedReader {
	g := &gatedReader{inner: inner, read: make(chan struct{}), release: make(chan struct{})}
	t.Cleanup(g.open)
	return g
}

func (g *gatedReader) ReadSnapshot(ctx context.Context, fn func(snap repository.LedgerSnapshot) error) error {
	err := g.inner.ReadSnapshot(ctx, fn)
	held := false
	g.first.Do(func() { held = true })
	if held {
		close(g.read)
		<-g.release
	}
	return err
}

func (g *gatedReader) open() { g.releaseOnce.Do(func() { close(g.release) }) }

type statsResult struct {
	stats *dto.StatsResponse
	err   error
}

func getStatsAsync(uc *ledger.StatsUseCase, req dto.StatsRequest) <-chan statsResult {
	out := make(chan statsResult, 1)
	go func() {
		stats, err := uc.GetStats(context.Background(), admin, req)
		out <- statsResult{stats, err}
	}()
	return out
}

func assertLecturaTrasEscrituraVeLaEscritura(t *testing.T, withCache bool) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, withCache)
	seedScenario(t, e)
	ctx := context.Background()

	gate := newGatedReader(t, e.store)
	stats := ledger.NewStatsUseCase(gate, domainledger.NewResolver(time.UTC),
		domainledger.NewReconciler(domainledger.ExpenditureFromRecords), e.cache, nil).WithClock(fixedNow)
	req := dto.StatsRequest{BaseID: baseA}

	first := getStatsAsync(stats, req)
	select {
	case <-gate.read:
	case <-time.After(5 * time.Second):
		t.Fatal("la primera lectura no llegó al snapshot")
	}

	_, err := e.records.RecordPurchase(ctx, admin, dto.CreatePurchaseRequest{
		BaseID: baseA, EquipmentTypeID: radio, Quantity: qty(4), PurchaseDate: "2024-01-20",
	})
	require.NoError(t, err)

	select {
	case r := <-getStatsAsync(stats, req):
		require.NoError(t, r.err)
		assertDec(t, "54", r.stats.ClosingBalance, "la lectura posterior a la escritura la incluye")
	case <-time.After(5 * time.Second):
		t.Fatal("la lectura posterior a la escritura se unió al cálculo anterior")
	}

	gate.open()
	r := <-first
	require.NoError(t, r.err)
	assertDec(t, "50", r.stats.ClosingBalance, "la lectura iniciada antes de la escritura no la ve")

	fresh, err := stats.GetStats(ctx, admin, req)
	require.NoError(t, err)
	assertDec(t, "54", fresh.ClosingBalance)
}

func TestGetStats_ConCacheLecturaTrasEscrituraNoSeUneACalculoPrevio(t *testing.T) {
	assertLecturaTrasEscrituraVeLaEscritura(t, true)
}

func TestGetStats_SinCacheLecturaTrasEscrituraNoSeUneACalculoPrevio(t *testing.T) {
	assertLecturaTrasEscrituraVeLaEscritura(t, false)
}

func TestGetStats_BumpFallidoNoSirveDatosViejos(t *testing.T) {
	e := newEnv(t, domainledger.ExpenditureFromRecords, true)
	seedScenario(t, e)
	ctx := context.Background()
	req := dto.StatsRequest{BaseID: baseA}

	before, err := e.stats.GetStats(ctx, admin, req)
	require.NoError(t, err)
	assertDec(t, "50", before.ClosingBalance)

	e.redis.SetError("LOADING")
	_, err = e.records.RecordPurchase(ctx, admin, dto.CreatePurchaseRequest{
		BaseID: baseA, EquipmentTypeID: radio, Quantity: qty(4), PurchaseDate: "2024-01-20",
	})
	require.NoError(t, err, "la escritura confirma aunque la cache falle")
	assert.True(t, e.cache.(*cache.StatsCache).Dirty())

	during, err := e.stats.GetStats(ctx, admin, req)
	require.NoError(t, err)
	assertDec(t, "54", during.ClosingBalance)

	e.redis.SetError("")
	after, err := e.stats.GetStats(ctx, admin, req)
	require.NoError(t, err)
	assertDec(t, "54", after.ClosingBalance, "Redis recuperado no devuelve la entrada previa a la escritura")
	assert.False(t, e.cache.(*cache.StatsCache).Dirty())
}
