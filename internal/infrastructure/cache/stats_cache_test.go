package cache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/cache"
)

func newTestCache(t *testing.T) (*cache.StatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewStatsCache(client, time.Minute, nil), mr
}

type countingLoader struct {
	calls int
	stats *dto.StatsResponse
	err   error
}

func (l *countingLoader) load(context.Context) (*dto.StatsResponse, error) {
	l.calls++
	return l.stats, l.err
}

func sampleStats() *dto.StatsResponse {
	return &dto.StatsResponse{
		BaseID:         "b-alpha",
		EndDate:        "2024-01-31",
		OpeningBalance: decimal.NewFromInt(10),
		ClosingBalance: decimal.RequireFromString("52.5"),
		NetMovement:    decimal.RequireFromString("42.5"),
		Breakdown: dto.StatsBreakdown{
			Purchases: []dto.BreakdownEntry{{EquipmentTypeID: "eq-1", EquipmentTypeName: "Rifle", Total: decimal.NewFromInt(50)}},
		},
	}
}

func TestFetchStats_CacheaHastaBump(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	loader := &countingLoader{stats: sampleStats()}

	first, err := c.FetchStats(ctx, "records:b=b-alpha", loader.load)
	require.NoError(t, err)
	second, err := c.FetchStats(ctx, "records:b=b-alpha", loader.load)
	require.NoError(t, err)

	assert.Equal(t, 1, loader.calls)
	assert.True(t, second.ClosingBalance.Equal(first.ClosingBalance))
	assert.Equal(t, "Rifle", second.Breakdown.Purchases[0].EquipmentTypeName)

	require.NoError(t, c.Bump(ctx))
	_, err = c.FetchStats(ctx, "records:b=b-alpha", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "Bump invalida las entradas anteriores")
}

func TestFetchStats_ClavesDistintas(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	loader := &countingLoader{stats: sampleStats()}

	_, err := c.FetchStats(ctx, "records:b=b-alpha", loader.load)
	require.NoError(t, err)
	_, err = c.FetchStats(ctx, "records:b=b-bravo", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
}

func TestFetchStats_NoGuardaErrores(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)
	boom := errors.New("boom")
	loader := &countingLoader{err: boom}

	_, err := c.FetchStats(ctx, "k", loader.load)
	assert.ErrorIs(t, err, boom)
	_, err = c.FetchStats(ctx, "k", loader.load)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, loader.calls)
}

func TestFetchStats_RedisCaidoCalculaSinCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()
	loader := &countingLoader{stats: sampleStats()}

	stats, err := c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, "b-alpha", stats.BaseID)
	assert.Error(t, c.Bump(ctx))
}

func TestStatsCache_NilEsPasante(t *testing.T) {
	var c *cache.StatsCache
	loader := &countingLoader{stats: sampleStats()}

	_, err := c.FetchStats(context.Background(), "k", loader.load)
	require.NoError(t, err)
	assert.NoError(t, c.Bump(context.Background()))
	assert.Equal(t, 1, loader.calls)
}

func TestVersion_InicializaYBump(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	require.NoError(t, c.Bump(ctx))
	v, err = c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestFetchStats_BumpFallidoSaltaLaCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	loader := &countingLoader{stats: sampleStats()}

	_, err := c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	require.Equal(t, 1, loader.calls)

	mr.SetError("LOADING")
	require.Error(t, c.Bump(ctx))
	assert.True(t, c.Dirty())
	mr.SetError("")

	_, err = c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "la entrada previa al Bump fallido no se sirve")
	assert.False(t, c.Dirty(), "el Bump reintentado limpia la marca")

	_, err = c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls, "con la marca limpia vuelve a cachear")
}

func TestFetchStats_SucioConRedisCaidoCalculaSinCache(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	loader := &countingLoader{stats: sampleStats()}

	mr.SetError("LOADING")
	require.Error(t, c.Bump(ctx))

	_, err := c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	_, err = c.FetchStats(ctx, "k", loader.load)
	require.NoError(t, err)
	assert.Equal(t, 2, loader.calls)
	assert.True(t, c.Dirty())
}

func TestFetchStats_VersionNuevaNoSeUneACalculoPrevio(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var releaseOnce sync.Once
	open := func() { releaseOnce.Do(func() { close(release) }) }
	t.Cleanup(open)

	old := sampleStats()
	done := make(chan *dto.StatsResponse, 1)
	go func() {
		stats, _ := c.FetchStats(ctx, "k", func(context.Context) (*dto.StatsResponse, error) {
			close(started)
			<-release
			return old, nil
		})
		done <- stats
	}()
	<-started
	require.NoError(t, c.Bump(ctx))

	fresh := sampleStats()
	fresh.ClosingBalance = decimal.NewFromInt(99)
	got := make(chan *dto.StatsResponse, 1)
	go func() {
		stats, _ := c.FetchStats(ctx, "k", func(context.Context) (*dto.StatsResponse, error) { return fresh, nil })
		got <- stats
	}()

	select {
	case stats := <-got:
		require.NotNil(t, stats)
		assert.True(t, stats.ClosingBalance.Equal(decimal.NewFromInt(99)))
	case <-time.After(5 * time.Second):
		t.Fatal("la lectura con versión nueva esperó al cálculo de la versión anterior")
	}

	open()
	require.NotNil(t, <-done)

	again, err := c.FetchStats(ctx, "k", (&countingLoader{stats: sampleStats()}).load)
	require.NoError(t, err)
	assert.True(t, again.ClosingBalance.Equal(decimal.NewFromInt(99)), "la versión vigente guarda el resultado nuevo")
}
