// Package cache guarda estadísticas conciliadas en Redis con invalidación por versión global.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/pkg/config"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

const (
	versionKey = "ledger:stats:version"
	keyPrefix  = "ledger:stats"
)

var _ ledger.StatsCache = (*StatsCache)(nil)

// StatsCache cache de StatsResponse. Las claves incluyen la versión vigente, así que
// Bump invalida todo sin borrar nada; las entradas viejas expiran por TTL.
//
// Un Redis caído nunca falla una lectura: se registra y se calcula sin cache.
// Si un Bump falla la cache queda sucia y no se usa hasta que otro Bump tenga éxito.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
	group  singleflight.Group
	dirty  atomic.Bool
}

// NewStatsCache construye la cache. client nil deja la cache deshabilitada.
func NewStatsCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *StatsCache {
	if log == nil {
		log = logger.Nop()
	}
	return &StatsCache{client: client, ttl: ttl, log: log}
}

// NewClient abre un cliente Redis desde la configuración y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Version devuelve la versión vigente, inicializándola si falta.
func (c *StatsCache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		if err := c.client.SetNX(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return c.client.Get(ctx, versionKey).Int64()
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// BuildKey compone la clave de key con la versión vigente.
func (c *StatsCache) BuildKey(ctx context.Context, key string) (string, error) {
	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d:%s", keyPrefix, ver, key), nil
}

// FetchStats devuelve la entrada de key o la calcula con loader y la guarda.
// Llamadas concurrentes con la misma clave versionada comparten un único loader;
// una lectura que ve una versión nueva nunca se une a un cálculo de la anterior.
// Solo propaga errores de loader.
func (c *StatsCache) FetchStats(ctx context.Context, key string, loader func(context.Context) (*dto.StatsResponse, error)) (*dto.StatsResponse, error) {
	if loader == nil {
		return nil, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	if c.dirty.Load() {
		if err := c.Bump(ctx); err != nil {
			c.warn(err, "bump")
			return loader(ctx)
		}
	}

	fullKey, err := c.BuildKey(ctx, key)
	if err != nil {
		c.warn(err, "version")
		return loader(ctx)
	}

	resultChan := c.group.DoChan(fullKey, func() (interface{}, error) {
		return c.fetch(context.WithoutCancel(ctx), fullKey, loader)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return nil, res.Err
		}
		stats := *res.Val.(*dto.StatsResponse)
		return &stats, nil
	}
}

func (c *StatsCache) fetch(ctx context.Context, fullKey string, loader func(context.Context) (*dto.StatsResponse, error)) (*dto.StatsResponse, error) {
	payload, err := c.client.Get(ctx, fullKey).Bytes()
	switch {
	case err == nil:
		var stats dto.StatsResponse
		if err := json.Unmarshal(payload, &stats); err == nil {
			return &stats, nil
		}
		c.warn(err, "decode")
	case !errors.Is(err, redis.Nil):
		c.warn(err, "get")
	}

	stats, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	if c.dirty.Load() {
		return stats, nil
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		c.warn(err, "encode")
		return stats, nil
	}
	if err := c.client.Set(ctx, fullKey, raw, c.ttl).Err(); err != nil {
		c.warn(err, "set")
	}
	return stats, nil
}

// Bump invalida todas las entradas incrementando la versión global. Si falla, la cache
// queda sucia y FetchStats la salta hasta que un Bump posterior funcione.
func (c *StatsCache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.dirty.Store(true)
		return err
	}
	c.dirty.Store(false)
	return nil
}

// Dirty indica si un Bump falló y la cache se está saltando.
func (c *StatsCache) Dirty() bool {
	return c != nil && c.dirty.Load()
}

func (c *StatsCache) warn(err error, op string) {
	c.log.Warn().Err(err).Str("op", op).Msg("cache de estadísticas no disponible")
}
