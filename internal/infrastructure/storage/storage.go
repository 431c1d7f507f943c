// Package storage abre el almacén configurado (PostgreSQL o SQLite) detrás de los mismos puertos.
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/repository"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/asset-ledger/pkg/config"
)

// Backend puertos de un almacén abierto.
type Backend struct {
	Driver         string
	TxRunner       ledger.TxRunner
	Reader         repository.LedgerReader
	Bases          repository.BaseRepository
	EquipmentTypes repository.EquipmentTypeRepository

	migrate func(ctx context.Context) ([]string, error)
	close   func()
}

// Open conecta con el driver de cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		store := sqlite.NewStore(db)
		return &Backend{
			Driver:         "sqlite",
			TxRunner:       store,
			Reader:         store,
			Bases:          store.Bases(),
			EquipmentTypes: store.EquipmentTypes(),
			migrate: func(context.Context) ([]string, error) {
				if err := sqlite.EnsureSchema(db); err != nil {
					return nil, err
				}
				return []string{"schema"}, nil
			},
			close: func() { _ = db.Close() },
		}, nil
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		txRunner := postgres.NewTxRunner(pool)
		return &Backend{
			Driver:         "postgres",
			TxRunner:       txRunner,
			Reader:         txRunner,
			Bases:          postgres.NewBaseRepository(pool),
			EquipmentTypes: postgres.NewEquipmentTypeRepository(pool),
			migrate: func(ctx context.Context) ([]string, error) {
				return postgres.Migrate(ctx, pool)
			},
			close: pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("storage: driver desconocido %q", cfg.Storage.Driver)
	}
}

// Migrate aplica el esquema pendiente y devuelve lo aplicado.
func (b *Backend) Migrate(ctx context.Context) ([]string, error) {
	return b.migrate(ctx)
}

// Close libera las conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}
