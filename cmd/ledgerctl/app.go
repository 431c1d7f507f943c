package main

import (
	"context"
	"os"

	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/storage"
	"github.com/jhoicas/asset-ledger/pkg/config"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

// app dependencias compartidas por los subcomandos. Sin cache: cada consulta va al almacén.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	backend *storage.Backend

	stats     *appledger.StatsUseCase
	records   *appledger.RecordUseCase
	bases     *usecase.BaseUseCase
	equipment *usecase.EquipmentTypeUseCase
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name, Output: os.Stderr})

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	mode, err := domainledger.ParseExpenditureMode(cfg.Ledger.ExpenditureMode)
	if err != nil {
		backend.Close()
		return nil, err
	}
	resolver := domainledger.NewResolver(cfg.Ledger.Location())

	return &app{
		cfg:       cfg,
		log:       log,
		backend:   backend,
		stats:     appledger.NewStatsUseCase(backend.Reader, resolver, domainledger.NewReconciler(mode), nil, log),
		records:   appledger.NewRecordUseCase(backend.TxRunner, resolver, nil, log),
		bases:     usecase.NewBaseUseCase(backend.Bases),
		equipment: usecase.NewEquipmentTypeUseCase(backend.EquipmentTypes),
	}, nil
}

func (a *app) Close() { a.backend.Close() }
