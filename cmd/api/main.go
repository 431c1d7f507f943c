package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/asset-ledger/docs"
	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
	domainledger "github.com/jhoicas/asset-ledger/internal/domain/ledger"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/asset-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/asset-ledger/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/asset-ledger/internal/interfaces/http"
	"github.com/jhoicas/asset-ledger/pkg/config"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

// @title						Asset Ledger API
// @version					1.0
// @description				Libro mayor de activos por base: compras, transferencias, asignaciones, gastos y conciliación de saldos.
// @BasePath					/
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("expenditure_mode", cfg.Ledger.ExpenditureMode).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("apertura del almacén")
	}
	defer backend.Close()

	applied, err := backend.Migrate(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	if len(applied) > 0 {
		log.Info().Strs("migrations", applied).Msg("esquema actualizado")
	}

	// Sin REDIS_ADDR las estadísticas se calculan siempre contra el almacén.
	var statsCache appledger.StatsCache
	if cfg.Redis.Addr != "" {
		client, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, cache deshabilitado")
		} else {
			defer client.Close()
			statsCache = cache.NewStatsCache(client, cfg.Redis.TTLDuration(), log)
		}
	}

	mode, err := domainledger.ParseExpenditureMode(cfg.Ledger.ExpenditureMode)
	if err != nil {
		log.Fatal().Err(err).Msg("modo de gastos")
	}
	resolver := domainledger.NewResolver(cfg.Ledger.Location())
	reconciler := domainledger.NewReconciler(mode)

	statsUC := appledger.NewStatsUseCase(backend.Reader, resolver, reconciler, statsCache, log)
	recordUC := appledger.NewRecordUseCase(backend.TxRunner, resolver, statsCache, log)
	listUC := appledger.NewListUseCase(backend.Reader, resolver)
	reportUC := appledger.NewReportUseCase(statsUC, infrapdf.NewStatsReportGenerator())
	baseUC := usecase.NewBaseUseCase(backend.Bases)
	equipmentUC := usecase.NewEquipmentTypeUseCase(backend.EquipmentTypes)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Asset Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": backend.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StatsUC:         statsUC,
		RecordUC:        recordUC,
		ListUC:          listUC,
		ReportUC:        reportUC,
		BaseUC:          baseUC,
		EquipmentTypeUC: equipmentUC,
		JWTSecret:       cfg.JWT.Secret,
		Logger:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
