package http

import (
	"github.com/gofiber/fiber/v2"

	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
	"github.com/jhoicas/asset-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StatsUC         *appledger.StatsUseCase
	RecordUC        *appledger.RecordUseCase
	ListUC          *appledger.ListUseCase
	ReportUC        *appledger.ReportUseCase
	BaseUC          *usecase.BaseUseCase
	EquipmentTypeUC *usecase.EquipmentTypeUseCase
	JWTSecret       string
	Logger          *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api", RequestLogger(log), AuthMiddleware(deps.JWTSecret))

	// Dashboard
	statsHandler := NewStatsHandler(deps.StatsUC, deps.ReportUC)
	dashboard := api.Group("/dashboard")
	dashboard.Get("/stats", statsHandler.GetStats)
	dashboard.Get("/stats/pdf", statsHandler.GetStatsPDF)

	// Libro mayor
	ledgerHandler := NewLedgerHandler(deps.RecordUC, deps.ListUC)

	purchases := api.Group("/purchases")
	purchases.Post("/", ledgerHandler.CreatePurchase)
	purchases.Get("/", ledgerHandler.List(entity.KindPurchase))

	transfers := api.Group("/transfers")
	transfers.Post("/", ledgerHandler.CreateTransfer)
	transfers.Get("/", ledgerHandler.List(entity.KindTransfer))
	transfers.Patch("/:id/status", ledgerHandler.UpdateTransferStatus)

	assignments := api.Group("/assignments")
	assignments.Post("/", ledgerHandler.CreateAssignment)
	assignments.Get("/", ledgerHandler.List(entity.KindAssignment))
	assignments.Post("/:id/returns", ledgerHandler.RecordReturn)

	expenditures := api.Group("/expenditures")
	expenditures.Post("/", ledgerHandler.CreateExpenditure)
	expenditures.Get("/", ledgerHandler.List(entity.KindExpenditure))

	// Datos de referencia: lectura para todos, alta solo admin
	refHandler := NewReferenceHandler(deps.BaseUC, deps.EquipmentTypeUC)
	adminOnly := RequireRole(entity.RoleAdmin)

	bases := api.Group("/bases")
	bases.Get("/", refHandler.ListBases)
	bases.Post("/", adminOnly, refHandler.CreateBase)
	bases.Get("/:id", refHandler.GetBase)

	equipment := api.Group("/equipment-types")
	equipment.Get("/", refHandler.ListEquipmentTypes)
	equipment.Post("/", adminOnly, refHandler.CreateEquipmentType)
}
