package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
)

// StatsHandler endpoints del dashboard de conciliación.
type StatsHandler struct {
	stats  *appledger.StatsUseCase
	report *appledger.ReportUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(stats *appledger.StatsUseCase, report *appledger.ReportUseCase) *StatsHandler {
	return &StatsHandler{stats: stats, report: report}
}

// GetStats godoc
// @Summary      Conciliación de balances
// @Description  Balance de apertura y cierre, movimiento neto y desglose por tipo de equipo.
// @Description  Para roles distintos de admin la base se fuerza a la asignada en el token.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        base_id            query  string  false  "ID de la base (solo admin puede elegir)"
// @Param        equipment_type_id  query  string  false  "ID del tipo de equipo"
// @Param        start_date         query  string  false  "Inicio inclusivo (YYYY-MM-DD)"
// @Param        end_date           query  string  false  "Fin inclusivo (YYYY-MM-DD), por defecto hoy"
// @Success      200  {object}  dto.StatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	var req dto.StatsRequest
	if err := c.QueryParser(&req); err != nil {
		return badQuery(c)
	}
	out, err := h.stats.GetStats(c.Context(), GetCaller(c), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetStatsPDF godoc
// @Summary      Reporte PDF de la conciliación
// @Tags         dashboard
// @Security     Bearer
// @Produce      application/pdf
// @Param        base_id            query  string  false  "ID de la base (solo admin puede elegir)"
// @Param        equipment_type_id  query  string  false  "ID del tipo de equipo"
// @Param        start_date         query  string  false  "Inicio inclusivo (YYYY-MM-DD)"
// @Param        end_date           query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/dashboard/stats/pdf [get]
func (h *StatsHandler) GetStatsPDF(c *fiber.Ctx) error {
	var req dto.StatsRequest
	if err := c.QueryParser(&req); err != nil {
		return badQuery(c)
	}
	doc, err := h.report.StatsPDF(c.Context(), GetCaller(c), req)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="conciliacion.pdf"`)
	return c.Send(doc)
}
