package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	appledger "github.com/jhoicas/asset-ledger/internal/application/ledger"
	"github.com/jhoicas/asset-ledger/internal/domain/entity"
)

// LedgerHandler escrituras y listados del libro mayor (compras, transferencias, asignaciones, gastos).
type LedgerHandler struct {
	records *appledger.RecordUseCase
	lists   *appledger.ListUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(records *appledger.RecordUseCase, lists *appledger.ListUseCase) *LedgerHandler {
	return &LedgerHandler{records: records, lists: lists}
}

// CreatePurchase godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreatePurchaseRequest  true  "base_id, equipment_type_id, quantity, supplier, purchase_date"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *LedgerHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.RecordPurchase(c.Context(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateTransfer godoc
// @Summary      Registrar transferencia entre bases
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateTransferRequest  true  "from_base_id, to_base_id, equipment_type_id, quantity, status"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *LedgerHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.RecordTransfer(c.Context(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateTransferStatus godoc
// @Summary      Cambiar estado de una transferencia
// @Description  pending → in_transit → completed; pending|in_transit → cancelled.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                           true  "ID de la transferencia"
// @Param        body  body      dto.UpdateTransferStatusRequest  true  "nuevo estado"
// @Success      200   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/status [patch]
func (h *LedgerHandler) UpdateTransferStatus(c *fiber.Ctx) error {
	var in dto.UpdateTransferStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.UpdateTransferStatus(c.Context(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateAssignment godoc
// @Summary      Asignar equipo a personal
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateAssignmentRequest  true  "base_id, equipment_type_id, personnel_name, assigned_quantity"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/assignments [post]
func (h *LedgerHandler) CreateAssignment(c *fiber.Ctx) error {
	var in dto.CreateAssignmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.RecordAssignment(c.Context(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RecordReturn godoc
// @Summary      Registrar devolución de una asignación
// @Tags         assignments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "ID de la asignación"
// @Param        body  body      dto.RecordReturnRequest  true  "quantity, return_date"
// @Success      200   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/assignments/{id}/returns [post]
func (h *LedgerHandler) RecordReturn(c *fiber.Ctx) error {
	var in dto.RecordReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.RecordReturn(c.Context(), GetCaller(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateExpenditure godoc
// @Summary      Registrar gasto (consumo o pérdida)
// @Tags         expenditures
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateExpenditureRequest  true  "base_id, equipment_type_id, quantity, reason"
// @Success      201   {object}  dto.RecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/expenditures [post]
func (h *LedgerHandler) CreateExpenditure(c *fiber.Ctx) error {
	var in dto.CreateExpenditureRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.records.RecordExpenditure(c.Context(), GetCaller(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar registros del libro mayor
// @Description  Mismo alcance que las estadísticas; más recientes primero. status solo aplica a transferencias.
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        base_id            query  string  false  "ID de la base"
// @Param        equipment_type_id  query  string  false  "ID del tipo de equipo"
// @Param        start_date         query  string  false  "Inicio inclusivo (YYYY-MM-DD)"
// @Param        end_date           query  string  false  "Fin inclusivo (YYYY-MM-DD)"
// @Param        status             query  string  false  "Estado (transferencias)"
// @Param        limit              query  int     false  "Límite"  default(20)
// @Param        offset             query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.RecordListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/purchases [get]
// @Router       /api/transfers [get]
// @Router       /api/assignments [get]
// @Router       /api/expenditures [get]
func (h *LedgerHandler) List(kind entity.RecordKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.ListRecordsRequest
		if err := c.QueryParser(&req); err != nil {
			return badQuery(c)
		}
		out, err := h.lists.List(c.Context(), GetCaller(c), kind, req)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(out)
	}
}
