package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/asset-ledger/internal/application/dto"
	"github.com/jhoicas/asset-ledger/internal/application/usecase"
)

// ReferenceHandler bases y tipos de equipo.
type ReferenceHandler struct {
	bases     *usecase.BaseUseCase
	equipment *usecase.EquipmentTypeUseCase
}

// NewReferenceHandler construye el handler.
func NewReferenceHandler(bases *usecase.BaseUseCase, equipment *usecase.EquipmentTypeUseCase) *ReferenceHandler {
	return &ReferenceHandler{bases: bases, equipment: equipment}
}

// CreateBase godoc
// @Summary      Crear base
// @Tags         bases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateBaseRequest  true  "Datos de la base"
// @Success      201   {object}  dto.BaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/bases [post]
func (h *ReferenceHandler) CreateBase(c *fiber.Ctx) error {
	var in dto.CreateBaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.bases.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetBase godoc
// @Summary      Obtener base por ID
// @Tags         bases
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la base"
// @Success      200  {object}  dto.BaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bases/{id} [get]
func (h *ReferenceHandler) GetBase(c *fiber.Ctx) error {
	out, err := h.bases.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListBases godoc
// @Summary      Listar bases
// @Tags         bases
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BaseResponse
// @Router       /api/bases [get]
func (h *ReferenceHandler) ListBases(c *fiber.Ctx) error {
	out, err := h.bases.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateEquipmentType godoc
// @Summary      Crear tipo de equipo
// @Tags         equipment-types
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateEquipmentTypeRequest  true  "Datos del tipo de equipo"
// @Success      201   {object}  dto.EquipmentTypeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment-types [post]
func (h *ReferenceHandler) CreateEquipmentType(c *fiber.Ctx) error {
	var in dto.CreateEquipmentTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.equipment.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEquipmentTypes godoc
// @Summary      Listar tipos de equipo
// @Tags         equipment-types
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EquipmentTypeResponse
// @Router       /api/equipment-types [get]
func (h *ReferenceHandler) ListEquipmentTypes(c *fiber.Ctx) error {
	out, err := h.equipment.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
