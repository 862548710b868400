package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/foodcost-pro/internal/application/counting"
	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
)

// CountingHandler expone el registro de conteos, ajustes y recepciones.
type CountingHandler struct {
	uc *counting.CountUseCase
}

// NewCountingHandler construye el handler.
func NewCountingHandler(uc *counting.CountUseCase) *CountingHandler {
	return &CountingHandler{uc: uc}
}

// RecordCounts inserta un lote de conteos físicos.
func (h *CountingHandler) RecordCounts(c *fiber.Ctx) error {
	var scans []dto.CountScanRequest
	if err := c.BodyParser(&scans); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	resp, err := h.uc.RecordCounts(c.Context(), scans, userIDFromHeader(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// RecordAdjustment registra una corrección manual de stock.
func (h *CountingHandler) RecordAdjustment(c *fiber.Ctx) error {
	var req dto.AdjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	if err := h.uc.RecordAdjustment(c.Context(), req, userIDFromHeader(c)); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"status": "ajuste registrado"})
}

// RecordReceiving registra una entrega de proveedor.
func (h *CountingHandler) RecordReceiving(c *fiber.Ctx) error {
	var req dto.ReceivingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	resp, err := h.uc.RecordReceiving(c.Context(), req)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// userIDFromHeader toma el usuario del header X-User-ID que setea el gateway
// del restaurante. Sin header el registro queda atribuido al usuario 1, igual
// que hacía el flujo del escáner.
func userIDFromHeader(c *fiber.Ctx) int64 {
	raw := c.Get("X-User-ID")
	if raw == "" {
		return 1
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 1
	}
	return id
}
