package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/foodcost-pro/internal/application/costing"
	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
)

// CostingHandler expone la resolución de costos de ingredientes e items.
type CostingHandler struct {
	uc *costing.CostUseCase
}

// NewCostingHandler construye el handler.
func NewCostingHandler(uc *costing.CostUseCase) *CostingHandler {
	return &CostingHandler{uc: uc}
}

// IngredientCost devuelve el costo de un ingrediente en la unidad pedida.
// Query params: unit (unidad de receta), qty (default 1).
func (h *CostingHandler) IngredientCost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de ingrediente inválido"})
	}
	qty, err := parseQty(c.Query("qty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválida"})
	}

	result, err := h.uc.IngredientCost(c.Context(), id, c.Query("unit"), qty)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

// ItemCost devuelve el costo recursivo de un item preparado.
// Query params: unit (unidad de receta), qty (default 1).
func (h *CostingHandler) ItemCost(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de item inválido"})
	}
	qty, err := parseQty(c.Query("qty"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "qty inválida"})
	}

	result, err := h.uc.ItemCost(c.Context(), id, c.Query("unit"), qty)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(result)
}

func parseQty(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.NewFromInt(1), nil
	}
	return decimal.NewFromString(raw)
}
