package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
)

// ReconciliationHandler expone la conciliación de inventario y el reporte de
// consumo por ingrediente.
type ReconciliationHandler struct {
	engine *reconciliation.Engine
}

// NewReconciliationHandler construye el handler.
func NewReconciliationHandler(engine *reconciliation.Engine) *ReconciliationHandler {
	return &ReconciliationHandler{engine: engine}
}

// Latest devuelve la conciliación de los dos últimos conteos por ingrediente.
// Query params: lookback_days (default 45), ingredient_id (filtro opcional).
func (h *ReconciliationHandler) Latest(c *fiber.Ctx) error {
	lookbackDays := c.QueryInt("lookback_days", 0)

	var ingredientFilter int64
	if raw := c.Query("ingredient_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "ingredient_id inválido"})
		}
		ingredientFilter = id
	}

	report, err := h.engine.Reconcile(c.Context(), lookbackDays, ingredientFilter)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(report)
}

// IngredientUsage devuelve el consumo teórico de un ingrediente desglosado
// por item vendido. Query params: lookback_days, start, end (YYYY-MM-DD).
func (h *ReconciliationHandler) IngredientUsage(c *fiber.Ctx) error {
	ingredientID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de ingrediente inválido"})
	}

	var start, end time.Time
	if raw := c.Query("start"); raw != "" {
		if start, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start inválido, formato YYYY-MM-DD"})
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err = time.Parse("2006-01-02", raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end inválido, formato YYYY-MM-DD"})
		}
	}

	report, err := h.engine.UsageForIngredient(c.Context(), ingredientID, c.QueryInt("lookback_days", 0), start, end)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(report)
}
