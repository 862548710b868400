package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/foodcost-pro/internal/application/costing"
	"github.com/tu-usuario/foodcost-pro/internal/application/counting"
	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/application/reporting"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine   *reconciliation.Engine
	CostUC   *costing.CostUseCase
	MarginUC *reporting.MarginUseCase
	CountUC  *counting.CountUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Conciliación y consumo teórico
	reconHandler := NewReconciliationHandler(deps.Engine)
	api.Get("/inventory/reconciliation/latest", reconHandler.Latest)
	api.Get("/ingredients/:id/usage", reconHandler.IngredientUsage)

	// Costeo
	costHandler := NewCostingHandler(deps.CostUC)
	api.Get("/ingredient_cost/:id", costHandler.IngredientCost)
	api.Get("/item_cost/:id", costHandler.ItemCost)

	// Reportes
	reportHandler := NewReportHandler(deps.MarginUC)
	api.Get("/reports/daily_margin", reportHandler.DailyMargin)

	// Registro de inventario
	countHandler := NewCountingHandler(deps.CountUC)
	api.Post("/inventory/counts", countHandler.RecordCounts)
	api.Post("/inventory/adjustment", countHandler.RecordAdjustment)
	api.Post("/receiving", countHandler.RecordReceiving)
}
