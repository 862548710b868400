package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/application/reporting"
)

// ReportHandler expone los reportes operativos.
type ReportHandler struct {
	margins *reporting.MarginUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(margins *reporting.MarginUseCase) *ReportHandler {
	return &ReportHandler{margins: margins}
}

// DailyMargin devuelve el margen por item de una fecha de negocio.
// Query param obligatorio: business_date (YYYY-MM-DD).
func (h *ReportHandler) DailyMargin(c *fiber.Ctx) error {
	raw := c.Query("business_date")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "business_date requerido"})
	}
	businessDate, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "business_date inválido, formato YYYY-MM-DD"})
	}

	report, err := h.margins.DailyMargin(c.Context(), businessDate)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(report)
}
