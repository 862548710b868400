package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/foodcost-pro/internal/application/costing"
	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
	"github.com/tu-usuario/foodcost-pro/pkg/logger"
)

// MarginUseCase arma el reporte de margen diario: ventas netas por item
// contra el costo teórico de su receta.
type MarginUseCase struct {
	sales   repository.SalesRepository
	catalog repository.CatalogRepository
	costs   *costing.CostUseCase
	log     *logger.Logger
}

// NewMarginUseCase construye el caso de uso de márgenes.
func NewMarginUseCase(
	sales repository.SalesRepository,
	catalog repository.CatalogRepository,
	costs *costing.CostUseCase,
	log *logger.Logger,
) *MarginUseCase {
	return &MarginUseCase{sales: sales, catalog: catalog, costs: costs, log: log}
}

// DailyMargin reporte de margen de una fecha de negocio. El costo por unidad
// sale del costo almacenado en el item si existe; si no, se resuelve desde la
// receta. Items sin costo resoluble quedan en el reporte con costo nulo y su
// margen igual a las ventas netas.
func (uc *MarginUseCase) DailyMargin(ctx context.Context, businessDate time.Time) (*dto.DailyMarginReport, error) {
	aggregates, err := uc.sales.LoadDailyAggregates(ctx, businessDate)
	if err != nil {
		return nil, fmt.Errorf("agregar ventas del día: %w", err)
	}

	report := &dto.DailyMarginReport{
		Date:  businessDate.Format("2006-01-02"),
		Items: make([]dto.DailyMarginRow, 0, len(aggregates)),
	}
	if len(aggregates) == 0 {
		return report, nil
	}

	items, err := uc.catalog.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar items: %w", err)
	}
	storedCost := make(map[int64]*decimal.Decimal, len(items))
	for _, it := range items {
		storedCost[it.ID] = it.Cost
	}

	// Resolver por receta solo los items mapeados sin costo almacenado.
	var toResolve []int64
	for _, agg := range aggregates {
		if agg.ItemID == 0 {
			continue
		}
		if c, ok := storedCost[agg.ItemID]; !ok || c == nil {
			toResolve = append(toResolve, agg.ItemID)
		}
	}
	resolved := map[int64]*dto.ItemCostResult{}
	if len(toResolve) > 0 {
		resolved, err = uc.costs.ItemCostsPerUnit(ctx, toResolve)
		if err != nil {
			return nil, fmt.Errorf("resolver costos de receta: %w", err)
		}
	}

	hundred := decimal.NewFromInt(100)
	for _, agg := range aggregates {
		row := dto.DailyMarginRow{
			ItemID:   agg.ItemID,
			ItemName: agg.ItemName,
			QtySold:  agg.QtySold,
			NetSales: agg.NetSales,
		}

		var costPerUnit *decimal.Decimal
		if agg.ItemID != 0 {
			if c, ok := storedCost[agg.ItemID]; ok && c != nil {
				costPerUnit = c
			} else if res, ok := resolved[agg.ItemID]; ok && res.Status != costing.StatusError {
				costPerUnit = res.CostPerUnit
			}
		}

		margin := agg.NetSales
		if costPerUnit != nil {
			total := costPerUnit.Mul(agg.QtySold)
			row.CostPerUnit = costPerUnit
			row.TotalCost = &total
			margin = agg.NetSales.Sub(total)
			report.Totals.CostOfGoods = report.Totals.CostOfGoods.Add(total)
		}
		row.Margin = margin
		if !agg.NetSales.IsZero() {
			pct := margin.Div(agg.NetSales).Mul(hundred).Round(2)
			row.MarginPct = &pct
		}

		report.Totals.NetSales = report.Totals.NetSales.Add(agg.NetSales)
		report.Totals.Margin = report.Totals.Margin.Add(margin)
		report.Items = append(report.Items, row)
	}

	// Mayor venta primero para que el reporte lea de arriba hacia abajo.
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].NetSales.GreaterThan(report.Items[j].NetSales)
	})

	uc.log.Debug().
		Str("fecha", report.Date).
		Int("items", len(report.Items)).
		Msg("reporte de margen diario generado")

	return report, nil
}
