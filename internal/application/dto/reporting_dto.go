package dto

import "github.com/shopspring/decimal"

// DailyMarginRow margen de un item en el día: ventas netas contra costo
// teórico de la receta.
type DailyMarginRow struct {
	ItemID      int64            `json:"item_id,omitempty"`
	ItemName    string           `json:"item_name"`
	QtySold     decimal.Decimal  `json:"qty_sold"`
	NetSales    decimal.Decimal  `json:"net_sales"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
	Margin      decimal.Decimal  `json:"margin"`
	MarginPct   *decimal.Decimal `json:"margin_pct,omitempty"`
}

// DailyMarginTotals agregados del día. CostOfGoods solo suma items con costo
// resoluble, igual que Margin los descuenta.
type DailyMarginTotals struct {
	NetSales    decimal.Decimal `json:"net_sales"`
	CostOfGoods decimal.Decimal `json:"cost_of_goods"`
	Margin      decimal.Decimal `json:"margin"`
}

// DailyMarginReport reporte de margen de un día de negocio.
type DailyMarginReport struct {
	Date   string            `json:"date"`
	Items  []DailyMarginRow  `json:"items"`
	Totals DailyMarginTotals `json:"totals"`
}
