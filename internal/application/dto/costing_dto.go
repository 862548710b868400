package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostIssue detalle de un problema encontrado al resolver un costo.
type CostIssue struct {
	Code         string `json:"code"`
	IngredientID int64  `json:"ingredient_id,omitempty"`
	ItemID       int64  `json:"item_id,omitempty"`
	FromUnit     string `json:"from_unit,omitempty"`
	ToUnit       string `json:"to_unit,omitempty"`
}

// IngredientCostResult costo de un ingrediente en la unidad de receta pedida,
// derivado de su cotización de precio más reciente.
type IngredientCostResult struct {
	Status       string           `json:"status"`
	IngredientID int64            `json:"ingredient_id"`
	RecipeUnit   string           `json:"recipe_unit,omitempty"`
	Quantity     decimal.Decimal  `json:"quantity"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit,omitempty"`
	TotalCost    *decimal.Decimal `json:"total_cost,omitempty"`
	QuoteDate    *time.Time       `json:"quote_date,omitempty"`
	QuoteSource  string           `json:"source,omitempty"`
	Issues       []CostIssue      `json:"issues,omitempty"`
}

// ItemCostResult costo recursivo de un item preparado.
type ItemCostResult struct {
	Status      string           `json:"status"`
	ItemID      int64            `json:"item_id"`
	ItemName    string           `json:"item_name,omitempty"`
	RecipeUnit  string           `json:"recipe_unit,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	CostPerUnit *decimal.Decimal `json:"cost_per_unit,omitempty"`
	TotalCost   *decimal.Decimal `json:"total_cost,omitempty"`
	Issues      []CostIssue      `json:"issues,omitempty"`
}
