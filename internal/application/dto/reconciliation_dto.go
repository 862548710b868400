package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountSnapshot es la foto de un conteo físico tal como participa en la
// conciliación: cantidad contada y cantidad normalizada.
type CountSnapshot struct {
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	QuantityBase decimal.Decimal `json:"quantity_base"`
	BaseUnit     string          `json:"base_unit"`
	Location     string          `json:"location,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UserID       int64           `json:"user_id,omitempty"`
}

// PurchaseDetail es una recepción individual dentro de la ventana, para
// mostrar junto al total (limitado a las más recientes).
type PurchaseDetail struct {
	Ts           time.Time       `json:"ts"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	QuantityBase decimal.Decimal `json:"quantity_base"`
	BaseUnit     string          `json:"base_unit"`
}

// UsageBreakdownRow atribuye consumo de un ingrediente a un item del menú.
type UsageBreakdownRow struct {
	ItemID     int64           `json:"item_id"`
	ItemName   string          `json:"item_name"`
	QtySold    decimal.Decimal `json:"qty_sold"`
	UsageBase  decimal.Decimal `json:"usage_base"`
	RecipeUnit string          `json:"recipe_unit,omitempty"`
}

// ConversionIssue documenta una conversión que no pudo aplicarse al sumar en
// unidad canónica. Kind indica el flujo afectado (purchase, adjustment,
// sales_usage, previous_count, latest_count, sales_breakdown).
type ConversionIssue struct {
	Kind   string `json:"kind"`
	Unit   string `json:"unit"`
	Target string `json:"target"`
	Detail string `json:"detail"`
}

// ReconciliationResult es el resultado por ingrediente de una corrida.
// Expected y Variance son nil cuando no existe conteo anterior (historial
// insuficiente); compras/ajustes/consumo se reportan igual por visibilidad.
type ReconciliationResult struct {
	IngredientID     int64             `json:"ingredient_id"`
	IngredientName   string            `json:"ingredient_name"`
	CanonicalUnit    string            `json:"canonical_unit,omitempty"`
	LatestCount      CountSnapshot     `json:"latest_count"`
	PreviousCount    *CountSnapshot    `json:"previous_count,omitempty"`
	PurchasesBase    decimal.Decimal   `json:"purchases_base"`
	Purchases        []PurchaseDetail  `json:"purchases"`
	AdjustmentsBase  decimal.Decimal   `json:"adjustments_base"`
	SalesUsageBase   decimal.Decimal   `json:"sales_usage_base"`
	ExpectedBase     *decimal.Decimal  `json:"expected_base,omitempty"`
	VarianceBase     *decimal.Decimal  `json:"variance_base,omitempty"`
	SalesBreakdown   []UsageBreakdownRow `json:"sales_breakdown"`
	ConversionIssues []ConversionIssue `json:"conversion_issues"`
}

// ReconciliationMeta resume la corrida: cuántos ingredientes se escanearon y
// cuánto volumen de ventas quedó sin atribuir, con la ventana de display.
type ReconciliationMeta struct {
	Message                   string                     `json:"message,omitempty"`
	IngredientsScanned        int                        `json:"ingredients_scanned"`
	SalesSkippedNoItem        decimal.Decimal            `json:"sales_skipped_no_item"`
	SalesSkippedMissingRecipe map[string]decimal.Decimal `json:"sales_skipped_missing_recipe"`
	SalesSkippedComputeErrors map[string]decimal.Decimal `json:"sales_skipped_compute_errors"`
	WindowStart               time.Time                  `json:"window_start"`
	WindowEnd                 time.Time                  `json:"window_end"`
}

// ReconciliationReport es la respuesta completa de reconcile: resultados
// ordenados por |variance| descendente más el bloque meta.
type ReconciliationReport struct {
	Results []ReconciliationResult `json:"results"`
	Meta    ReconciliationMeta     `json:"meta"`
}

// IngredientUsageReport es el reporte de consumo de un solo ingrediente
// derivado de ventas en una ventana.
type IngredientUsageReport struct {
	IngredientID   int64               `json:"ingredient_id"`
	IngredientName string              `json:"ingredient_name"`
	BaseUnit       string              `json:"base_unit,omitempty"`
	UsageBase      decimal.Decimal     `json:"usage_base"`
	WindowStart    time.Time           `json:"window_start"`
	WindowEnd      time.Time           `json:"window_end"`
	Breakdown      []UsageBreakdownRow `json:"breakdown"`
}
