package entity

import "github.com/shopspring/decimal"

// UnitConversion es una regla de conversión entre unidades:
// cantidad_en_to_unit = cantidad_en_from_unit * Factor.
// Las reglas globales (IsGlobal=true, IngredientID nil) aplican a cualquier
// ingrediente que no tenga una regla propia para el mismo par (from, to).
type UnitConversion struct {
	ID           int64
	IngredientID *int64 // nil cuando IsGlobal
	FromUnit     string
	ToUnit       string
	Factor       decimal.Decimal
	IsGlobal     bool
}
