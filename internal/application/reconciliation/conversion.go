package reconciliation

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// unitPair clave (from, to) normalizada a minúsculas.
type unitPair struct {
	from string
	to   string
}

// ConversionTable resuelve cantidades entre unidades usando las reglas
// cargadas para una corrida: reglas por ingrediente con prioridad sobre las
// globales para el mismo par, y fallback al par inverso con factor 1/f.
type ConversionTable struct {
	global map[unitPair]decimal.Decimal
	scoped map[int64]map[unitPair]decimal.Decimal
}

// NormalizeUnit normaliza un nombre de unidad para comparación y lookup.
func NormalizeUnit(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// NewConversionTable construye la tabla de dos niveles a partir de las reglas
// cargadas (globales + específicas de los ingredientes de la corrida).
func NewConversionTable(rows []entity.UnitConversion) *ConversionTable {
	t := &ConversionTable{
		global: make(map[unitPair]decimal.Decimal),
		scoped: make(map[int64]map[unitPair]decimal.Decimal),
	}
	for _, r := range rows {
		key := unitPair{from: NormalizeUnit(r.FromUnit), to: NormalizeUnit(r.ToUnit)}
		if key.from == "" || key.to == "" {
			continue
		}
		if r.IsGlobal || r.IngredientID == nil {
			t.global[key] = r.Factor
			continue
		}
		m, ok := t.scoped[*r.IngredientID]
		if !ok {
			m = make(map[unitPair]decimal.Decimal)
			t.scoped[*r.IngredientID] = m
		}
		m[key] = r.Factor
	}
	return t
}

// Factor busca el factor directo para (from, to): primero la regla del
// ingrediente, luego la global. ingredientID 0 consulta solo las globales.
func (t *ConversionTable) Factor(from, to string, ingredientID int64) (decimal.Decimal, bool) {
	key := unitPair{from: NormalizeUnit(from), to: NormalizeUnit(to)}
	if key.from == "" || key.to == "" {
		return decimal.Zero, false
	}
	if ingredientID != 0 {
		if m, ok := t.scoped[ingredientID]; ok {
			if f, ok := m[key]; ok {
				return f, true
			}
		}
	}
	f, ok := t.global[key]
	return f, ok
}

// Resolve convierte qty de from a to para el ingrediente dado. Nunca falla:
// ante una conversión ausente devuelve la cantidad sin convertir y el issue
// missing_conversion, porque la conciliación debe entregar resultados
// parciales aunque falten factores. El issue vacío significa conversión ok.
//
// Orden de resolución: misma unidad → factor directo (propio, luego global) →
// par inverso con 1/factor → passthrough con issue.
func (t *ConversionTable) Resolve(qty decimal.Decimal, from, to string, ingredientID int64) (decimal.Decimal, string) {
	fromN, toN := NormalizeUnit(from), NormalizeUnit(to)
	if fromN == "" || toN == "" || fromN == toN {
		return qty, ""
	}
	if f, ok := t.Factor(fromN, toN, ingredientID); ok {
		return qty.Mul(f), ""
	}
	if inv, ok := t.Factor(toN, fromN, ingredientID); ok && !inv.IsZero() {
		return qty.Div(inv), ""
	}
	return qty, domain.IssueMissingConversion
}

// ToBase normaliza qty desde fromUnit a la unidad base del ingrediente.
// Devuelve la cantidad convertida, la unidad resultante y el issue ("" = ok).
// Si la conversión falta, la cantidad y la unidad originales pasan intactas.
// Un ingrediente desconocido o sin unidad base cuenta como conversión
// ausente: no hay a qué convertir.
func (t *ConversionTable) ToBase(qty decimal.Decimal, fromUnit string, ing *entity.Ingredient) (decimal.Decimal, string, string) {
	if ing == nil || NormalizeUnit(ing.BaseUnit) == "" {
		return qty, NormalizeUnit(fromUnit), domain.IssueMissingConversion
	}
	converted, issue := t.Resolve(qty, fromUnit, ing.BaseUnit, ing.ID)
	if issue != "" {
		return qty, NormalizeUnit(fromUnit), issue
	}
	return converted, NormalizeUnit(ing.BaseUnit), ""
}
