package reconciliation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de la tabla de conversión de unidades: prioridad de reglas por
// ingrediente sobre globales, fallback al par inverso con 1/factor y el
// passthrough con issue cuando no hay regla. La conciliación depende de que
// Resolve nunca falle: una conversión ausente degrada el número, no la corrida.
// ──────────────────────────────────────────────────────────────────────────────

func ptrInt64(v int64) *int64 { return &v }

func conv(ingredientID *int64, from, to string, factor float64) entity.UnitConversion {
	return entity.UnitConversion{
		IngredientID: ingredientID,
		FromUnit:     from,
		ToUnit:       to,
		Factor:       decimal.NewFromFloat(factor),
		IsGlobal:     ingredientID == nil,
	}
}

func TestConversionTable_FactorDirectoGlobal(t *testing.T) {
	table := reconciliation.NewConversionTable([]entity.UnitConversion{
		conv(nil, "lb", "oz", 16),
	})

	got, issue := table.Resolve(decimal.NewFromInt(2), "lb", "oz", 0)
	assert.Empty(t, issue)
	assert.True(t, got.Equal(decimal.NewFromInt(32)), "2 lb deben ser 32 oz, got %s", got)
}

func TestConversionTable_FallbackInverso(t *testing.T) {
	// Solo existe oz -> lb; convertir lb -> oz debe usar 1/factor.
	table := reconciliation.NewConversionTable([]entity.UnitConversion{
		conv(nil, "oz", "lb", 0.0625),
	})

	got, issue := table.Resolve(decimal.NewFromInt(2), "lb", "oz", 0)
	assert.Empty(t, issue)
	assert.True(t, got.Equal(decimal.NewFromInt(32)), "el inverso de 0.0625 debe dar 32 oz, got %s", got)
}

func TestConversionTable_DirectoGanaAlInverso(t *testing.T) {
	// Con ambas direcciones definidas cada una se usa tal cual, sin derivar
	// la una de la otra (pueden ser deliberadamente asimétricas).
	table := reconciliation.NewConversionTable([]entity.UnitConversion{
		conv(nil, "lb", "oz", 16),
		conv(nil, "oz", "lb", 0.061), // merma al moler
	})

	ida, _ := table.Resolve(decimal.NewFromInt(1), "lb", "oz", 0)
	vuelta, _ := table.Resolve(decimal.NewFromInt(16), "oz", "lb", 0)

	assert.True(t, ida.Equal(decimal.NewFromInt(16)))
	assert.True(t, vuelta.Equal(decimal.NewFromFloat(0.976)), "la vuelta usa su propio factor, got %s", vuelta)
}

func TestConversionTable_ReglaDelIngredienteTienePrioridad(t *testing.T) {
	// La harina se empaca distinto: su regla propia pisa la global.
	table := reconciliation.NewConversionTable([]entity.UnitConversion{
		conv(nil, "bag", "lb", 50),
		conv(ptrInt64(7), "bag", "lb", 25),
	})

	propia, _ := table.Resolve(decimal.NewFromInt(1), "bag", "lb", 7)
	global, _ := table.Resolve(decimal.NewFromInt(1), "bag", "lb", 99)

	assert.True(t, propia.Equal(decimal.NewFromInt(25)), "ingrediente 7 usa su regla propia")
	assert.True(t, global.Equal(decimal.NewFromInt(50)), "otros ingredientes usan la global")
}

func TestConversionTable_MismaUnidadPassthrough(t *testing.T) {
	table := reconciliation.NewConversionTable(nil)

	got, issue := table.Resolve(decimal.NewFromFloat(3.5), "Lb ", "lb", 0)
	assert.Empty(t, issue, "unidades iguales tras normalizar no necesitan regla")
	assert.True(t, got.Equal(decimal.NewFromFloat(3.5)))
}

func TestConversionTable_ConversionAusente(t *testing.T) {
	table := reconciliation.NewConversionTable(nil)

	got, issue := table.Resolve(decimal.NewFromInt(5), "each", "lb", 0)
	assert.Equal(t, domain.IssueMissingConversion, issue)
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "sin regla la cantidad pasa intacta")
}

func TestConversionTable_ToBase(t *testing.T) {
	table := reconciliation.NewConversionTable([]entity.UnitConversion{
		conv(nil, "oz", "lb", 0.0625),
	})
	harina := &entity.Ingredient{ID: 7, Name: "Harina", BaseUnit: "lb"}

	qty, unit, issue := table.ToBase(decimal.NewFromInt(32), "oz", harina)
	require.Empty(t, issue)
	assert.True(t, qty.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "lb", unit)
}

func TestConversionTable_ToBaseSinIngrediente(t *testing.T) {
	table := reconciliation.NewConversionTable(nil)

	qty, unit, issue := table.ToBase(decimal.NewFromInt(4), "Each", nil)
	assert.Equal(t, domain.IssueMissingConversion, issue, "sin ingrediente no hay unidad base a la cual convertir")
	assert.True(t, qty.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "each", unit, "la unidad cruda normalizada pasa intacta")

	sinBase := &entity.Ingredient{ID: 9, Name: "Misceláneo"}
	qty, unit, issue = table.ToBase(decimal.NewFromInt(4), "Each", sinBase)
	assert.Equal(t, domain.IssueMissingConversion, issue, "ingrediente sin unidad base declarada, mismo caso")
	assert.True(t, qty.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, "each", unit)
}
