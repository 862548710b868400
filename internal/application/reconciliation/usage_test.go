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
// Tests del resolutor de consumo por unidad: recorrido del grafo de recetas
// con escalado por rendimiento, terminación ante ciclos y acumulación de
// issues sin abortar. El caso Salsa/Pasta es el de referencia: 0.5 lb de
// tomate por tanda de 10 porciones deben dar 0.05 lb por porción vendida.
// ──────────────────────────────────────────────────────────────────────────────

func newResolver(items []entity.Item, comps []entity.RecipeComponent, convs []entity.UnitConversion, ings []entity.Ingredient) *reconciliation.UsageResolver {
	graph := reconciliation.NewRecipeGraph(items, comps)
	table := reconciliation.NewConversionTable(convs)
	return reconciliation.NewUsageResolver(graph, table, ings)
}

func TestUsageResolver_EscaladoPorRendimiento(t *testing.T) {
	items := []entity.Item{
		{ID: 1, Name: "Pasta", YieldQty: decimal.NewFromInt(1), YieldUnit: "each"},
		{ID: 2, Name: "Salsa", IsPrep: true, YieldQty: decimal.NewFromInt(10), YieldUnit: "serving"},
	}
	comps := []entity.RecipeComponent{
		itemComp(1, 2, 1, "serving"),
		ingredientComp(2, 101, 0.5, "lb"),
	}
	ings := []entity.Ingredient{{ID: 101, Name: "Tomate", BaseUnit: "lb"}}

	r := newResolver(items, comps, nil, ings)
	res := r.PerUnit(1, "each")

	require.Equal(t, reconciliation.StatusOK, res.Status, "issues: %+v", res.Issues)
	usage, ok := res.Ingredients[101]
	require.True(t, ok)
	assert.True(t, usage.QuantityBase.Equal(decimal.NewFromFloat(0.05)),
		"0.5 lb por tanda de 10 porciones = 0.05 lb por porción, got %s", usage.QuantityBase)
	assert.Equal(t, "lb", usage.BaseUnit)
}

func TestUsageResolver_ConversionDeRendimiento(t *testing.T) {
	// Salsa rinde 2 qt por tanda; la receta la pide en cups. Con qt→cup=4
	// la tanda produce 8 cups y cada cup lleva 0.5/8 lb de tomate.
	items := []entity.Item{
		{ID: 2, Name: "Salsa", IsPrep: true, YieldQty: decimal.NewFromInt(2), YieldUnit: "qt"},
	}
	comps := []entity.RecipeComponent{ingredientComp(2, 101, 0.5, "lb")}
	convs := []entity.UnitConversion{conv(nil, "qt", "cup", 4)}
	ings := []entity.Ingredient{{ID: 101, Name: "Tomate", BaseUnit: "lb"}}

	r := newResolver(items, comps, convs, ings)
	res := r.PerUnit(2, "cup")

	require.Equal(t, reconciliation.StatusOK, res.Status)
	assert.True(t, res.Ingredients[101].QuantityBase.Equal(decimal.NewFromFloat(0.0625)),
		"got %s", res.Ingredients[101].QuantityBase)
}

func TestUsageResolver_ConversionDeRendimientoAusente(t *testing.T) {
	// Sin regla qt→cup el factor queda en 1 y se reporta el issue: degradar
	// el número es preferible a perder la fila completa.
	items := []entity.Item{
		{ID: 2, Name: "Salsa", IsPrep: true, YieldQty: decimal.NewFromInt(2), YieldUnit: "qt"},
	}
	comps := []entity.RecipeComponent{ingredientComp(2, 101, 0.5, "lb")}
	ings := []entity.Ingredient{{ID: 101, Name: "Tomate", BaseUnit: "lb"}}

	r := newResolver(items, comps, nil, ings)
	res := r.PerUnit(2, "cup")

	require.Equal(t, reconciliation.StatusWarning, res.Status)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, domain.IssueMissingYieldConversion, res.Issues[0].Code)
	assert.True(t, res.Ingredients[101].QuantityBase.Equal(decimal.NewFromFloat(0.25)))
}

func TestUsageResolver_CicloTermina(t *testing.T) {
	items := []entity.Item{
		{ID: 10, Name: "Salsa A", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "cup"},
		{ID: 11, Name: "Salsa B", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "cup"},
	}
	comps := []entity.RecipeComponent{
		itemComp(10, 11, 1, "cup"),
		itemComp(11, 10, 1, "cup"),
	}

	r := newResolver(items, comps, nil, nil)
	res := r.PerUnit(10, "cup")

	// El ciclo se detecta en el nieto; el padre sobrevive con warning.
	require.Equal(t, reconciliation.StatusWarning, res.Status)
	require.NotEmpty(t, res.Issues)
	assert.Equal(t, domain.IssueCircular, res.Issues[0].Code)
	assert.Empty(t, res.Ingredients)
}

func TestUsageResolver_HermanosCompartenPrepSinFalsoCiclo(t *testing.T) {
	// Dos salsas del mismo plato usan la misma base: la segunda rama no debe
	// heredar el visited de la primera y reportar un ciclo falso.
	items := []entity.Item{
		{ID: 23, Name: "Plato", YieldQty: decimal.NewFromInt(1), YieldUnit: "each"},
		{ID: 21, Name: "Salsa roja", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "cup"},
		{ID: 22, Name: "Salsa blanca", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "cup"},
		{ID: 20, Name: "Base", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "cup"},
	}
	comps := []entity.RecipeComponent{
		itemComp(23, 21, 1, "cup"),
		itemComp(23, 22, 1, "cup"),
		itemComp(21, 20, 1, "cup"),
		itemComp(22, 20, 1, "cup"),
		ingredientComp(20, 101, 0.2, "lb"),
	}
	ings := []entity.Ingredient{{ID: 101, Name: "Crema", BaseUnit: "lb"}}

	r := newResolver(items, comps, nil, ings)
	res := r.PerUnit(23, "each")

	require.Equal(t, reconciliation.StatusOK, res.Status, "issues: %+v", res.Issues)
	assert.True(t, res.Ingredients[101].QuantityBase.Equal(decimal.NewFromFloat(0.4)),
		"ambas ramas aportan 0.2 lb, got %s", res.Ingredients[101].QuantityBase)
}

func TestUsageResolver_RecetaAusente(t *testing.T) {
	r := newResolver(nil, nil, nil, nil)
	res := r.PerUnit(99, "each")

	require.Equal(t, reconciliation.StatusError, res.Status)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, domain.IssueMissingRecipe, res.Issues[0].Code)
}

func TestUsageResolver_SourceTypeDesconocido(t *testing.T) {
	items := []entity.Item{{ID: 1, Name: "Raro", YieldQty: decimal.NewFromInt(1), YieldUnit: "each"}}
	comps := []entity.RecipeComponent{
		{ItemID: 1, Source: entity.SourceRef{Kind: "gadget", ID: 5}, Quantity: decimal.NewFromInt(1), Unit: "each"},
	}

	r := newResolver(items, comps, nil, nil)
	res := r.PerUnit(1, "each")

	require.Equal(t, reconciliation.StatusWarning, res.Status)
	assert.Equal(t, domain.IssueUnknownSourceType, res.Issues[0].Code)
}

func TestUsageResolver_IngredienteFueraDeCatalogo(t *testing.T) {
	// Una línea de receta que referencia un ingrediente archivado o borrado:
	// el consumo se atribuye igual en la unidad cruda, con el issue a la vista.
	items := []entity.Item{{ID: 1, Name: "Pasta", YieldQty: decimal.NewFromInt(1), YieldUnit: "each"}}
	comps := []entity.RecipeComponent{ingredientComp(1, 404, 0.3, "lb")}

	r := newResolver(items, comps, nil, nil)
	res := r.PerUnit(1, "each")

	require.Equal(t, reconciliation.StatusWarning, res.Status)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, domain.IssueMissingConversion, res.Issues[0].Code)
	assert.True(t, res.Ingredients[404].QuantityBase.Equal(decimal.NewFromFloat(0.3)),
		"got %s", res.Ingredients[404].QuantityBase)
	assert.Equal(t, "lb", res.Ingredients[404].BaseUnit)
}

func TestUsageResolver_RendimientoCeroSeFijaEnUno(t *testing.T) {
	items := []entity.Item{
		{ID: 2, Name: "Salsa", IsPrep: true, YieldQty: decimal.Zero, YieldUnit: "cup"},
	}
	comps := []entity.RecipeComponent{ingredientComp(2, 101, 0.5, "lb")}
	ings := []entity.Ingredient{{ID: 101, Name: "Tomate", BaseUnit: "lb"}}

	r := newResolver(items, comps, nil, ings)
	res := r.PerUnit(2, "cup")

	require.Equal(t, reconciliation.StatusWarning, res.Status)
	assert.Equal(t, domain.IssueZeroEffectiveYield, res.Issues[0].Code)
	assert.True(t, res.Ingredients[101].QuantityBase.Equal(decimal.NewFromFloat(0.5)),
		"con yield fijado en 1 la cantidad pasa sin dividir")
}
