package reconciliation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

func ingredientComp(itemID, ingredientID int64, qty float64, unit string) entity.RecipeComponent {
	return entity.RecipeComponent{
		ItemID:   itemID,
		Source:   entity.SourceRef{Kind: entity.SourceIngredient, ID: ingredientID},
		Quantity: decimal.NewFromFloat(qty),
		Unit:     unit,
	}
}

func itemComp(itemID, childItemID int64, qty float64, unit string) entity.RecipeComponent {
	return entity.RecipeComponent{
		ItemID:   itemID,
		Source:   entity.SourceRef{Kind: entity.SourceItem, ID: childItemID},
		Quantity: decimal.NewFromFloat(qty),
		Unit:     unit,
	}
}

func TestDependencyClosure_DependenciaTransitiva(t *testing.T) {
	// Burger usa Patty (prep), Patty usa carne. Burger depende de la carne
	// aunque no la liste directamente.
	items := []entity.Item{
		{ID: 1, Name: "Burger", YieldQty: decimal.NewFromInt(1), YieldUnit: "each"},
		{ID: 2, Name: "Patty", IsPrep: true, YieldQty: decimal.NewFromInt(1), YieldUnit: "each"},
	}
	comps := []entity.RecipeComponent{
		itemComp(1, 2, 1, "each"),
		ingredientComp(1, 100, 1, "each"), // pan
		ingredientComp(2, 101, 0.25, "lb"), // carne
	}
	graph := reconciliation.NewRecipeGraph(items, comps)

	closure := reconciliation.NewDependencyClosure(graph, []int64{101})
	assert.True(t, closure.DependsOn(1), "Burger depende de la carne vía Patty")
	assert.True(t, closure.DependsOn(2))

	soloPan := reconciliation.NewDependencyClosure(graph, []int64{100})
	assert.True(t, soloPan.DependsOn(1))
	assert.False(t, soloPan.DependsOn(2), "Patty no lleva pan")
}

func TestDependencyClosure_CicloNoColapsa(t *testing.T) {
	// Dos preps que se referencian mutuamente: el recorrido debe terminar y
	// un item dentro del ciclo no cuenta como dependiente.
	items := []entity.Item{
		{ID: 10, Name: "Salsa A", IsPrep: true},
		{ID: 11, Name: "Salsa B", IsPrep: true},
	}
	comps := []entity.RecipeComponent{
		itemComp(10, 11, 1, "cup"),
		itemComp(11, 10, 1, "cup"),
	}
	graph := reconciliation.NewRecipeGraph(items, comps)

	closure := reconciliation.NewDependencyClosure(graph, []int64{500})
	assert.False(t, closure.DependsOn(10))
	assert.False(t, closure.DependsOn(11))
	assert.Empty(t, closure.RelevantItems())
}

func TestDependencyClosure_RelevantItems(t *testing.T) {
	items := []entity.Item{
		{ID: 1, Name: "Burger"},
		{ID: 2, Name: "Patty", IsPrep: true},
		{ID: 3, Name: "Limonada"},
	}
	comps := []entity.RecipeComponent{
		itemComp(1, 2, 1, "each"),
		ingredientComp(2, 101, 0.25, "lb"),
		ingredientComp(3, 200, 2, "oz"),
	}
	graph := reconciliation.NewRecipeGraph(items, comps)

	closure := reconciliation.NewDependencyClosure(graph, []int64{101})
	assert.ElementsMatch(t, []int64{1, 2}, closure.RelevantItems(),
		"solo los items que tocan la carne importan para su conciliación")
}
