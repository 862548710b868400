package reconciliation

import "github.com/tu-usuario/foodcost-pro/internal/domain/entity"

// RecipeGraph es la vista de solo lectura del bill of materials de una
// corrida: items y componentes traídos en bloque e indexados en memoria.
type RecipeGraph struct {
	items      map[int64]entity.Item
	components map[int64][]entity.RecipeComponent
}

// NewRecipeGraph indexa items y componentes por item padre.
func NewRecipeGraph(items []entity.Item, comps []entity.RecipeComponent) *RecipeGraph {
	g := &RecipeGraph{
		items:      make(map[int64]entity.Item, len(items)),
		components: make(map[int64][]entity.RecipeComponent),
	}
	for _, it := range items {
		g.items[it.ID] = it
	}
	for _, c := range comps {
		g.components[c.ItemID] = append(g.components[c.ItemID], c)
	}
	return g
}

// Item devuelve el item y si existe en el catálogo.
func (g *RecipeGraph) Item(id int64) (entity.Item, bool) {
	it, ok := g.items[id]
	return it, ok
}

// Components devuelve las líneas de receta del item (vacío si no tiene).
func (g *RecipeGraph) Components(id int64) []entity.RecipeComponent {
	return g.components[id]
}

// ItemIDsWithRecipe devuelve los ids de items que tienen al menos una línea.
func (g *RecipeGraph) ItemIDsWithRecipe() []int64 {
	ids := make([]int64, 0, len(g.components))
	for id := range g.components {
		ids = append(ids, id)
	}
	return ids
}

// DependencyClosure responde, con memoización, si un item consume (directa o
// transitivamente) alguno de los ingredientes objetivo de la corrida. Es puro
// filtro de rendimiento: restringe qué ventas hay que escanear antes de la
// resolución de usos, que es la parte cara.
type DependencyClosure struct {
	graph   *RecipeGraph
	targets map[int64]bool
	memo    map[int64]bool
}

// NewDependencyClosure construye el cierre para un conjunto fijo de
// ingredientes objetivo. La memoización vale solo para ese conjunto; una
// corrida nueva construye un cierre nuevo.
func NewDependencyClosure(graph *RecipeGraph, targetIngredientIDs []int64) *DependencyClosure {
	targets := make(map[int64]bool, len(targetIngredientIDs))
	for _, id := range targetIngredientIDs {
		targets[id] = true
	}
	return &DependencyClosure{graph: graph, targets: targets, memo: make(map[int64]bool)}
}

// DependsOn indica si el item alcanza algún ingrediente objetivo.
func (c *DependencyClosure) DependsOn(itemID int64) bool {
	return c.dependsOn(itemID, map[int64]bool{})
}

// dependsOn recorre en profundidad copiando visiting por rama, igual que el
// resolutor de usos: un ciclo en una rama no debe contaminar a sus hermanas.
// visiting es el guardián de ciclos y es independiente del memo.
func (c *DependencyClosure) dependsOn(itemID int64, visiting map[int64]bool) bool {
	if v, ok := c.memo[itemID]; ok {
		return v
	}
	if visiting[itemID] {
		c.memo[itemID] = false
		return false
	}
	visiting[itemID] = true

	for _, comp := range c.graph.Components(itemID) {
		switch comp.Source.Kind {
		case entity.SourceIngredient:
			if c.targets[comp.Source.ID] {
				c.memo[itemID] = true
				return true
			}
		case entity.SourceItem:
			branch := make(map[int64]bool, len(visiting))
			for k := range visiting {
				branch[k] = true
			}
			if c.dependsOn(comp.Source.ID, branch) {
				c.memo[itemID] = true
				return true
			}
		}
	}
	c.memo[itemID] = false
	return false
}

// RelevantItems devuelve los items cuya venta puede consumir ingredientes
// objetivo; solo para ellos se consultan líneas de venta.
func (c *DependencyClosure) RelevantItems() []int64 {
	var relevant []int64
	for _, id := range c.graph.ItemIDsWithRecipe() {
		if c.DependsOn(id) {
			relevant = append(relevant, id)
		}
	}
	return relevant
}
