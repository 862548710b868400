package entity

import "github.com/shopspring/decimal"

// SourceKind identifica el tipo de nodo referenciado por un componente de receta.
type SourceKind string

const (
	SourceIngredient SourceKind = "ingredient"
	SourceItem       SourceKind = "item"
)

// SourceRef es la unión etiquetada {Ingredient, Item}. Un Kind no reconocido
// se reporta como issue unknown_source_type en el único switch de recorrido,
// nunca como pánico.
type SourceRef struct {
	Kind SourceKind
	ID   int64
}

// RecipeComponent es una línea de receta: el item padre consume Quantity Unit
// del origen referenciado. El conjunto de componentes de todos los items forma
// un grafo dirigido que debe ser acíclico; los ciclos se detectan y reportan.
type RecipeComponent struct {
	ID       int64
	ItemID   int64 // item padre
	Source   SourceRef
	Quantity decimal.Decimal
	Unit     string
}
