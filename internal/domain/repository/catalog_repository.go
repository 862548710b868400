package repository

import (
	"context"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// CatalogRepository define las lecturas en bloque del catálogo (ingredientes,
// items y recetas). El motor trae todo de una vez y filtra en memoria: las
// resoluciones recursivas no deben volver a tocar la base por llamada.
type CatalogRepository interface {
	LoadIngredients(ctx context.Context) ([]entity.Ingredient, error)
	LoadItems(ctx context.Context) ([]entity.Item, error)

	// LoadRecipeComponents devuelve todas las líneas de receta no archivadas.
	LoadRecipeComponents(ctx context.Context) ([]entity.RecipeComponent, error)

	// GetIngredient devuelve un ingrediente o nil si no existe.
	GetIngredient(ctx context.Context, id int64) (*entity.Ingredient, error)
}
