package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// CatalogRepo acceso de lectura al catálogo: ingredientes, items y recetas.
type CatalogRepo struct {
	q Querier
}

// NewCatalogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCatalogRepository(q Querier) *CatalogRepo {
	return &CatalogRepo{q: q}
}

// LoadIngredients devuelve los ingredientes no archivados.
func (r *CatalogRepo) LoadIngredients(ctx context.Context) ([]entity.Ingredient, error) {
	query := `
		SELECT ingredient_id, name, COALESCE(base_unit, '')
		FROM ingredients
		WHERE archived IS NULL OR archived = FALSE`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load ingredients: %w", err)
	}
	defer rows.Close()

	var list []entity.Ingredient
	for rows.Next() {
		var ing entity.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.BaseUnit); err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, ing)
	}
	return list, rows.Err()
}

// GetIngredient devuelve un ingrediente por id o domain.ErrNotFound.
func (r *CatalogRepo) GetIngredient(ctx context.Context, id int64) (*entity.Ingredient, error) {
	query := `
		SELECT ingredient_id, name, COALESCE(base_unit, '')
		FROM ingredients
		WHERE ingredient_id = $1 AND (archived IS NULL OR archived = FALSE)`

	var ing entity.Ingredient
	err := r.q.QueryRow(ctx, query, id).Scan(&ing.ID, &ing.Name, &ing.BaseUnit)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("ingrediente %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &ing, nil
}

// LoadItems devuelve todos los items del catálogo. Un yield_qty nulo
// materializa como 1: los items de menú normales no declaran tanda y rinden
// una unidad por venta. Solo un cero guardado de verdad llega como cero.
func (r *CatalogRepo) LoadItems(ctx context.Context) ([]entity.Item, error) {
	query := `
		SELECT item_id, COALESCE(name, ''), COALESCE(is_prep, FALSE),
		       COALESCE(yield_qty, 1), COALESCE(yield_unit, ''), cost
		FROM items`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	var list []entity.Item
	for rows.Next() {
		var it entity.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.IsPrep, &it.YieldQty,
			&it.YieldUnit, &it.Cost); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// LoadRecipeComponents devuelve las líneas de receta no archivadas.
func (r *CatalogRepo) LoadRecipeComponents(ctx context.Context) ([]entity.RecipeComponent, error) {
	query := `
		SELECT recipe_id, item_id, source_type, source_id, COALESCE(quantity, 0), COALESCE(unit, '')
		FROM recipes
		WHERE archived IS NULL OR archived = FALSE`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load recipe components: %w", err)
	}
	defer rows.Close()

	var list []entity.RecipeComponent
	for rows.Next() {
		var comp entity.RecipeComponent
		var kind string
		if err := rows.Scan(&comp.ID, &comp.ItemID, &kind, &comp.Source.ID,
			&comp.Quantity, &comp.Unit); err != nil {
			return nil, fmt.Errorf("scan recipe component: %w", err)
		}
		comp.Source.Kind = entity.SourceKind(kind)
		list = append(list, comp)
	}
	return list, rows.Err()
}
