package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.ConversionRepository = (*ConversionRepo)(nil)

// ConversionRepo acceso a las reglas de conversión de unidades.
type ConversionRepo struct {
	q Querier
}

// NewConversionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewConversionRepository(q Querier) *ConversionRepo {
	return &ConversionRepo{q: q}
}

// LoadFor devuelve las reglas globales más las específicas de los
// ingredientes dados. Con lista vacía trae solo las globales.
func (r *ConversionRepo) LoadFor(ctx context.Context, ingredientIDs []int64) ([]entity.UnitConversion, error) {
	query := `
		SELECT id, ingredient_id, from_unit, to_unit, factor, COALESCE(is_global, FALSE)
		FROM ingredient_conversions
		WHERE is_global = TRUE OR ingredient_id = ANY($1)`

	rows, err := r.q.Query(ctx, query, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("load conversions: %w", err)
	}
	defer rows.Close()

	var list []entity.UnitConversion
	for rows.Next() {
		var c entity.UnitConversion
		if err := rows.Scan(&c.ID, &c.IngredientID, &c.FromUnit, &c.ToUnit,
			&c.Factor, &c.IsGlobal); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
