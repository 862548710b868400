package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo acceso a ajustes manuales de inventario.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// LoadRange devuelve los ajustes de los ingredientes dados con created_at en
// (from, to]: límite inferior exclusivo para no recontar el instante del
// conteo anterior.
func (r *AdjustmentRepo) LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.Adjustment, error) {
	query := `
		SELECT id, source_id AS ingredient_id, adjustment_type, quantity, unit,
		       quantity_base, base_unit, COALESCE(reason, ''), created_at, COALESCE(user_id, 0)
		FROM inventory_adjustments
		WHERE source_type = 'ingredient'
		  AND source_id = ANY($1)
		  AND created_at > $2
		  AND created_at <= $3
		ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, ingredientIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("load adjustments: %w", err)
	}
	defer rows.Close()

	var list []entity.Adjustment
	for rows.Next() {
		var a entity.Adjustment
		if err := rows.Scan(&a.ID, &a.IngredientID, &a.Type, &a.Quantity, &a.Unit,
			&a.QuantityBase, &a.BaseUnit, &a.Reason, &a.CreatedAt, &a.UserID); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Insert persiste un ajuste.
func (r *AdjustmentRepo) Insert(ctx context.Context, a *entity.Adjustment) error {
	query := `
		INSERT INTO inventory_adjustments
			(adjustment_type, source_type, source_id, quantity, unit, quantity_base, base_unit, reason, created_at, user_id)
		VALUES ($1, 'ingredient', $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		a.Type, a.IngredientID, a.Quantity, a.Unit, a.QuantityBase, a.BaseUnit,
		nullIfEmpty(a.Reason), a.CreatedAt, a.UserID,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}
