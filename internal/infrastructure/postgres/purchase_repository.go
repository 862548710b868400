package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo acceso a mercancía recibida (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// LoadRange devuelve las recepciones de los ingredientes dados con
// receive_date en [from, to], ambos inclusive.
func (r *PurchaseRepo) LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.ReceivedGoods, error) {
	query := `
		SELECT id, ingredient_id, units, unit_type, COALESCE(price_per_unit, 0),
		       COALESCE(supplier, ''), receive_date, COALESCE(batch_id, '')
		FROM received_goods
		WHERE ingredient_id = ANY($1)
		  AND receive_date >= $2
		  AND receive_date <= $3
		ORDER BY receive_date`

	rows, err := r.q.Query(ctx, query, ingredientIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("load received goods: %w", err)
	}
	defer rows.Close()

	var list []entity.ReceivedGoods
	for rows.Next() {
		var g entity.ReceivedGoods
		if err := rows.Scan(&g.ID, &g.IngredientID, &g.Units, &g.UnitType,
			&g.PricePerUnit, &g.Supplier, &g.ReceiveDate, &g.BatchID); err != nil {
			return nil, fmt.Errorf("scan received goods: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// Insert persiste un lote de recepciones.
func (r *PurchaseRepo) Insert(ctx context.Context, goods []entity.ReceivedGoods) error {
	query := `
		INSERT INTO received_goods (ingredient_id, units, unit_type, price_per_unit, supplier, receive_date, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for _, g := range goods {
		_, err := r.q.Exec(ctx, query,
			g.IngredientID, g.Units, g.UnitType, g.PricePerUnit,
			nullIfEmpty(g.Supplier), g.ReceiveDate, nullIfEmpty(g.BatchID),
		)
		if err != nil {
			return fmt.Errorf("insert received goods: %w", err)
		}
	}
	return nil
}
