package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.CountRepository = (*CountRepo)(nil)

// CountRepo implementación sobre PostgreSQL (usable con pool o tx).
type CountRepo struct {
	q Querier
}

// NewCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountRepository(q Querier) *CountRepo {
	return &CountRepo{q: q}
}

// LoadRecent devuelve por ingrediente sus dos conteos más recientes desde
// since, con Rank 1 (último) y 2 (anterior). El ranking se resuelve en SQL
// para no traer todo el historial de conteos.
func (r *CountRepo) LoadRecent(ctx context.Context, since time.Time) ([]entity.CountEntry, error) {
	query := `
		WITH ranked AS (
			SELECT
				id,
				source_id AS ingredient_id,
				quantity,
				unit,
				quantity_base,
				base_unit,
				COALESCE(location, '') AS location,
				COALESCE(batch_id, '') AS batch_id,
				created_at,
				COALESCE(user_id, 0) AS user_id,
				ROW_NUMBER() OVER (PARTITION BY source_id ORDER BY created_at DESC) AS rn
			FROM inventory_count_entries
			WHERE source_type = 'ingredient'
			  AND created_at >= $1
		)
		SELECT * FROM ranked WHERE rn <= 2`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("load recent counts: %w", err)
	}
	defer rows.Close()

	var list []entity.CountEntry
	for rows.Next() {
		var c entity.CountEntry
		if err := rows.Scan(&c.ID, &c.IngredientID, &c.Quantity, &c.Unit,
			&c.QuantityBase, &c.BaseUnit, &c.Location, &c.BatchID,
			&c.CreatedAt, &c.UserID, &c.Rank); err != nil {
			return nil, fmt.Errorf("scan count entry: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Insert persiste un lote de conteos.
func (r *CountRepo) Insert(ctx context.Context, entries []entity.CountEntry) error {
	query := `
		INSERT INTO inventory_count_entries
			(source_type, source_id, quantity, unit, quantity_base, base_unit, location, batch_id, created_at, user_id)
		VALUES ('ingredient', $1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, e := range entries {
		_, err := r.q.Exec(ctx, query,
			e.IngredientID, e.Quantity, e.Unit, e.QuantityBase, e.BaseUnit,
			nullIfEmpty(e.Location), nullIfEmpty(e.BatchID), e.CreatedAt, e.UserID,
		)
		if err != nil {
			return fmt.Errorf("insert count entry: %w", err)
		}
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
