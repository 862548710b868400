package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

// isUniqueViolation detecta la violación de constraint único de PostgreSQL.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ repository.PriceQuoteRepository = (*PriceQuoteRepo)(nil)

// PriceQuoteRepo acceso a cotizaciones de precio de ingredientes.
type PriceQuoteRepo struct {
	q Querier
}

// NewPriceQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceQuoteRepository(q Querier) *PriceQuoteRepo {
	return &PriceQuoteRepo{q: q}
}

// LatestFor devuelve la cotización más reciente del ingrediente o
// domain.ErrNotFound si nunca se ha cotizado.
func (r *PriceQuoteRepo) LatestFor(ctx context.Context, ingredientID int64) (*entity.PriceQuote, error) {
	query := `
		SELECT id, ingredient_id, COALESCE(source, ''), COALESCE(size_qty, 0),
		       COALESCE(size_unit, ''), price, COALESCE(date_found, '1970-01-01'::date), COALESCE(notes, ''),
		       COALESCE(is_purchase, FALSE)
		FROM price_quotes
		WHERE ingredient_id = $1
		ORDER BY date_found DESC
		LIMIT 1`

	var q entity.PriceQuote
	err := r.q.QueryRow(ctx, query, ingredientID).Scan(
		&q.ID, &q.IngredientID, &q.Source, &q.SizeQty, &q.SizeUnit,
		&q.Price, &q.DateFound, &q.Notes, &q.IsPurchase,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("cotización de ingrediente %d: %w", ingredientID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("latest price quote: %w", err)
	}
	return &q, nil
}

// Insert persiste una cotización.
func (r *PriceQuoteRepo) Insert(ctx context.Context, q *entity.PriceQuote) error {
	query := `
		INSERT INTO price_quotes (ingredient_id, source, size_qty, size_unit, price, date_found, notes, is_purchase)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		q.IngredientID, nullIfEmpty(q.Source), q.SizeQty, q.SizeUnit,
		q.Price, q.DateFound, nullIfEmpty(q.Notes), q.IsPurchase,
	).Scan(&q.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("cotización de ingrediente %d en %s: %w", q.IngredientID, q.DateFound.Format("2006-01-02"), domain.ErrDuplicate)
		}
		return fmt.Errorf("insert price quote: %w", err)
	}
	return nil
}
