package repository

import (
	"context"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// PriceQuoteRepository define el puerto de persistencia para cotizaciones.
type PriceQuoteRepository interface {
	// LatestFor devuelve la cotización más reciente del ingrediente
	// (por date_found) o nil si no hay ninguna.
	LatestFor(ctx context.Context, ingredientID int64) (*entity.PriceQuote, error)

	// Insert persiste una cotización (las recepciones generan una por línea).
	Insert(ctx context.Context, quote *entity.PriceQuote) error
}
