package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceQuote es una cotización de precio de un ingrediente: Price por SizeQty
// SizeUnit. Las recepciones de mercancía generan cotizaciones con
// IsPurchase=true; el resto son cotizaciones manuales de referencia.
type PriceQuote struct {
	ID           int64
	IngredientID int64
	Source       string
	SizeQty      decimal.Decimal
	SizeUnit     string
	Price        decimal.Decimal
	DateFound    time.Time
	Notes        string
	IsPurchase   bool
}
