package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesLine es una línea diaria de ventas del POS: cantidad vendida de un item
// en una fecha de negocio. La crea el proceso externo de ingesta; este motor
// solo la lee. ItemID puede ser 0 cuando el POS no pudo mapear el item.
type SalesLine struct {
	ID           int64
	BusinessDate time.Time
	ItemID       int64
	ItemName     string
	Qty          decimal.Decimal
	NetSales     decimal.Decimal
}
