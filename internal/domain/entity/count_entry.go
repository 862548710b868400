package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CountEntry es una observación puntual del stock físico de un ingrediente.
// Inmutable una vez creada; QuantityBase/BaseUnit se normalizan al insertar.
// Rank la asigna la consulta de lectura: 1 = conteo más reciente del
// ingrediente, 2 = el anterior. Solo esos dos participan en una conciliación.
type CountEntry struct {
	ID           int64
	IngredientID int64
	Quantity     decimal.Decimal // cantidad tal como se contó
	Unit         string
	QuantityBase decimal.Decimal // cantidad normalizada a BaseUnit
	BaseUnit     string
	Location     string
	BatchID      string // agrupa los conteos subidos en una misma sesión
	CreatedAt    time.Time
	UserID       int64
	Rank         int
}
