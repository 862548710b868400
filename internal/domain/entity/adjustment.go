package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste que restan stock; cualquier otro tipo suma.
var negativeAdjustmentTypes = map[string]bool{
	"remove":    true,
	"decrease":  true,
	"decrement": true,
	"out":       true,
}

// Adjustment es una corrección manual de inventario. QuantityBase se guarda
// ya normalizada a BaseUnit; el signo lo determina Type.
type Adjustment struct {
	ID           int64
	IngredientID int64
	Type         string
	Quantity     decimal.Decimal
	Unit         string
	QuantityBase decimal.Decimal
	BaseUnit     string
	Reason       string
	CreatedAt    time.Time
	UserID       int64
}

// SignedQuantityBase devuelve la cantidad base con el signo del tipo de ajuste.
func (a Adjustment) SignedQuantityBase() decimal.Decimal {
	if negativeAdjustmentTypes[strings.ToLower(a.Type)] {
		return a.QuantityBase.Neg()
	}
	return a.QuantityBase
}
