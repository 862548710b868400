package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceivedGoods es una recepción de mercancía: cantidad comprada de un
// ingrediente en una fecha. ReceiveDate tiene granularidad de día (así llega
// del proveedor), a diferencia de los timestamps de conteos y ajustes.
type ReceivedGoods struct {
	ID           int64
	IngredientID int64
	Units        decimal.Decimal
	UnitType     string
	PricePerUnit decimal.Decimal
	Supplier     string
	ReceiveDate  time.Time
	BatchID      string
}
