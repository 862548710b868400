package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para mercancía recibida.
type PurchaseRepository interface {
	// LoadRange devuelve las recepciones de los ingredientes dados con
	// receive_date en [from, to] (ambos inclusive; la fecha de recepción
	// tiene granularidad de día).
	LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.ReceivedGoods, error)

	// Insert persiste un lote de recepciones.
	Insert(ctx context.Context, rows []entity.ReceivedGoods) error
}
