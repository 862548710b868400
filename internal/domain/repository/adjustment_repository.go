package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// AdjustmentRepository define el puerto de persistencia para ajustes manuales.
type AdjustmentRepository interface {
	// LoadRange devuelve los ajustes de los ingredientes dados con
	// created_at en (from, to]: el límite inferior es exclusivo para no
	// recontar un ajuste que coincide exactamente con el conteo anterior.
	LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.Adjustment, error)

	// Insert persiste un ajuste ya normalizado a unidad base.
	Insert(ctx context.Context, adj *entity.Adjustment) error
}
