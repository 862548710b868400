package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// CountRepository define el puerto de persistencia para conteos físicos.
type CountRepository interface {
	// LoadRecent devuelve, por ingrediente, sus dos conteos más recientes
	// desde `since` (Rank 1 = último, 2 = anterior). La consulta usa una
	// window function; el llamador no debe asumir orden entre ingredientes.
	LoadRecent(ctx context.Context, since time.Time) ([]entity.CountEntry, error)

	// Insert persiste un lote de conteos ya normalizados a unidad base.
	Insert(ctx context.Context, entries []entity.CountEntry) error
}
