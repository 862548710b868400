package repository

import (
	"context"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// ConversionRepository define la lectura de reglas de conversión de unidades.
type ConversionRepository interface {
	// LoadFor devuelve todas las reglas globales más las reglas propias de
	// los ingredientes dados. Con ids vacío devuelve solo las globales.
	LoadFor(ctx context.Context, ingredientIDs []int64) ([]entity.UnitConversion, error)
}
