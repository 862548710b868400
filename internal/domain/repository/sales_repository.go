package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// DailySalesAggregate resultado crudo de la agregación de ventas de un día.
// Lo produce la DB; el use case de reportes lo convierte en DTO.
type DailySalesAggregate struct {
	ItemID   int64
	ItemName string
	QtySold  decimal.Decimal
	NetSales decimal.Decimal
}

// SalesRepository define las consultas de lectura sobre líneas de venta.
// Las implementaciones son read-only: las ventas las crea la ingesta externa.
type SalesRepository interface {
	// LoadRange devuelve las líneas de venta de los items dados con
	// business_date en [from, to]. Pasar solo los items que el cierre de
	// dependencias marcó como relevantes: es el filtro de rendimiento que
	// evita escanear todo el historial.
	LoadRange(ctx context.Context, itemIDs []int64, from, to time.Time) ([]entity.SalesLine, error)

	// LoadDailyAggregates agrupa las ventas de una fecha de negocio por item.
	LoadDailyAggregates(ctx context.Context, businessDate time.Time) ([]DailySalesAggregate, error)
}
