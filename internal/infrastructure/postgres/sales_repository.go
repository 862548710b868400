package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo acceso de solo lectura a las líneas de venta diarias que deja la
// ingesta del POS.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// LoadRange devuelve las líneas de venta de los items dados con
// business_date en [from, to].
func (r *SalesRepo) LoadRange(ctx context.Context, itemIDs []int64, from, to time.Time) ([]entity.SalesLine, error) {
	query := `
		SELECT id, business_date, COALESCE(item_id, 0), COALESCE(item_name, ''),
		       COALESCE(item_qty, 0), COALESCE(net_sales, 0)
		FROM sales_daily_lines
		WHERE item_id = ANY($1)
		  AND business_date >= $2
		  AND business_date <= $3
		ORDER BY business_date`

	rows, err := r.q.Query(ctx, query, itemIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sales lines: %w", err)
	}
	defer rows.Close()

	var list []entity.SalesLine
	for rows.Next() {
		var s entity.SalesLine
		if err := rows.Scan(&s.ID, &s.BusinessDate, &s.ItemID, &s.ItemName,
			&s.Qty, &s.NetSales); err != nil {
			return nil, fmt.Errorf("scan sales line: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// LoadDailyAggregates agrupa las ventas de una fecha de negocio por item. El
// nombre del catálogo tiene prioridad sobre el texto crudo del POS.
func (r *SalesRepo) LoadDailyAggregates(ctx context.Context, businessDate time.Time) ([]repository.DailySalesAggregate, error) {
	query := `
		SELECT COALESCE(s.item_id, 0),
		       COALESCE(i.name, s.item_name, '') AS name,
		       SUM(COALESCE(s.item_qty, 0)) AS qty_sold,
		       SUM(COALESCE(s.net_sales, 0)) AS net_sales
		FROM sales_daily_lines s
		LEFT JOIN items i ON s.item_id = i.item_id
		WHERE s.business_date = $1
		GROUP BY COALESCE(s.item_id, 0), COALESCE(i.name, s.item_name, '')`

	rows, err := r.q.Query(ctx, query, businessDate)
	if err != nil {
		return nil, fmt.Errorf("load daily sales aggregates: %w", err)
	}
	defer rows.Close()

	var list []repository.DailySalesAggregate
	for rows.Next() {
		var a repository.DailySalesAggregate
		if err := rows.Scan(&a.ItemID, &a.ItemName, &a.QtySold, &a.NetSales); err != nil {
			return nil, fmt.Errorf("scan daily sales aggregate: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
