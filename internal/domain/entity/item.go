package entity

import "github.com/shopspring/decimal"

// Item representa un artículo del menú o una preparación intermedia.
// IsPrep indica que el item es un producto de cocina (salsa, base, etc.) cuya
// tanda produce YieldQty unidades de YieldUnit. Un item de venta (IsPrep=false)
// puede igualmente tener receta (plato emplatado) y consumir ingredientes.
type Item struct {
	ID        int64
	Name      string
	IsPrep    bool
	YieldQty  decimal.Decimal // cuánto produce una tanda
	YieldUnit string          // en qué unidad
	Cost      *decimal.Decimal // costo por unidad almacenado (opcional; nil = resolver por receta)
}
