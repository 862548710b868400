package reconciliation

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// PurchaseEvent es una recepción normalizada a unidad base del ingrediente.
// Conserva la cantidad y unidad originales para el detalle de la respuesta.
type PurchaseEvent struct {
	Ts           time.Time
	Quantity     decimal.Decimal
	Unit         string
	QuantityBase decimal.Decimal
	BaseUnit     string
}

// AdjustmentEvent es un ajuste con el signo de su tipo ya aplicado.
type AdjustmentEvent struct {
	Ts           time.Time
	QuantityBase decimal.Decimal
	BaseUnit     string
}

// UsageEvent es consumo derivado de una venta: la venta de un item explota,
// vía el resolutor de usos, en un evento por ingrediente consumido. Conserva
// el item de origen para el desglose por plato del resultado final.
type UsageEvent struct {
	Ts           time.Time
	QuantityBase decimal.Decimal
	BaseUnit     string
	RecipeUnit   string
	ItemID       int64
	ItemName     string
	QtySold      decimal.Decimal
}

// SkippedSales acumula el volumen de ventas que no pudo atribuirse a
// ingredientes, para el bloque meta de la respuesta.
type SkippedSales struct {
	NoItemID      decimal.Decimal
	MissingRecipe map[int64]decimal.Decimal // item id → qty vendida sin receta
	ComputeErrors map[int64]decimal.Decimal // item id → qty con warnings de cómputo
}

// EventAggregator normaliza los cuatro flujos de eventos de una corrida en
// listas planas por ingrediente. Aquí no se agrega nada: la suma ventaneada
// ocurre en el motor, porque cada ingrediente usa sus propios límites de
// tiempo (anclados a sus conteos), no la ventana global de la corrida.
type EventAggregator struct {
	conversions *ConversionTable
	ingredients map[int64]entity.Ingredient
}

// NewEventAggregator construye el agregador con el contexto de conversión.
func NewEventAggregator(conversions *ConversionTable, ingredients []entity.Ingredient) *EventAggregator {
	byID := make(map[int64]entity.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	return &EventAggregator{conversions: conversions, ingredients: byID}
}

// Purchases convierte cada recepción a la unidad base de su ingrediente y las
// agrupa por ingrediente. Si la conversión falta, la cantidad pasa tal cual
// con su unidad original (el motor reportará el issue al sumar en canónica).
func (a *EventAggregator) Purchases(rows []entity.ReceivedGoods) map[int64][]PurchaseEvent {
	events := make(map[int64][]PurchaseEvent)
	for _, r := range rows {
		ing, found := a.ingredients[r.IngredientID]
		var ingPtr *entity.Ingredient
		if found {
			ingPtr = &ing
		}
		qtyBase, baseUnit, _ := a.conversions.ToBase(r.Units, r.UnitType, ingPtr)
		events[r.IngredientID] = append(events[r.IngredientID], PurchaseEvent{
			Ts:           r.ReceiveDate,
			Quantity:     r.Units,
			Unit:         r.UnitType,
			QuantityBase: qtyBase,
			BaseUnit:     baseUnit,
		})
	}
	return events
}

// Adjustments agrupa los ajustes (ya normalizados al guardar) aplicando el
// signo que dicta el tipo.
func (a *EventAggregator) Adjustments(rows []entity.Adjustment) map[int64][]AdjustmentEvent {
	events := make(map[int64][]AdjustmentEvent)
	for _, r := range rows {
		events[r.IngredientID] = append(events[r.IngredientID], AdjustmentEvent{
			Ts:           r.CreatedAt,
			QuantityBase: r.SignedQuantityBase(),
			BaseUnit:     NormalizeUnit(r.BaseUnit),
		})
	}
	return events
}

// SalesUsage explota cada línea de venta en eventos de consumo por
// ingrediente usando el resolutor de usos (unidad de salida = yield_unit del
// item). Las ventas que no pueden resolverse se contabilizan en SkippedSales
// en vez de abortar; un status warning atribuye el consumo parcial igualmente.
func (a *EventAggregator) SalesUsage(rows []entity.SalesLine, resolver *UsageResolver, graph *RecipeGraph) (map[int64][]UsageEvent, SkippedSales) {
	events := make(map[int64][]UsageEvent)
	skipped := SkippedSales{
		MissingRecipe: make(map[int64]decimal.Decimal),
		ComputeErrors: make(map[int64]decimal.Decimal),
	}

	for _, row := range rows {
		if row.Qty.IsZero() {
			continue
		}
		if row.ItemID == 0 {
			skipped.NoItemID = skipped.NoItemID.Add(row.Qty)
			continue
		}

		item, _ := graph.Item(row.ItemID)
		usage := resolver.PerUnit(row.ItemID, item.YieldUnit)
		if usage.Status == StatusError {
			skipped.MissingRecipe[row.ItemID] = skipped.MissingRecipe[row.ItemID].Add(row.Qty)
			continue
		}
		if usage.Status != StatusOK {
			skipped.ComputeErrors[row.ItemID] = skipped.ComputeErrors[row.ItemID].Add(row.Qty)
		}

		itemName := row.ItemName
		if itemName == "" {
			itemName = item.Name
		}
		for ingID, perUnit := range usage.Ingredients {
			events[ingID] = append(events[ingID], UsageEvent{
				Ts:           row.BusinessDate,
				QuantityBase: perUnit.QuantityBase.Mul(row.Qty),
				BaseUnit:     perUnit.BaseUnit,
				RecipeUnit:   usage.OutputUnit,
				ItemID:       row.ItemID,
				ItemName:     itemName,
				QtySold:      row.Qty,
			})
		}
	}
	return events, skipped
}
