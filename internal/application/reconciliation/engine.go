package reconciliation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
	"github.com/tu-usuario/foodcost-pro/pkg/logger"
)

// Config parámetros de una corrida de conciliación.
type Config struct {
	DefaultLookbackDays int // ventana por defecto si el caller no pide otra
	MinBufferDays       int // mínimo de la ventana extendida de conteos
	BreakdownTopN       int // filas del desglose por item
	PurchaseDetailTopN  int // recepciones individuales mostradas
	SummaryWorkers      int // paralelismo del resumen por ingrediente
}

// DefaultConfig valores alineados con la operación del restaurante.
func DefaultConfig() Config {
	return Config{
		DefaultLookbackDays: 45,
		MinBufferDays:       60,
		BreakdownTopN:       12,
		PurchaseDetailTopN:  10,
		SummaryWorkers:      8,
	}
}

// Engine orquesta la conciliación: trae los datos en bloque, resuelve usos y
// cierres una sola vez, y produce por ingrediente la comparación esperado vs.
// contado con su desglose. Es cómputo puro sobre lo leído al inicio: sin
// estado compartido mutable, seguro para corridas concurrentes.
type Engine struct {
	counts      repository.CountRepository
	purchases   repository.PurchaseRepository
	adjustments repository.AdjustmentRepository
	sales       repository.SalesRepository
	catalog     repository.CatalogRepository
	conversions repository.ConversionRepository
	log         *logger.Logger
	cfg         Config
}

// NewEngine construye el motor.
func NewEngine(
	counts repository.CountRepository,
	purchases repository.PurchaseRepository,
	adjustments repository.AdjustmentRepository,
	sales repository.SalesRepository,
	catalog repository.CatalogRepository,
	conversions repository.ConversionRepository,
	log *logger.Logger,
	cfg Config,
) *Engine {
	return &Engine{
		counts:      counts,
		purchases:   purchases,
		adjustments: adjustments,
		sales:       sales,
		catalog:     catalog,
		conversions: conversions,
		log:         log,
		cfg:         cfg,
	}
}

// CanonicalUnit elige la unidad común para sumar los flujos de un
// ingrediente. El orden de prioridad es regla de negocio con carga histórica
// (cambiarlo cambia números ya reportados): base del último conteo → unidad
// cruda del último conteo → base/cruda del conteo anterior → unidad de la
// primera recepción → vacío.
func CanonicalUnit(latest, previous *entity.CountEntry, purchases []PurchaseEvent) string {
	if latest != nil {
		if u := NormalizeUnit(latest.BaseUnit); u != "" {
			return u
		}
		if u := NormalizeUnit(latest.Unit); u != "" {
			return u
		}
	}
	if previous != nil {
		if u := NormalizeUnit(previous.BaseUnit); u != "" {
			return u
		}
		if u := NormalizeUnit(previous.Unit); u != "" {
			return u
		}
	}
	if len(purchases) > 0 {
		if u := NormalizeUnit(purchases[0].BaseUnit); u != "" {
			return u
		}
		return NormalizeUnit(purchases[0].Unit)
	}
	return ""
}

// Reconcile computa la conciliación de los ingredientes con al menos un
// conteo dentro de la ventana. ingredientFilter 0 = todos. Una corrida nunca
// aborta por datos incompletos de un ingrediente: cada resultado carga sus
// propios issues y la respuesta siempre devuelve lo computable.
func (e *Engine) Reconcile(ctx context.Context, lookbackDays int, ingredientFilter int64) (*dto.ReconciliationReport, error) {
	if lookbackDays <= 0 {
		lookbackDays = e.cfg.DefaultLookbackDays
	}
	now := time.Now().UTC()
	cutoff := now.AddDate(0, 0, -lookbackDays)

	// Ventana extendida: garantiza encontrar el conteo anterior aunque la
	// ventana pedida sea corta.
	bufferDays := lookbackDays * 2
	if bufferDays < e.cfg.MinBufferDays {
		bufferDays = e.cfg.MinBufferDays
	}
	countRows, err := e.counts.LoadRecent(ctx, now.AddDate(0, 0, -bufferDays))
	if err != nil {
		return nil, fmt.Errorf("cargar conteos: %w", err)
	}

	latest := make(map[int64]*entity.CountEntry)
	previous := make(map[int64]*entity.CountEntry)
	for i := range countRows {
		row := &countRows[i]
		if ingredientFilter != 0 && row.IngredientID != ingredientFilter {
			continue
		}
		switch row.Rank {
		case 1:
			latest[row.IngredientID] = row
		case 2:
			previous[row.IngredientID] = row
		}
	}

	// Solo ingredientes cuyo último conteo cae dentro de la ventana pedida.
	var targetIDs []int64
	for id, row := range latest {
		if !row.CreatedAt.Before(cutoff) {
			targetIDs = append(targetIDs, id)
		}
	}
	sort.Slice(targetIDs, func(i, j int) bool { return targetIDs[i] < targetIDs[j] })

	if len(targetIDs) == 0 {
		return &dto.ReconciliationReport{
			Results: []dto.ReconciliationResult{},
			Meta: dto.ReconciliationMeta{
				Message:     "sin conteos de inventario en la ventana seleccionada",
				WindowStart: cutoff,
				WindowEnd:   now,
			},
		}, nil
	}

	ingredients, err := e.catalog.LoadIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar ingredientes: %w", err)
	}
	conversionRows, err := e.conversions.LoadFor(ctx, targetIDs)
	if err != nil {
		return nil, fmt.Errorf("cargar conversiones: %w", err)
	}
	table := NewConversionTable(conversionRows)

	// Límites globales del fetch; los límites efectivos por ingrediente se
	// anclan después a sus propios conteos.
	globalStart, globalEnd := cutoff, now
	for _, id := range targetIDs {
		if p := previous[id]; p != nil && p.CreatedAt.Before(globalStart) {
			globalStart = p.CreatedAt
		}
	}
	hasEnd := false
	for _, id := range targetIDs {
		if l := latest[id]; l != nil && (!hasEnd || l.CreatedAt.After(globalEnd)) {
			globalEnd = l.CreatedAt
			hasEnd = true
		}
	}

	purchaseRows, err := e.purchases.LoadRange(ctx, targetIDs, cutoff, globalEnd)
	if err != nil {
		return nil, fmt.Errorf("cargar recepciones: %w", err)
	}
	adjustmentRows, err := e.adjustments.LoadRange(ctx, targetIDs, globalStart, globalEnd)
	if err != nil {
		return nil, fmt.Errorf("cargar ajustes: %w", err)
	}
	items, err := e.catalog.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar items: %w", err)
	}
	components, err := e.catalog.LoadRecipeComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar recetas: %w", err)
	}

	graph := NewRecipeGraph(items, components)
	closure := NewDependencyClosure(graph, targetIDs)
	relevantItems := closure.RelevantItems()

	var salesRows []entity.SalesLine
	if len(relevantItems) > 0 {
		salesRows, err = e.sales.LoadRange(ctx, relevantItems, cutoff, globalEnd)
		if err != nil {
			return nil, fmt.Errorf("cargar ventas: %w", err)
		}
	}

	// Resolución de usos y agregación: una sola vez, monohilo, para calentar
	// los memos antes del fan-out.
	resolver := NewUsageResolver(graph, table, ingredients)
	aggregator := NewEventAggregator(table, ingredients)
	purchasesByIng := aggregator.Purchases(purchaseRows)
	adjustmentsByIng := aggregator.Adjustments(adjustmentRows)
	usageByIng, skipped := aggregator.SalesUsage(salesRows, resolver, graph)

	ingredientNames := make(map[int64]string, len(ingredients))
	for _, ing := range ingredients {
		ingredientNames[ing.ID] = ing.Name
	}

	// Fan-out: el resumen por ingrediente es independiente una vez que los
	// memos están calientes y los eventos agrupados.
	results := make([]dto.ReconciliationResult, len(targetIDs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.SummaryWorkers)
	for i, id := range targetIDs {
		i, id := i, id
		g.Go(func() error {
			results[i] = e.summarizeIngredient(ingredientSummaryInput{
				ingredientID: id,
				name:         ingredientNames[id],
				latest:       latest[id],
				previous:     previous[id],
				cutoff:       cutoff,
				purchases:    purchasesByIng[id],
				adjustments:  adjustmentsByIng[id],
				usage:        usageByIng[id],
				table:        table,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Mayor discrepancia primero; sin varianza cuenta como cero.
	sort.SliceStable(results, func(i, j int) bool {
		return absOrZero(results[i].VarianceBase).GreaterThan(absOrZero(results[j].VarianceBase))
	})

	report := &dto.ReconciliationReport{
		Results: results,
		Meta: dto.ReconciliationMeta{
			IngredientsScanned:        len(targetIDs),
			SalesSkippedNoItem:        skipped.NoItemID,
			SalesSkippedMissingRecipe: e.skippedByName(graph, skipped.MissingRecipe),
			SalesSkippedComputeErrors: e.skippedByName(graph, skipped.ComputeErrors),
			WindowStart:               cutoff,
			WindowEnd:                 globalEnd,
		},
	}

	e.log.Info().
		Int("ingredientes", len(targetIDs)).
		Int("items_relevantes", len(relevantItems)).
		Int("ventas", len(salesRows)).
		Int("lookback_dias", lookbackDays).
		Msg("conciliación completada")

	return report, nil
}

// UsageForIngredient reporta el consumo teórico de un solo ingrediente en la
// ventana dada, desglosado por item vendido. start/end en cero usan
// lookbackDays hacia atrás desde ahora.
func (e *Engine) UsageForIngredient(ctx context.Context, ingredientID int64, lookbackDays int, start, end time.Time) (*dto.IngredientUsageReport, error) {
	if lookbackDays <= 0 {
		lookbackDays = e.cfg.DefaultLookbackDays
	}
	if end.IsZero() {
		end = time.Now().UTC()
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -lookbackDays)
	}

	ingredient, err := e.catalog.GetIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	items, err := e.catalog.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar items: %w", err)
	}
	components, err := e.catalog.LoadRecipeComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar recetas: %w", err)
	}
	conversionRows, err := e.conversions.LoadFor(ctx, []int64{ingredientID})
	if err != nil {
		return nil, fmt.Errorf("cargar conversiones: %w", err)
	}

	graph := NewRecipeGraph(items, components)
	closure := NewDependencyClosure(graph, []int64{ingredientID})
	relevantItems := closure.RelevantItems()

	report := &dto.IngredientUsageReport{
		IngredientID:   ingredientID,
		IngredientName: ingredient.Name,
		BaseUnit:       NormalizeUnit(ingredient.BaseUnit),
		WindowStart:    start,
		WindowEnd:      end,
		Breakdown:      []dto.UsageBreakdownRow{},
	}
	if len(relevantItems) == 0 {
		return report, nil
	}

	salesRows, err := e.sales.LoadRange(ctx, relevantItems, start, end)
	if err != nil {
		return nil, fmt.Errorf("cargar ventas: %w", err)
	}

	table := NewConversionTable(conversionRows)
	resolver := NewUsageResolver(graph, table, []entity.Ingredient{*ingredient})

	total := decimal.Zero
	byItem := make(map[int64]*dto.UsageBreakdownRow)
	for _, sale := range salesRows {
		if sale.ItemID == 0 || sale.Qty.IsZero() {
			continue
		}
		item, ok := graph.Item(sale.ItemID)
		if !ok {
			continue
		}
		perUnit := resolver.PerUnit(sale.ItemID, item.YieldUnit)
		if perUnit.Status == StatusError {
			continue
		}
		usage, ok := perUnit.Ingredients[ingredientID]
		if !ok {
			continue
		}
		qty := usage.QuantityBase.Mul(sale.Qty)
		total = total.Add(qty)

		row, exists := byItem[sale.ItemID]
		if !exists {
			row = &dto.UsageBreakdownRow{ItemID: sale.ItemID, ItemName: item.Name, RecipeUnit: NormalizeUnit(item.YieldUnit)}
			byItem[sale.ItemID] = row
		}
		row.QtySold = row.QtySold.Add(sale.Qty)
		row.UsageBase = row.UsageBase.Add(qty)
	}

	rows := make([]dto.UsageBreakdownRow, 0, len(byItem))
	for _, row := range byItem {
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UsageBase.Abs().GreaterThan(rows[j].UsageBase.Abs())
	})
	report.UsageBase = total
	report.Breakdown = rows
	return report, nil
}

type ingredientSummaryInput struct {
	ingredientID int64
	name         string
	latest       *entity.CountEntry
	previous     *entity.CountEntry
	cutoff       time.Time
	purchases    []PurchaseEvent
	adjustments  []AdjustmentEvent
	usage        []UsageEvent
	table        *ConversionTable
}

// summarizeIngredient suma los flujos de un ingrediente dentro de su ventana
// efectiva y arma el resultado. La ventana es (conteo anterior, último
// conteo] para ajustes y consumo; las recepciones entran desde el límite
// inferior inclusive y su tope se compara por fecha calendario porque
// receive_date no trae hora. La asimetría es heredada: evita perder o doble
// contar una recepción del mismo día del conteo.
func (e *Engine) summarizeIngredient(in ingredientSummaryInput) dto.ReconciliationResult {
	latestDt := in.latest.CreatedAt
	effectiveStart := in.cutoff
	if in.previous != nil && in.previous.CreatedAt.After(effectiveStart) {
		effectiveStart = in.previous.CreatedAt
	}

	canonical := CanonicalUnit(in.latest, in.previous, in.purchases)
	var issues []dto.ConversionIssue

	toCanonical := func(kind string, qty decimal.Decimal, unit string) decimal.Decimal {
		converted, issue := in.table.Resolve(qty, unit, canonical, in.ingredientID)
		if issue != "" {
			issues = append(issues, dto.ConversionIssue{Kind: kind, Unit: NormalizeUnit(unit), Target: canonical, Detail: issue})
		}
		return converted
	}

	purchasesSum := decimal.Zero
	var purchaseDetails []dto.PurchaseDetail
	latestDate := latestDt.Truncate(24 * time.Hour)
	for _, ev := range in.purchases {
		if ev.Ts.Before(effectiveStart) {
			continue
		}
		if ev.Ts.Truncate(24 * time.Hour).After(latestDate) {
			continue
		}
		purchaseDetails = append(purchaseDetails, dto.PurchaseDetail{
			Ts:           ev.Ts,
			Quantity:     ev.Quantity,
			Unit:         ev.Unit,
			QuantityBase: ev.QuantityBase,
			BaseUnit:     ev.BaseUnit,
		})
		purchasesSum = purchasesSum.Add(toCanonical("purchase", ev.QuantityBase, ev.BaseUnit))
	}
	sort.Slice(purchaseDetails, func(i, j int) bool { return purchaseDetails[i].Ts.After(purchaseDetails[j].Ts) })
	if len(purchaseDetails) > e.cfg.PurchaseDetailTopN {
		purchaseDetails = purchaseDetails[:e.cfg.PurchaseDetailTopN]
	}

	adjustmentsSum := decimal.Zero
	for _, ev := range in.adjustments {
		if !ev.Ts.After(effectiveStart) || ev.Ts.After(latestDt) {
			continue
		}
		adjustmentsSum = adjustmentsSum.Add(toCanonical("adjustment", ev.QuantityBase, ev.BaseUnit))
	}

	usageSum := decimal.Zero
	breakdown := make(map[int64]*dto.UsageBreakdownRow)
	for _, ev := range in.usage {
		if !ev.Ts.After(effectiveStart) || ev.Ts.After(latestDt) {
			continue
		}
		qtyCan := toCanonical("sales_usage", ev.QuantityBase, ev.BaseUnit)
		usageSum = usageSum.Add(qtyCan)

		row, ok := breakdown[ev.ItemID]
		if !ok {
			row = &dto.UsageBreakdownRow{ItemID: ev.ItemID, ItemName: ev.ItemName, RecipeUnit: ev.RecipeUnit}
			breakdown[ev.ItemID] = row
		}
		row.QtySold = row.QtySold.Add(ev.QtySold)
		row.UsageBase = row.UsageBase.Add(qtyCan)
	}

	result := dto.ReconciliationResult{
		IngredientID:    in.ingredientID,
		IngredientName:  in.name,
		CanonicalUnit:   canonical,
		LatestCount:     countSnapshot(in.latest),
		PurchasesBase:   purchasesSum,
		Purchases:       purchaseDetails,
		AdjustmentsBase: adjustmentsSum,
		SalesUsageBase:  usageSum,
	}
	if result.IngredientName == "" {
		result.IngredientName = fmt.Sprintf("Ingredient %d", in.ingredientID)
	}
	if result.Purchases == nil {
		result.Purchases = []dto.PurchaseDetail{}
	}

	if in.previous != nil {
		snap := countSnapshot(in.previous)
		result.PreviousCount = &snap

		prevCan := toCanonical("previous_count", in.previous.QuantityBase, in.previous.BaseUnit)
		latestCan := toCanonical("latest_count", in.latest.QuantityBase, in.latest.BaseUnit)
		expected := prevCan.Add(purchasesSum).Add(adjustmentsSum).Sub(usageSum)
		variance := latestCan.Sub(expected)
		result.ExpectedBase = &expected
		result.VarianceBase = &variance
	}

	rows := make([]dto.UsageBreakdownRow, 0, len(breakdown))
	for _, row := range breakdown {
		rows = append(rows, *row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].UsageBase.Abs().GreaterThan(rows[j].UsageBase.Abs())
	})
	if len(rows) > e.cfg.BreakdownTopN {
		rows = rows[:e.cfg.BreakdownTopN]
	}
	result.SalesBreakdown = rows

	result.ConversionIssues = issues
	if result.ConversionIssues == nil {
		result.ConversionIssues = []dto.ConversionIssue{}
	}
	return result
}

func countSnapshot(c *entity.CountEntry) dto.CountSnapshot {
	return dto.CountSnapshot{
		Quantity:     c.Quantity,
		Unit:         c.Unit,
		QuantityBase: c.QuantityBase,
		BaseUnit:     c.BaseUnit,
		Location:     c.Location,
		CreatedAt:    c.CreatedAt,
		UserID:       c.UserID,
	}
}

func (e *Engine) skippedByName(graph *RecipeGraph, byItem map[int64]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(byItem))
	for itemID, qty := range byItem {
		name := fmt.Sprintf("item %d", itemID)
		if it, ok := graph.Item(itemID); ok && it.Name != "" {
			name = it.Name
		}
		out[name] = qty
	}
	return out
}

func absOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return d.Abs()
}
