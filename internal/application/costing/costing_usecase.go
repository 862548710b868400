package costing

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
)

// Estados de resolución de costos.
const (
	StatusOK      = "ok"
	StatusWarning = "warning"
	StatusError   = "error"
)

// CostUseCase resuelve costos de ingredientes e items preparados a partir de
// las cotizaciones de precio vigentes y las recetas. Un costo nunca aborta la
// petición: los problemas quedan en Issues y el status lo refleja.
type CostUseCase struct {
	catalog     repository.CatalogRepository
	quotes      repository.PriceQuoteRepository
	conversions repository.ConversionRepository
}

// NewCostUseCase construye el caso de uso de costeo.
func NewCostUseCase(
	catalog repository.CatalogRepository,
	quotes repository.PriceQuoteRepository,
	conversions repository.ConversionRepository,
) *CostUseCase {
	return &CostUseCase{catalog: catalog, quotes: quotes, conversions: conversions}
}

// IngredientCost retorna el costo de qty unidades de receta del ingrediente,
// usando su cotización más reciente. qty <= 0 se interpreta como 1.
func (uc *CostUseCase) IngredientCost(ctx context.Context, ingredientID int64, recipeUnit string, qty decimal.Decimal) (*dto.IngredientCostResult, error) {
	if _, err := uc.catalog.GetIngredient(ctx, ingredientID); err != nil {
		return nil, err
	}
	r, err := uc.newResolver(ctx, []int64{ingredientID})
	if err != nil {
		return nil, err
	}
	res := r.ingredientCost(ctx, ingredientID, recipeUnit, normQty(qty))
	return &res, nil
}

// ItemCost retorna el costo recursivo de qty unidades de receta de un item
// preparado. Items no preparados o ciclos en la receta producen status error.
func (uc *CostUseCase) ItemCost(ctx context.Context, itemID int64, recipeUnit string, qty decimal.Decimal) (*dto.ItemCostResult, error) {
	r, err := uc.newResolver(ctx, nil)
	if err != nil {
		return nil, err
	}
	if _, ok := r.graph.Item(itemID); !ok {
		return nil, fmt.Errorf("item %d: %w", itemID, domain.ErrNotFound)
	}
	res := r.itemCost(ctx, itemID, recipeUnit, normQty(qty), map[int64]bool{})
	return &res, nil
}

// ItemCostsPerUnit resuelve el costo por unidad de rendimiento de varios
// items con una sola carga de catálogo. Items que fallan quedan en el mapa
// con status error; el caller decide qué hacer con ellos.
func (uc *CostUseCase) ItemCostsPerUnit(ctx context.Context, itemIDs []int64) (map[int64]*dto.ItemCostResult, error) {
	r, err := uc.newResolver(ctx, nil)
	if err != nil {
		return nil, err
	}
	one := decimal.NewFromInt(1)
	out := make(map[int64]*dto.ItemCostResult, len(itemIDs))
	for _, id := range itemIDs {
		item, ok := r.graph.Item(id)
		if !ok {
			continue
		}
		res := r.itemCost(ctx, id, item.YieldUnit, one, map[int64]bool{})
		out[id] = &res
	}
	return out, nil
}

func normQty(qty decimal.Decimal) decimal.Decimal {
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.NewFromInt(1)
	}
	return qty
}

// costResolver estado por petición: catálogo y conversiones en memoria,
// cotizaciones cacheadas según se piden.
type costResolver struct {
	graph      *reconciliation.RecipeGraph
	table      *reconciliation.ConversionTable
	quotesRepo repository.PriceQuoteRepository
	quoteCache map[int64]*entity.PriceQuote
}

// newResolver carga catálogo y conversiones una sola vez. extraIngredients
// fuerza a incluir conversiones de ingredientes que no aparecen en recetas.
func (uc *CostUseCase) newResolver(ctx context.Context, extraIngredients []int64) (*costResolver, error) {
	items, err := uc.catalog.LoadItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar items: %w", err)
	}
	components, err := uc.catalog.LoadRecipeComponents(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargar recetas: %w", err)
	}

	seen := make(map[int64]bool)
	var ingredientIDs []int64
	for _, id := range extraIngredients {
		if !seen[id] {
			seen[id] = true
			ingredientIDs = append(ingredientIDs, id)
		}
	}
	for _, comp := range components {
		if comp.Source.Kind == entity.SourceIngredient && !seen[comp.Source.ID] {
			seen[comp.Source.ID] = true
			ingredientIDs = append(ingredientIDs, comp.Source.ID)
		}
	}

	conversionRows, err := uc.conversions.LoadFor(ctx, ingredientIDs)
	if err != nil {
		return nil, fmt.Errorf("cargar conversiones: %w", err)
	}

	return &costResolver{
		graph:      reconciliation.NewRecipeGraph(items, components),
		table:      reconciliation.NewConversionTable(conversionRows),
		quotesRepo: uc.quotes,
		quoteCache: make(map[int64]*entity.PriceQuote),
	}, nil
}

func (r *costResolver) latestQuote(ctx context.Context, ingredientID int64) (*entity.PriceQuote, error) {
	if q, ok := r.quoteCache[ingredientID]; ok {
		return q, nil
	}
	q, err := r.quotesRepo.LatestFor(ctx, ingredientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.quoteCache[ingredientID] = nil
			return nil, nil
		}
		return nil, err
	}
	r.quoteCache[ingredientID] = q
	return q, nil
}

// factor busca el factor de conversión con fallback al par inverso.
func (r *costResolver) factor(from, to string, ingredientID int64) (decimal.Decimal, bool) {
	from, to = reconciliation.NormalizeUnit(from), reconciliation.NormalizeUnit(to)
	if from == to || from == "" || to == "" {
		return decimal.NewFromInt(1), true
	}
	if f, ok := r.table.Factor(from, to, ingredientID); ok {
		return f, true
	}
	if f, ok := r.table.Factor(to, from, ingredientID); ok && !f.IsZero() {
		return decimal.NewFromInt(1).Div(f), true
	}
	return decimal.Decimal{}, false
}

// ingredientCost costo de qty unidades de receta desde la cotización más
// reciente. size_qty inválido se trata como 1 con warning en vez de abortar.
func (r *costResolver) ingredientCost(ctx context.Context, ingredientID int64, recipeUnit string, qty decimal.Decimal) dto.IngredientCostResult {
	res := dto.IngredientCostResult{
		IngredientID: ingredientID,
		RecipeUnit:   reconciliation.NormalizeUnit(recipeUnit),
		Quantity:     qty,
	}

	quote, err := r.latestQuote(ctx, ingredientID)
	if err != nil || quote == nil {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueMissingPrice, IngredientID: ingredientID})
		return res
	}

	sizeQty := quote.SizeQty
	status := StatusOK
	if sizeQty.LessThanOrEqual(decimal.Zero) {
		sizeQty = decimal.NewFromInt(1)
		status = StatusWarning
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueInvalidQuoteQuantity, IngredientID: ingredientID})
	}
	perQuoteUnit := quote.Price.Div(sizeQty)

	// Una unidad de receta equivale a f unidades de cotización; el costo por
	// unidad de receta es el costo por unidad de cotización por ese factor.
	quoteUnit := reconciliation.NormalizeUnit(quote.SizeUnit)
	f, ok := r.factor(res.RecipeUnit, quoteUnit, ingredientID)
	if !ok {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{
			Code:         domain.IssueMissingConversion,
			IngredientID: ingredientID,
			FromUnit:     quoteUnit,
			ToUnit:       res.RecipeUnit,
		})
		return res
	}
	perUnit := perQuoteUnit.Mul(f).Round(4)
	total := perUnit.Mul(qty).Round(4)

	res.Status = status
	res.CostPerUnit = &perUnit
	res.TotalCost = &total
	res.QuoteSource = quote.Source
	if !quote.DateFound.IsZero() {
		d := quote.DateFound
		res.QuoteDate = &d
	}
	return res
}

// itemCost costo recursivo de un item preparado. visited se copia por rama
// para que dos hijos que comparten una preparación no disparen un falso
// ciclo.
func (r *costResolver) itemCost(ctx context.Context, itemID int64, recipeUnit string, qty decimal.Decimal, visited map[int64]bool) dto.ItemCostResult {
	res := dto.ItemCostResult{
		ItemID:     itemID,
		RecipeUnit: reconciliation.NormalizeUnit(recipeUnit),
		Quantity:   qty,
	}

	if visited[itemID] {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueCircularDependency, ItemID: itemID})
		return res
	}

	item, ok := r.graph.Item(itemID)
	if !ok || !item.IsPrep {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueNotPrepItem, ItemID: itemID})
		return res
	}
	res.ItemName = item.Name

	components := r.graph.Components(itemID)
	total := decimal.Zero
	var childIssues []dto.CostIssue

	for _, comp := range components {
		switch comp.Source.Kind {
		case entity.SourceIngredient:
			child := r.ingredientCost(ctx, comp.Source.ID, comp.Unit, comp.Quantity)
			if child.Status == StatusError {
				childIssues = append(childIssues, child.Issues...)
				continue
			}
			total = total.Add(*child.TotalCost)
		case entity.SourceItem:
			branch := make(map[int64]bool, len(visited)+1)
			for id := range visited {
				branch[id] = true
			}
			branch[itemID] = true
			child := r.itemCost(ctx, comp.Source.ID, comp.Unit, comp.Quantity, branch)
			if child.Status == StatusError {
				childIssues = append(childIssues, child.Issues...)
				continue
			}
			total = total.Add(*child.TotalCost)
		default:
			childIssues = append(childIssues, dto.CostIssue{Code: domain.IssueUnknownSourceType, ItemID: itemID})
		}
	}

	if len(childIssues) > 0 {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueChildResolution, ItemID: itemID})
		res.Issues = append(res.Issues, childIssues...)
		return res
	}

	// Rendimiento efectivo en la unidad pedida. La conversión de yield es
	// solo global: el yield de un prep no pertenece a ningún ingrediente.
	yieldUnit := reconciliation.NormalizeUnit(item.YieldUnit)
	f, ok := r.factor(yieldUnit, res.RecipeUnit, 0)
	if !ok {
		res.Status = StatusError
		res.Issues = append(res.Issues, dto.CostIssue{
			Code:     domain.IssueMissingConversion,
			ItemID:   itemID,
			FromUnit: yieldUnit,
			ToUnit:   res.RecipeUnit,
		})
		return res
	}

	status := StatusOK
	effectiveYield := item.YieldQty.Mul(f)
	if effectiveYield.LessThanOrEqual(decimal.Zero) {
		effectiveYield = decimal.NewFromInt(1)
		status = StatusWarning
		res.Issues = append(res.Issues, dto.CostIssue{Code: domain.IssueZeroEffectiveYield, ItemID: itemID})
	}

	perUnit := total.Div(effectiveYield).Round(4)
	finalCost := perUnit.Mul(qty).Round(4)

	res.Status = status
	res.CostPerUnit = &perUnit
	res.TotalCost = &finalCost
	return res
}
