package reconciliation

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
)

// UsageStatus clasifica el resultado de una resolución de usos.
type UsageStatus string

const (
	StatusOK      UsageStatus = "ok"      // sin issues
	StatusWarning UsageStatus = "warning" // con issues, pero salida usable
	StatusError   UsageStatus = "error"   // ciclo o receta ausente; sin salida
)

// UsageIssue anota un problema encontrado durante el recorrido del grafo.
// Source identifica el componente afectado cuando aplica; From/To documentan
// el par de unidades de una conversión ausente.
type UsageIssue struct {
	Code   string           `json:"code"`
	Source *entity.SourceRef `json:"source,omitempty"`
	From   string           `json:"from,omitempty"`
	To     string           `json:"to,omitempty"`
}

// IngredientUsage es el consumo acumulado de un ingrediente, en su unidad base.
type IngredientUsage struct {
	QuantityBase decimal.Decimal
	BaseUnit     string
}

// UsageResult es el consumo por unidad de salida de un item: cuánto de cada
// ingrediente crudo consume (transitivamente) producir una unidad de
// OutputUnit del item.
type UsageResult struct {
	Status      UsageStatus
	Issues      []UsageIssue
	Ingredients map[int64]IngredientUsage
	OutputUnit  string
}

type usageKey struct {
	itemID int64
	unit   string
}

// UsageResolver resuelve consumos por unidad recorriendo el grafo de recetas.
// El memo vive en el resolutor y el resolutor vive en una sola corrida: los
// datos de recetas y conversiones pueden cambiar entre peticiones, así que
// reconstruirlo por corrida es la opción que preserva corrección.
type UsageResolver struct {
	graph       *RecipeGraph
	conversions *ConversionTable
	ingredients map[int64]entity.Ingredient
	memo        map[usageKey]*UsageResult
}

// NewUsageResolver construye el resolutor para una corrida.
func NewUsageResolver(graph *RecipeGraph, conversions *ConversionTable, ingredients []entity.Ingredient) *UsageResolver {
	byID := make(map[int64]entity.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		byID[ing.ID] = ing
	}
	return &UsageResolver{
		graph:       graph,
		conversions: conversions,
		ingredients: byID,
		memo:        make(map[usageKey]*UsageResult),
	}
}

// PerUnit devuelve el consumo de ingredientes por una unidad outputUnit del
// item. Memoizado por (item, unidad normalizada): muchas líneas de venta
// repiten el mismo item y el grafo no cambia dentro de la corrida.
func (r *UsageResolver) PerUnit(itemID int64, outputUnit string) *UsageResult {
	return r.resolve(itemID, outputUnit, map[int64]bool{})
}

func (r *UsageResolver) resolve(itemID int64, outputUnit string, visited map[int64]bool) *UsageResult {
	key := usageKey{itemID: itemID, unit: NormalizeUnit(outputUnit)}
	if cached, ok := r.memo[key]; ok {
		return cached
	}

	if visited[itemID] {
		res := &UsageResult{Status: StatusError, Issues: []UsageIssue{{Code: domain.IssueCircular}}}
		r.memo[key] = res
		return res
	}
	visited[itemID] = true

	item, ok := r.graph.Item(itemID)
	comps := r.graph.Components(itemID)
	if !ok || len(comps) == 0 {
		res := &UsageResult{Status: StatusError, Issues: []UsageIssue{{Code: domain.IssueMissingRecipe}}}
		r.memo[key] = res
		return res
	}

	totals := make(map[int64]IngredientUsage)
	var issues []UsageIssue

	for _, comp := range comps {
		src := comp.Source
		switch src.Kind {
		case entity.SourceIngredient:
			ing, found := r.ingredients[src.ID]
			var ingPtr *entity.Ingredient
			if found {
				ingPtr = &ing
			}
			qtyBase, baseUnit, issue := r.conversions.ToBase(comp.Quantity, comp.Unit, ingPtr)
			if issue != "" {
				issues = append(issues, UsageIssue{Code: issue, Source: &src, From: NormalizeUnit(comp.Unit), To: NormalizeUnit(ing.BaseUnit)})
			}
			cur := totals[src.ID]
			cur.QuantityBase = cur.QuantityBase.Add(qtyBase)
			if cur.BaseUnit == "" {
				cur.BaseUnit = baseUnit
			}
			totals[src.ID] = cur

		case entity.SourceItem:
			// Copia de visited por rama: una rama hermana no debe heredar
			// el estado de ciclo de un camino ancestral ajeno.
			branch := make(map[int64]bool, len(visited))
			for k := range visited {
				branch[k] = true
			}
			child := r.resolve(src.ID, comp.Unit, branch)
			if child.Status != StatusOK {
				code := domain.IssueChildResolution
				if len(child.Issues) > 0 {
					code = child.Issues[0].Code
				}
				issues = append(issues, UsageIssue{Code: code, Source: &src})
				continue
			}
			for ingID, usage := range child.Ingredients {
				cur := totals[ingID]
				cur.QuantityBase = cur.QuantityBase.Add(usage.QuantityBase.Mul(comp.Quantity))
				if cur.BaseUnit == "" {
					cur.BaseUnit = usage.BaseUnit
				}
				totals[ingID] = cur
			}

		default:
			issues = append(issues, UsageIssue{Code: domain.IssueUnknownSourceType, Source: &src})
		}
	}

	effectiveYield, yieldIssues := r.effectiveYield(item, outputUnit)
	issues = append(issues, yieldIssues...)

	perUnit := make(map[int64]IngredientUsage, len(totals))
	for ingID, usage := range totals {
		perUnit[ingID] = IngredientUsage{
			QuantityBase: usage.QuantityBase.Div(effectiveYield),
			BaseUnit:     usage.BaseUnit,
		}
	}

	status := StatusOK
	if len(issues) > 0 {
		status = StatusWarning
	}
	res := &UsageResult{Status: status, Issues: issues, Ingredients: perUnit, OutputUnit: NormalizeUnit(outputUnit)}
	r.memo[key] = res
	return res
}

// effectiveYield convierte "ingredientes por tanda" en "ingredientes por
// unidad de salida": yield declarado del item por el factor yield_unit →
// output_unit (solo reglas globales). Una conversión ausente se reporta y se
// sigue con factor 1; un yield efectivo cero se fija en 1 y se reporta, para
// que la división quede siempre bien definida.
func (r *UsageResolver) effectiveYield(item entity.Item, outputUnit string) (decimal.Decimal, []UsageIssue) {
	var issues []UsageIssue

	yieldUnit := NormalizeUnit(item.YieldUnit)
	outputNorm := NormalizeUnit(outputUnit)
	if yieldUnit == "" {
		yieldUnit = outputNorm
	}
	if yieldUnit == "" {
		yieldUnit = "unit"
	}
	if outputNorm == "" {
		outputNorm = yieldUnit
	}

	factor := decimal.NewFromInt(1)
	if yieldUnit != outputNorm {
		if f, ok := r.conversions.Factor(yieldUnit, outputNorm, 0); ok {
			factor = f
		} else {
			issues = append(issues, UsageIssue{Code: domain.IssueMissingYieldConversion, From: yieldUnit, To: outputNorm})
		}
	}

	effective := item.YieldQty.Mul(factor)
	if effective.IsZero() {
		effective = decimal.NewFromInt(1)
		issues = append(issues, UsageIssue{Code: domain.IssueZeroEffectiveYield})
	}
	return effective, issues
}
