package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Códigos de issue del motor de conciliación y costeo. Nunca son fatales para
// una corrida completa: se adjuntan a la unidad de salida más pequeña afectada
// (lista de issues del item, conversion_issues del ingrediente) y la
// computación continúa con el mejor valor disponible.
const (
	IssueMissingPrice           = "missing_price"
	IssueMissingRecipe          = "missing_recipe"
	IssueMissingConversion      = "missing_conversion"
	IssueMissingYieldConversion = "missing_yield_conversion"
	IssueCircular               = "circular"
	IssueCircularDependency     = "circular_dependency"
	IssueZeroEffectiveYield     = "zero_effective_yield"
	IssueInvalidQuoteQuantity   = "invalid_quote_quantity"
	IssueInvalidQuantity        = "invalid_quantity"
	IssueUnknownSourceType      = "unknown_source_type"
	IssueNotPrepItem            = "not_prep_item"
	IssueChildResolution        = "child_resolution_error"
)
