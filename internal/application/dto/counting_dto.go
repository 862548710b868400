package dto

import "github.com/shopspring/decimal"

// CountScanRequest una línea de conteo físico tal como llega del cliente.
type CountScanRequest struct {
	IngredientID int64           `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	Location     string          `json:"location,omitempty"`
}

// CountBatchResponse confirma un lote de conteos insertado.
type CountBatchResponse struct {
	BatchID string `json:"batch_id"`
	Entries int    `json:"entries"`
}

// AdjustmentRequest corrección manual de stock.
type AdjustmentRequest struct {
	IngredientID   int64           `json:"ingredient_id"`
	AdjustmentType string          `json:"adjustment_type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Reason         string          `json:"reason,omitempty"`
}

// ReceivingLine una línea de mercancía recibida.
type ReceivingLine struct {
	IngredientID int64           `json:"ingredient_id"`
	Units        decimal.Decimal `json:"units"`
	UnitType     string          `json:"unit_type"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
}

// ReceivingRequest una entrega completa de un proveedor.
type ReceivingRequest struct {
	ReceiveDate string          `json:"receive_date"`
	Supplier    string          `json:"supplier"`
	Items       []ReceivingLine `json:"items"`
}

// ReceivingResponse confirma una recepción registrada.
type ReceivingResponse struct {
	BatchID string `json:"batch_id"`
	Lines   int    `json:"lines"`
}
