package counting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/application/reconciliation"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/internal/domain/repository"
	"github.com/tu-usuario/foodcost-pro/pkg/logger"
)

// CountUseCase registra los eventos de inventario que la conciliación
// consume después: conteos físicos, ajustes manuales y recepciones de
// mercancía. Normaliza cantidades a unidad base al escribir para que las
// lecturas no dependan de la tabla de conversiones vigente.
type CountUseCase struct {
	counts      repository.CountRepository
	adjustments repository.AdjustmentRepository
	catalog     repository.CatalogRepository
	conversions repository.ConversionRepository
	tx          TxRunner
	log         *logger.Logger
}

// NewCountUseCase construye el caso de uso de registro de inventario.
func NewCountUseCase(
	counts repository.CountRepository,
	adjustments repository.AdjustmentRepository,
	catalog repository.CatalogRepository,
	conversions repository.ConversionRepository,
	tx TxRunner,
	log *logger.Logger,
) *CountUseCase {
	return &CountUseCase{
		counts:      counts,
		adjustments: adjustments,
		catalog:     catalog,
		conversions: conversions,
		tx:          tx,
		log:         log,
	}
}

// RecordCounts inserta un lote de conteos físicos bajo un mismo batch. La
// conversión a base es best effort: sin factor disponible la cantidad queda
// tal cual con la unidad cruda como base, igual que hace el flujo de lectura.
func (uc *CountUseCase) RecordCounts(ctx context.Context, scans []dto.CountScanRequest, userID int64) (*dto.CountBatchResponse, error) {
	if len(scans) == 0 {
		return nil, fmt.Errorf("lote de conteos vacío: %w", domain.ErrInvalidInput)
	}

	table, ingredients, err := uc.loadConversionContext(ctx, ingredientIDsFromScans(scans))
	if err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	now := time.Now().UTC()
	entries := make([]entity.CountEntry, 0, len(scans))
	for _, scan := range scans {
		if scan.IngredientID == 0 {
			return nil, fmt.Errorf("conteo sin ingrediente: %w", domain.ErrInvalidInput)
		}
		if scan.Quantity.IsNegative() {
			return nil, fmt.Errorf("conteo negativo para ingrediente %d: %w", scan.IngredientID, domain.ErrInvalidInput)
		}
		qtyBase, baseUnit, _ := table.ToBase(scan.Quantity, scan.Unit, ingredients[scan.IngredientID])
		entries = append(entries, entity.CountEntry{
			IngredientID: scan.IngredientID,
			Quantity:     scan.Quantity,
			Unit:         reconciliation.NormalizeUnit(scan.Unit),
			QuantityBase: qtyBase,
			BaseUnit:     baseUnit,
			Location:     scan.Location,
			BatchID:      batchID,
			CreatedAt:    now,
			UserID:       userID,
		})
	}

	if err := uc.counts.Insert(ctx, entries); err != nil {
		return nil, fmt.Errorf("insertar conteos: %w", err)
	}

	uc.log.Info().
		Str("batch_id", batchID).
		Int("entradas", len(entries)).
		Int64("user_id", userID).
		Msg("lote de conteos registrado")

	return &dto.CountBatchResponse{BatchID: batchID, Entries: len(entries)}, nil
}

// RecordAdjustment registra una corrección manual de stock.
func (uc *CountUseCase) RecordAdjustment(ctx context.Context, req dto.AdjustmentRequest, userID int64) error {
	if req.IngredientID == 0 || req.AdjustmentType == "" {
		return fmt.Errorf("ajuste incompleto: %w", domain.ErrInvalidInput)
	}

	table, ingredients, err := uc.loadConversionContext(ctx, []int64{req.IngredientID})
	if err != nil {
		return err
	}
	qtyBase, baseUnit, _ := table.ToBase(req.Quantity, req.Unit, ingredients[req.IngredientID])

	adj := &entity.Adjustment{
		IngredientID: req.IngredientID,
		Type:         req.AdjustmentType,
		Quantity:     req.Quantity,
		Unit:         reconciliation.NormalizeUnit(req.Unit),
		QuantityBase: qtyBase,
		BaseUnit:     baseUnit,
		Reason:       req.Reason,
		CreatedAt:    time.Now().UTC(),
		UserID:       userID,
	}
	if err := uc.adjustments.Insert(ctx, adj); err != nil {
		return fmt.Errorf("insertar ajuste: %w", err)
	}

	uc.log.Info().
		Int64("ingrediente", req.IngredientID).
		Str("tipo", req.AdjustmentType).
		Msg("ajuste de inventario registrado")
	return nil
}

// RecordReceiving registra una entrega: las líneas de mercancía y su
// cotización de precio derivada se escriben en una sola transacción para que
// conciliación y costeo nunca vean una entrega a medias.
func (uc *CountUseCase) RecordReceiving(ctx context.Context, req dto.ReceivingRequest) (*dto.ReceivingResponse, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("recepción sin líneas: %w", domain.ErrInvalidInput)
	}
	receiveDate, err := time.Parse("2006-01-02", req.ReceiveDate)
	if err != nil {
		return nil, fmt.Errorf("receive_date inválida %q: %w", req.ReceiveDate, domain.ErrInvalidInput)
	}

	batchID := uuid.NewString()
	rows := make([]entity.ReceivedGoods, 0, len(req.Items))
	quotes := make([]entity.PriceQuote, 0, len(req.Items))
	for _, line := range req.Items {
		if line.IngredientID == 0 || line.Units.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("línea de recepción inválida: %w", domain.ErrInvalidInput)
		}
		unit := reconciliation.NormalizeUnit(line.UnitType)
		rows = append(rows, entity.ReceivedGoods{
			IngredientID: line.IngredientID,
			Units:        line.Units,
			UnitType:     unit,
			PricePerUnit: line.PricePerUnit,
			Supplier:     req.Supplier,
			ReceiveDate:  receiveDate,
			BatchID:      batchID,
		})
		quotes = append(quotes, entity.PriceQuote{
			IngredientID: line.IngredientID,
			Source:       req.Supplier,
			SizeQty:      line.Units,
			SizeUnit:     unit,
			Price:        line.PricePerUnit.Mul(line.Units),
			DateFound:    receiveDate,
			IsPurchase:   true,
		})
	}

	err = uc.tx.Run(ctx, func(repos TxRepos) error {
		if err := repos.Purchases.Insert(ctx, rows); err != nil {
			return fmt.Errorf("insertar recepciones: %w", err)
		}
		for i := range quotes {
			if err := repos.Quotes.Insert(ctx, &quotes[i]); err != nil {
				return fmt.Errorf("insertar cotización: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("batch_id", batchID).
		Str("proveedor", req.Supplier).
		Int("lineas", len(rows)).
		Msg("recepción de mercancía registrada")

	return &dto.ReceivingResponse{BatchID: batchID, Lines: len(rows)}, nil
}

func (uc *CountUseCase) loadConversionContext(ctx context.Context, ingredientIDs []int64) (*reconciliation.ConversionTable, map[int64]*entity.Ingredient, error) {
	rows, err := uc.conversions.LoadFor(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar conversiones: %w", err)
	}
	all, err := uc.catalog.LoadIngredients(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("cargar ingredientes: %w", err)
	}
	byID := make(map[int64]*entity.Ingredient, len(all))
	for i := range all {
		byID[all[i].ID] = &all[i]
	}
	return reconciliation.NewConversionTable(rows), byID, nil
}

func ingredientIDsFromScans(scans []dto.CountScanRequest) []int64 {
	seen := make(map[int64]bool, len(scans))
	ids := make([]int64, 0, len(scans))
	for _, s := range scans {
		if !seen[s.IngredientID] {
			seen[s.IngredientID] = true
			ids = append(ids, s.IngredientID)
		}
	}
	return ids
}
