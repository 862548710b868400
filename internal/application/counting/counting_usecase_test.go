package counting_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/foodcost-pro/internal/application/counting"
	"github.com/tu-usuario/foodcost-pro/internal/application/dto"
	"github.com/tu-usuario/foodcost-pro/internal/domain"
	"github.com/tu-usuario/foodcost-pro/internal/domain/entity"
	"github.com/tu-usuario/foodcost-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del registro de inventario: conteos por lote con normalización a
// unidad base, ajustes manuales y recepciones transaccionales con su
// cotización de precio derivada.
// ──────────────────────────────────────────────────────────────────────────────

type fakeCounts struct{ inserted []entity.CountEntry }

func (f *fakeCounts) LoadRecent(ctx context.Context, since time.Time) ([]entity.CountEntry, error) {
	return nil, nil
}
func (f *fakeCounts) Insert(ctx context.Context, entries []entity.CountEntry) error {
	f.inserted = append(f.inserted, entries...)
	return nil
}

type fakeAdjustments struct{ inserted []entity.Adjustment }

func (f *fakeAdjustments) LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.Adjustment, error) {
	return nil, nil
}
func (f *fakeAdjustments) Insert(ctx context.Context, adj *entity.Adjustment) error {
	f.inserted = append(f.inserted, *adj)
	return nil
}

type fakeCatalog struct{ ingredients []entity.Ingredient }

func (f *fakeCatalog) LoadIngredients(ctx context.Context) ([]entity.Ingredient, error) {
	return f.ingredients, nil
}
func (f *fakeCatalog) GetIngredient(ctx context.Context, id int64) (*entity.Ingredient, error) {
	for i := range f.ingredients {
		if f.ingredients[i].ID == id {
			return &f.ingredients[i], nil
		}
	}
	return nil, fmt.Errorf("ingrediente %d: %w", id, domain.ErrNotFound)
}
func (f *fakeCatalog) LoadItems(ctx context.Context) ([]entity.Item, error) { return nil, nil }
func (f *fakeCatalog) LoadRecipeComponents(ctx context.Context) ([]entity.RecipeComponent, error) {
	return nil, nil
}

type fakeConversions struct{ rows []entity.UnitConversion }

func (f *fakeConversions) LoadFor(ctx context.Context, ids []int64) ([]entity.UnitConversion, error) {
	return f.rows, nil
}

type fakePurchases struct {
	inserted []entity.ReceivedGoods
	fail     error
}

func (f *fakePurchases) LoadRange(ctx context.Context, ingredientIDs []int64, from, to time.Time) ([]entity.ReceivedGoods, error) {
	return nil, nil
}
func (f *fakePurchases) Insert(ctx context.Context, rows []entity.ReceivedGoods) error {
	if f.fail != nil {
		return f.fail
	}
	f.inserted = append(f.inserted, rows...)
	return nil
}

type fakeQuotes struct{ inserted []entity.PriceQuote }

func (f *fakeQuotes) LatestFor(ctx context.Context, ingredientID int64) (*entity.PriceQuote, error) {
	return nil, fmt.Errorf("cotización: %w", domain.ErrNotFound)
}
func (f *fakeQuotes) Insert(ctx context.Context, q *entity.PriceQuote) error {
	f.inserted = append(f.inserted, *q)
	return nil
}

// fakeTx ejecuta fn directo sobre los fakes; sin transacción real basta con
// verificar que un error de fn se propaga y corta las escrituras siguientes.
type fakeTx struct {
	purchases *fakePurchases
	quotes    *fakeQuotes
}

func (f *fakeTx) Run(ctx context.Context, fn func(repos counting.TxRepos) error) error {
	return fn(counting.TxRepos{Purchases: f.purchases, Quotes: f.quotes})
}

type countingFixture struct {
	counts      *fakeCounts
	adjustments *fakeAdjustments
	catalog     *fakeCatalog
	conversions *fakeConversions
	purchases   *fakePurchases
	quotes      *fakeQuotes
}

func newFixture() *countingFixture {
	return &countingFixture{
		counts:      &fakeCounts{},
		adjustments: &fakeAdjustments{},
		catalog: &fakeCatalog{ingredients: []entity.Ingredient{
			{ID: 101, Name: "Tomate", BaseUnit: "lb"},
		}},
		conversions: &fakeConversions{rows: []entity.UnitConversion{
			{FromUnit: "oz", ToUnit: "lb", Factor: decimal.NewFromFloat(0.0625), IsGlobal: true},
		}},
		purchases: &fakePurchases{},
		quotes:    &fakeQuotes{},
	}
}

func (fx *countingFixture) useCase() *counting.CountUseCase {
	return counting.NewCountUseCase(
		fx.counts,
		fx.adjustments,
		fx.catalog,
		fx.conversions,
		&fakeTx{purchases: fx.purchases, quotes: fx.quotes},
		logger.Nop(),
	)
}

func TestRecordCounts_NormalizaABase(t *testing.T) {
	fx := newFixture()

	resp, err := fx.useCase().RecordCounts(context.Background(), []dto.CountScanRequest{
		{IngredientID: 101, Quantity: decimal.NewFromInt(32), Unit: "oz", Location: "walk-in"},
	}, 7)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 1, resp.Entries)
	require.Len(t, fx.counts.inserted, 1)

	entry := fx.counts.inserted[0]
	assert.Equal(t, resp.BatchID, entry.BatchID)
	assert.Equal(t, "oz", entry.Unit)
	assert.True(t, entry.QuantityBase.Equal(decimal.NewFromInt(2)), "32 oz = 2 lb")
	assert.Equal(t, "lb", entry.BaseUnit)
	assert.Equal(t, int64(7), entry.UserID)
}

func TestRecordCounts_MismoLoteParaTodasLasLineas(t *testing.T) {
	fx := newFixture()
	fx.catalog.ingredients = append(fx.catalog.ingredients, entity.Ingredient{ID: 102, Name: "Cebolla", BaseUnit: "lb"})

	resp, err := fx.useCase().RecordCounts(context.Background(), []dto.CountScanRequest{
		{IngredientID: 101, Quantity: decimal.NewFromInt(3), Unit: "lb"},
		{IngredientID: 102, Quantity: decimal.NewFromInt(5), Unit: "lb"},
	}, 1)
	require.NoError(t, err)

	require.Len(t, fx.counts.inserted, 2)
	assert.Equal(t, resp.BatchID, fx.counts.inserted[0].BatchID)
	assert.Equal(t, resp.BatchID, fx.counts.inserted[1].BatchID)
}

func TestRecordCounts_SinFactorPasaIntacto(t *testing.T) {
	fx := newFixture()
	fx.conversions.rows = nil

	_, err := fx.useCase().RecordCounts(context.Background(), []dto.CountScanRequest{
		{IngredientID: 101, Quantity: decimal.NewFromInt(32), Unit: "oz"},
	}, 1)
	require.NoError(t, err)

	entry := fx.counts.inserted[0]
	assert.True(t, entry.QuantityBase.Equal(decimal.NewFromInt(32)))
	assert.Equal(t, "oz", entry.BaseUnit, "sin conversión la unidad cruda queda como base")
}

func TestRecordCounts_Invalidos(t *testing.T) {
	fx := newFixture()
	uc := fx.useCase()

	_, err := uc.RecordCounts(context.Background(), nil, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordCounts(context.Background(), []dto.CountScanRequest{
		{IngredientID: 101, Quantity: decimal.NewFromInt(-1), Unit: "lb"},
	}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordCounts(context.Background(), []dto.CountScanRequest{
		{Quantity: decimal.NewFromInt(1), Unit: "lb"},
	}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, fx.counts.inserted)
}

func TestRecordAdjustment(t *testing.T) {
	fx := newFixture()

	err := fx.useCase().RecordAdjustment(context.Background(), dto.AdjustmentRequest{
		IngredientID:   101,
		AdjustmentType: "remove",
		Quantity:       decimal.NewFromInt(16),
		Unit:           "oz",
		Reason:         "merma",
	}, 3)
	require.NoError(t, err)

	require.Len(t, fx.adjustments.inserted, 1)
	adj := fx.adjustments.inserted[0]
	assert.Equal(t, "remove", adj.Type)
	assert.True(t, adj.QuantityBase.Equal(decimal.NewFromInt(1)), "16 oz = 1 lb")
	assert.Equal(t, "lb", adj.BaseUnit)
	assert.True(t, adj.SignedQuantityBase().Equal(decimal.NewFromInt(-1)))
}

func TestRecordAdjustment_Incompleto(t *testing.T) {
	fx := newFixture()

	err := fx.useCase().RecordAdjustment(context.Background(), dto.AdjustmentRequest{
		IngredientID: 101,
		Quantity:     decimal.NewFromInt(1),
		Unit:         "lb",
	}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, fx.adjustments.inserted)
}

func TestRecordReceiving_GeneraCotizacion(t *testing.T) {
	fx := newFixture()

	resp, err := fx.useCase().RecordReceiving(context.Background(), dto.ReceivingRequest{
		ReceiveDate: "2026-08-29",
		Supplier:    "US Foods",
		Items: []dto.ReceivingLine{
			{IngredientID: 101, Units: decimal.NewFromInt(10), UnitType: "lb", PricePerUnit: decimal.NewFromFloat(2.5)},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BatchID)
	assert.Equal(t, 1, resp.Lines)

	require.Len(t, fx.purchases.inserted, 1)
	row := fx.purchases.inserted[0]
	assert.Equal(t, resp.BatchID, row.BatchID)
	assert.Equal(t, "US Foods", row.Supplier)
	assert.Equal(t, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC), row.ReceiveDate)

	require.Len(t, fx.quotes.inserted, 1)
	quote := fx.quotes.inserted[0]
	assert.True(t, quote.IsPurchase)
	assert.Equal(t, "US Foods", quote.Source)
	assert.True(t, quote.SizeQty.Equal(decimal.NewFromInt(10)))
	// El precio de la cotización es el total de la línea: price/size_qty
	// reconstruye el precio unitario.
	assert.True(t, quote.Price.Equal(decimal.NewFromInt(25)))
	assert.True(t, quote.Price.Div(quote.SizeQty).Equal(decimal.NewFromFloat(2.5)))
}

func TestRecordReceiving_FallaNoDejaCotizaciones(t *testing.T) {
	fx := newFixture()
	fx.purchases.fail = errors.New("deadlock detectado")

	_, err := fx.useCase().RecordReceiving(context.Background(), dto.ReceivingRequest{
		ReceiveDate: "2026-08-29",
		Supplier:    "US Foods",
		Items: []dto.ReceivingLine{
			{IngredientID: 101, Units: decimal.NewFromInt(10), UnitType: "lb", PricePerUnit: decimal.NewFromFloat(2.5)},
		},
	})
	require.Error(t, err)
	assert.Empty(t, fx.quotes.inserted)
}

func TestRecordReceiving_Invalidos(t *testing.T) {
	fx := newFixture()
	uc := fx.useCase()

	_, err := uc.RecordReceiving(context.Background(), dto.ReceivingRequest{ReceiveDate: "2026-08-29"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordReceiving(context.Background(), dto.ReceivingRequest{
		ReceiveDate: "29/08/2026",
		Items: []dto.ReceivingLine{
			{IngredientID: 101, Units: decimal.NewFromInt(1), UnitType: "lb", PricePerUnit: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RecordReceiving(context.Background(), dto.ReceivingRequest{
		ReceiveDate: "2026-08-29",
		Items: []dto.ReceivingLine{
			{IngredientID: 101, Units: decimal.Zero, UnitType: "lb", PricePerUnit: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, fx.purchases.inserted)
}
