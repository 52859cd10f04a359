package stockin_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stockin"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func newUseCase(t *testing.T) (*stockin.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	uc := stockin.NewUseCase(
		apptest.NewTxRunner(store),
		apptest.NewSupplierRepo(store),
		apptest.NewStockInRepo(store),
		nil,
	)
	return uc, store
}

func createDraft(t *testing.T, uc *stockin.UseCase, store *apptest.Store) *entity.StockInDocument {
	t.Helper()
	supplier := store.SeedSupplier(&entity.Supplier{Name: "Distribuidora Escolar"})
	doc, err := uc.CreateDocument(context.Background(), "almacenista-1", dto.CreateStockInRequest{
		SupplierID: supplier.ID,
		Reference:  "ACTA-2026-001",
	})
	require.NoError(t, err)
	return doc
}

func TestCreateDocument_QuedaEnBorrador(t *testing.T) {
	uc, store := newUseCase(t)

	doc := createDraft(t, uc, store)

	assert.Equal(t, entity.StockInStatusDraft, doc.Status)
	assert.Equal(t, "almacenista-1", doc.ReceiverID)
	assert.Empty(t, doc.Lines)
}

func TestCreateDocument_ReferenciaDuplicada(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)

	_, err := uc.CreateDocument(context.Background(), "almacenista-1", dto.CreateStockInRequest{
		SupplierID: doc.SupplierID,
		Reference:  doc.Reference,
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateDocument_ProveedorInexistente(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.CreateDocument(context.Background(), "almacenista-1", dto.CreateStockInRequest{
		SupplierID: "no-existe",
		Reference:  "ACTA-X",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAddLines_AplicaEntradasYRecibe(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)
	itemA := store.SeedItem(&entity.Item{SKU: "BOR-300", Name: "Borrador", Unit: "unidad"})
	itemB := store.SeedItem(&entity.Item{SKU: "REG-301", Name: "Regla", Unit: "unidad"})

	// Dos líneas del mismo artículo más una de otro: la mutación se agrega por artículo.
	received, err := uc.AddLines(context.Background(), doc.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{
			{ItemID: itemA.ID, Quantity: 6, UnitCost: decimal.NewFromFloat(0.80)},
			{ItemID: itemB.ID, Quantity: 12, UnitCost: decimal.NewFromInt(2)},
			{ItemID: itemA.ID, Quantity: 4, UnitCost: decimal.NewFromFloat(0.75)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StockInStatusReceived, received.Status, "agregar líneas finaliza el acta")
	assert.Len(t, received.Lines, 3)
	assert.Equal(t, int64(10), store.ItemQuantity(itemA.ID))
	assert.Equal(t, int64(12), store.ItemQuantity(itemB.ID))

	entriesA := store.LedgerEntries(itemA.ID)
	require.Len(t, entriesA, 1, "una sola entrada de ledger por artículo distinto")
	assert.Equal(t, int64(10), entriesA[0].Delta, "el delta es la suma de las líneas del artículo")
	assert.Equal(t, entity.MovementPOReceipt, entriesA[0].Kind)
	assert.Equal(t, doc.Reference, entriesA[0].Reference)

	entriesB := store.LedgerEntries(itemB.ID)
	require.Len(t, entriesB, 1)
	assert.Equal(t, int64(12), entriesB[0].Delta)
}

func TestAddLines_ActaNoEnBorrador(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)
	item := store.SeedItem(&entity.Item{SKU: "BOR-300", Name: "Borrador", Unit: "unidad"})
	ctx := context.Background()

	_, err := uc.AddLines(ctx, doc.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{{ItemID: item.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	// El acta ya quedó RECEIVED: no admite más líneas.
	_, err = uc.AddLines(ctx, doc.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{{ItemID: item.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(5), store.ItemQuantity(item.ID))
}

func TestAddLines_CantidadMenorAUno(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)
	item := store.SeedItem(&entity.Item{SKU: "BOR-300", Name: "Borrador", Unit: "unidad"})

	_, err := uc.AddLines(context.Background(), doc.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{{ItemID: item.ID, Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	current, err := uc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockInStatusDraft, current.Status, "la validación fallida no toca el acta")
}

func TestAddLines_ArticuloInexistenteRevierteTodo(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)
	item := store.SeedItem(&entity.Item{SKU: "BOR-300", Name: "Borrador", Unit: "unidad"})

	_, err := uc.AddLines(context.Background(), doc.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{
			{ItemID: item.ID, Quantity: 5},
			{ItemID: "no-existe", Quantity: 2},
		},
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, int64(0), store.ItemQuantity(item.ID), "la operación es atómica: nada se aplica")
	assert.Empty(t, store.LedgerEntries(item.ID))

	current, err := uc.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StockInStatusDraft, current.Status)
	assert.Empty(t, current.Lines)
}

func TestAddLines_SinLineas(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)

	_, err := uc.AddLines(context.Background(), doc.ID, "almacenista-1", dto.AddStockInLinesRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancel_SoloBorrador(t *testing.T) {
	uc, store := newUseCase(t)
	doc := createDraft(t, uc, store)
	item := store.SeedItem(&entity.Item{SKU: "BOR-300", Name: "Borrador", Unit: "unidad"})
	ctx := context.Background()

	cancelled, err := uc.Cancel(ctx, doc.ID, "almacenista-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StockInStatusCancelled, cancelled.Status)

	// Un acta ya recibida no se puede cancelar.
	supplier := store.SeedSupplier(&entity.Supplier{Name: "Otro Proveedor"})
	doc2, err := uc.CreateDocument(ctx, "almacenista-1", dto.CreateStockInRequest{
		SupplierID: supplier.ID,
		Reference:  "ACTA-2026-002",
	})
	require.NoError(t, err)
	_, err = uc.AddLines(ctx, doc2.ID, "almacenista-1", dto.AddStockInLinesRequest{
		Lines: []dto.StockInLineInput{{ItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, doc2.ID, "almacenista-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
