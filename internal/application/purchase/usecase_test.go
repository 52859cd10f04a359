package purchase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/purchase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func newUseCase(t *testing.T) (*purchase.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	uc := purchase.NewUseCase(
		apptest.NewTxRunner(store),
		apptest.NewItemRepo(store),
		apptest.NewSupplierRepo(store),
		apptest.NewPurchaseOrderRepo(store),
		nil,
	)
	return uc, store
}

func seedBase(store *apptest.Store) (*entity.Supplier, *entity.Item) {
	supplier := store.SeedSupplier(&entity.Supplier{Name: "Papelería Central"})
	item := store.SeedItem(&entity.Item{SKU: "RES-100", Name: "Resma carta", Unit: "resma"})
	return supplier, item
}

func createOrder(t *testing.T, uc *purchase.UseCase, supplierID, itemID string, qty int64) *entity.PurchaseOrder {
	t.Helper()
	order, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplierID,
		Lines: []dto.PurchaseOrderLineInput{
			{ItemID: itemID, Quantity: qty, UnitPrice: decimal.NewFromInt(12)},
		},
	})
	require.NoError(t, err)
	return order
}

func TestCreate_NumeroYTotal(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)

	order, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		Lines: []dto.PurchaseOrderLineInput{
			{ItemID: item.ID, Quantity: 10, UnitPrice: decimal.NewFromFloat(12.50)},
			{ItemID: item.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(100)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "OC-000001", order.Number)
	assert.Equal(t, entity.POStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(325)), "total = 10×12.50 + 2×100, got %s", order.Total)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, int64(0), order.Lines[0].QuantityReceived)
	assert.Equal(t, int64(0), store.ItemQuantity(item.ID), "crear la orden no toca existencias")
}

func TestCreate_NumerosConsecutivos(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)

	o1 := createOrder(t, uc, supplier.ID, item.ID, 1)
	o2 := createOrder(t, uc, supplier.ID, item.ID, 1)

	assert.Equal(t, "OC-000001", o1.Number)
	assert.Equal(t, "OC-000002", o2.Number)
}

func TestCreate_SinLineas(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, _ := seedBase(store)

	_, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProveedorInexistente(t *testing.T) {
	uc, store := newUseCase(t)
	_, item := seedBase(store)

	_, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: "no-existe",
		Lines:      []dto.PurchaseOrderLineInput{{ItemID: item.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_ParcialLuegoTotal(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 10)
	lineID := order.Lines[0].ID
	ctx := context.Background()

	parcial, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: lineID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPartiallyReceived, parcial.Status)
	assert.Nil(t, parcial.ReceivedAt)
	assert.Equal(t, int64(4), store.ItemQuantity(item.ID))

	total, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: lineID, Quantity: 6}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, total.Status)
	assert.NotNil(t, total.ReceivedAt)
	assert.Equal(t, int64(10), store.ItemQuantity(item.ID))

	entries := store.LedgerEntries(item.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.MovementPOReceipt, entries[0].Kind)
	assert.Equal(t, order.Number, entries[0].Reference)
	assert.Equal(t, store.LedgerSum(item.ID), store.ItemQuantity(item.ID))
}

func TestReceive_SuperaLoOrdenado(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 10)
	lineID := order.Lines[0].ID
	ctx := context.Background()

	_, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: lineID, Quantity: 4}},
	})
	require.NoError(t, err)

	// 4 recibidas + 7 > 10 ordenadas: la recepción completa se rechaza.
	_, err = uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: lineID, Quantity: 7}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(4), store.ItemQuantity(item.ID), "la recepción rechazada no toca existencias")

	current, err := uc.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), current.Lines[0].QuantityReceived)
	assert.Equal(t, entity.POStatusPartiallyReceived, current.Status)
}

func TestReceive_TotalMultilineaEnUnaLlamada(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, itemA := seedBase(store)
	itemB := store.SeedItem(&entity.Item{SKU: "TIN-200", Name: "Tinta", Unit: "frasco"})

	order, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		Lines: []dto.PurchaseOrderLineInput{
			{ItemID: itemA.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(10)},
			{ItemID: itemB.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	recibida, err := uc.Receive(context.Background(), order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{
			{LineID: order.Lines[0].ID, Quantity: 10},
			{LineID: order.Lines[1].ID, Quantity: 5},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.POStatusReceived, recibida.Status, "recibir ambas líneas completas cierra la orden")
	assert.NotNil(t, recibida.ReceivedAt)
	assert.Equal(t, int64(10), store.ItemQuantity(itemA.ID))
	assert.Equal(t, int64(5), store.ItemQuantity(itemB.ID))

	entradasA := store.LedgerEntries(itemA.ID)
	require.Len(t, entradasA, 1, "una entrada de ledger por artículo recibido")
	assert.Equal(t, entity.MovementPOReceipt, entradasA[0].Kind)
	assert.Equal(t, order.Number, entradasA[0].Reference)

	entradasB := store.LedgerEntries(itemB.ID)
	require.Len(t, entradasB, 1)
	assert.Equal(t, int64(5), entradasB[0].Delta)
}

func TestReceive_MultilineaAtomica(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, itemA := seedBase(store)
	itemB := store.SeedItem(&entity.Item{SKU: "TIN-200", Name: "Tinta", Unit: "frasco"})

	order, err := uc.Create(context.Background(), "admin-1", dto.CreatePurchaseOrderRequest{
		SupplierID: supplier.ID,
		Lines: []dto.PurchaseOrderLineInput{
			{ItemID: itemA.ID, Quantity: 5, UnitPrice: decimal.NewFromInt(10)},
			{ItemID: itemB.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)

	// La segunda línea excede lo ordenado: ninguna de las dos debe aplicarse.
	_, err = uc.Receive(context.Background(), order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{
			{LineID: order.Lines[0].ID, Quantity: 5},
			{LineID: order.Lines[1].ID, Quantity: 4},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(0), store.ItemQuantity(itemA.ID), "la recepción multi-línea es atómica")
	assert.Equal(t, int64(0), store.ItemQuantity(itemB.ID))
	assert.Empty(t, store.LedgerEntries(itemA.ID))

	current, err := uc.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusPending, current.Status)
	assert.Equal(t, int64(0), current.Lines[0].QuantityReceived)
}

func TestReceive_LineaInexistente(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 10)

	_, err := uc.Receive(context.Background(), order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: "no-existe", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_OrdenCerrada(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 2)
	ctx := context.Background()

	_, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: order.Lines[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: order.Lines[0].ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel_Pendiente(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 10)

	cancelled, err := uc.Cancel(context.Background(), order.ID, "admin-1")

	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, cancelled.Status)
}

func TestCancel_ParcialNoRevierte(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 10)
	ctx := context.Background()

	_, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: order.Lines[0].ID, Quantity: 4}},
	})
	require.NoError(t, err)

	cancelled, err := uc.Cancel(ctx, order.ID, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, entity.POStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(4), store.ItemQuantity(item.ID), "la cancelación no revierte recepciones aplicadas")
}

func TestCancel_RecibidaFalla(t *testing.T) {
	uc, store := newUseCase(t)
	supplier, item := seedBase(store)
	order := createOrder(t, uc, supplier.ID, item.ID, 2)
	ctx := context.Background()

	_, err := uc.Receive(ctx, order.ID, "almacenista-1", dto.ReceiveItemsRequest{
		Lines: []dto.ReceiveLineInput{{LineID: order.Lines[0].ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = uc.Cancel(ctx, order.ID, "admin-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
