package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func TestItemCreate_ExistenciaInicialCero(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)

	item, err := uc.Create(context.Background(), dto.CreateItemRequest{
		SKU:          "LAP-001",
		Name:         "Lápiz HB",
		ReorderLevel: 5,
		Unit:         "unidad",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity, "todo artículo nace con existencia cero")
	assert.Equal(t, entity.ItemStatusActive, item.Status)
	assert.NotEmpty(t, item.ID)
}

func TestItemCreate_SKUDuplicado(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateItemRequest{SKU: "LAP-001", Name: "Lápiz", Unit: "unidad"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateItemRequest{SKU: "LAP-001", Name: "Otro lápiz", Unit: "unidad"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemCreate_Validacion(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)

	_, err := uc.Create(context.Background(), dto.CreateItemRequest{Name: "sin sku"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpdate_NoTocaCantidad(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)
	item := store.SeedItem(&entity.Item{SKU: "CUA-002", Name: "Cuaderno", Quantity: 15, Unit: "unidad"})

	name := "Cuaderno rayado"
	updated, err := uc.Update(context.Background(), item.ID, dto.UpdateItemRequest{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "Cuaderno rayado", updated.Name)
	assert.Equal(t, int64(15), store.ItemQuantity(item.ID), "el catálogo nunca escribe la existencia")
}

func TestItemUpdate_EstadoInvalido(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)
	item := store.SeedItem(&entity.Item{SKU: "CUA-002", Name: "Cuaderno", Unit: "unidad"})

	status := "ARCHIVED"
	_, err := uc.Update(context.Background(), item.ID, dto.UpdateItemRequest{Status: &status})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemGetByID_NoEncontrado(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)

	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListBelowReorderLevel_SoloActivosEnUmbral(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewItemUseCase(apptest.NewItemRepo(store), nil)

	store.SeedItem(&entity.Item{SKU: "A-001", Name: "Bajo umbral", Quantity: 2, ReorderLevel: 5, Unit: "unidad"})
	store.SeedItem(&entity.Item{SKU: "B-002", Name: "Sobre umbral", Quantity: 9, ReorderLevel: 5, Unit: "unidad"})
	store.SeedItem(&entity.Item{SKU: "C-003", Name: "Inactivo bajo", Quantity: 0, ReorderLevel: 5, Unit: "unidad", Status: entity.ItemStatusInactive})

	list, err := uc.ListBelowReorderLevel(context.Background(), dto.PageRequest{})

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A-001", list[0].SKU)
}

func TestReconcile_ExistenciaCoincideConLedger(t *testing.T) {
	store := apptest.NewStore()
	itemRepo := apptest.NewItemRepo(store)
	ledgerRepo := apptest.NewLedgerRepo(store)
	uc := usecase.NewLedgerUseCase(ledgerRepo, itemRepo)
	item := store.SeedItem(&entity.Item{SKU: "RES-100", Name: "Resma", Unit: "resma"})

	require.NoError(t, ledgerRepo.Create(&entity.LedgerEntry{ItemID: item.ID, Delta: 12, Kind: entity.MovementManualIn, ActorID: "a"}))
	require.NoError(t, ledgerRepo.Create(&entity.LedgerEntry{ItemID: item.ID, Delta: -5, Kind: entity.MovementRequest, ActorID: "a"}))
	require.NoError(t, itemRepo.UpdateQuantity(item.ID, 7))

	res, err := uc.Reconcile(context.Background(), item.ID)

	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, int64(7), res.Quantity)
	assert.Equal(t, int64(7), res.LedgerSum)
}

func TestReconcile_DetectaDescuadre(t *testing.T) {
	store := apptest.NewStore()
	itemRepo := apptest.NewItemRepo(store)
	ledgerRepo := apptest.NewLedgerRepo(store)
	uc := usecase.NewLedgerUseCase(ledgerRepo, itemRepo)
	item := store.SeedItem(&entity.Item{SKU: "RES-100", Name: "Resma", Quantity: 9, Unit: "resma"})

	require.NoError(t, ledgerRepo.Create(&entity.LedgerEntry{ItemID: item.ID, Delta: 12, Kind: entity.MovementManualIn, ActorID: "a"}))

	res, err := uc.Reconcile(context.Background(), item.ID)

	require.NoError(t, err)
	assert.False(t, res.Reconciled, "cantidad 9 contra suma 12 debe reportar descuadre")
}

func TestGetEntry_DevuelveEntradaPuntual(t *testing.T) {
	store := apptest.NewStore()
	ledgerRepo := apptest.NewLedgerRepo(store)
	uc := usecase.NewLedgerUseCase(ledgerRepo, apptest.NewItemRepo(store))
	item := store.SeedItem(&entity.Item{SKU: "RES-100", Name: "Resma", Unit: "resma"})

	entry := &entity.LedgerEntry{ItemID: item.ID, Delta: 12, Kind: entity.MovementManualIn, ActorID: "a"}
	require.NoError(t, ledgerRepo.Create(entry))

	got, err := uc.GetEntry(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, int64(12), got.Delta)
	assert.Equal(t, entity.MovementManualIn, got.Kind)
}

func TestGetEntry_NoEncontrada(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewLedgerUseCase(apptest.NewLedgerRepo(store), apptest.NewItemRepo(store))

	_, err := uc.GetEntry(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReconcile_ArticuloInexistente(t *testing.T) {
	store := apptest.NewStore()
	uc := usecase.NewLedgerUseCase(apptest.NewLedgerRepo(store), apptest.NewItemRepo(store))

	_, err := uc.Reconcile(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
