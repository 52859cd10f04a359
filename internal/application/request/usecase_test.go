package request_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/apptest"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/request"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func newUseCase(t *testing.T) (*request.UseCase, *apptest.Store) {
	t.Helper()
	store := apptest.NewStore()
	uc := request.NewUseCase(apptest.NewTxRunner(store), apptest.NewItemRepo(store), apptest.NewRequestRepo(store), nil)
	return uc, store
}

func seedItem(store *apptest.Store, qty int64) *entity.Item {
	return store.SeedItem(&entity.Item{SKU: "MAR-010", Name: "Marcador", Quantity: qty, Unit: "unidad"})
}

func createPending(t *testing.T, uc *request.UseCase, itemID string, qty int64) *entity.ItemRequest {
	t.Helper()
	req, err := uc.Create(context.Background(), "empleado-1", dto.CreateRequestRequest{
		ItemID:   itemID,
		Quantity: qty,
		Reason:   "clase de arte",
	})
	require.NoError(t, err)
	return req
}

func TestCreate_QuedaPendiente(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)

	req := createPending(t, uc, item.ID, 4)

	assert.Equal(t, entity.RequestStatusPending, req.Status)
	assert.Equal(t, int64(10), store.ItemQuantity(item.ID), "crear una solicitud no toca existencias")
	assert.Empty(t, store.LedgerEntries(item.ID))
}

func TestCreate_ArticuloInexistente(t *testing.T) {
	uc, _ := newUseCase(t)

	_, err := uc.Create(context.Background(), "empleado-1", dto.CreateRequestRequest{
		ItemID:   "no-existe",
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_CantidadInvalida(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)

	_, err := uc.Create(context.Background(), "empleado-1", dto.CreateRequestRequest{
		ItemID:   item.ID,
		Quantity: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_DescuentaYConfirma(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	approved, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{})

	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusConfirmed, approved.Status)
	require.NotNil(t, approved.QuantityApproved)
	assert.Equal(t, int64(4), *approved.QuantityApproved)
	assert.Equal(t, "almacenista-1", approved.ApproverID)
	assert.NotNil(t, approved.DecidedAt)
	assert.Equal(t, int64(6), store.ItemQuantity(item.ID))

	entries := store.LedgerEntries(item.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-4), entries[0].Delta)
	assert.Equal(t, entity.MovementRequest, entries[0].Kind)
	assert.Equal(t, "SOL-"+req.ID, entries[0].Reference)
}

func TestApprove_CantidadParcial(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	parcial := int64(2)
	approved, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{
		QuantityApproved: &parcial,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), *approved.QuantityApproved)
	assert.Equal(t, int64(8), store.ItemQuantity(item.ID))
}

func TestApprove_CantidadAprobadaFueraDeRango(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	exceso := int64(5)
	_, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{
		QuantityApproved: &exceso,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestApprove_StockInsuficienteQuedaPendiente(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 3)
	req := createPending(t, uc, item.ID, 4)

	_, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.ItemQuantity(item.ID), "la aprobación fallida no toca existencias")
	assert.Empty(t, store.LedgerEntries(item.ID), "la aprobación fallida no deja rastro en el ledger")

	pending, err := uc.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusPending, pending.Status, "la solicitud permanece pendiente para reintento")
}

func TestApprove_YaDecididaFalla(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	_, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{})
	require.NoError(t, err)

	_, err = uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(6), store.ItemQuantity(item.ID), "una doble aprobación no descuenta dos veces")
}

func TestReject_NoTocaExistencias(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	rejected, err := uc.Reject(context.Background(), req.ID, "almacenista-1", dto.RejectRequestRequest{
		Reason: "sin presupuesto",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusRejected, rejected.Status)
	assert.Equal(t, "sin presupuesto", rejected.DecisionNotes)
	assert.Equal(t, int64(10), store.ItemQuantity(item.ID))
	assert.Empty(t, store.LedgerEntries(item.ID))
}

func TestReject_YaDecididaFalla(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	_, err := uc.Reject(context.Background(), req.ID, "almacenista-1", dto.RejectRequestRequest{Reason: "x"})
	require.NoError(t, err)

	_, err = uc.Reject(context.Background(), req.ID, "almacenista-1", dto.RejectRequestRequest{Reason: "y"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReturn_ReingresaExistencias(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	_, err := uc.Approve(context.Background(), req.ID, "almacenista-1", dto.ApproveRequestRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(6), store.ItemQuantity(item.ID))

	returned, err := uc.Return(context.Background(), req.ID, "almacenista-1")

	require.NoError(t, err)
	assert.Equal(t, entity.RequestStatusReturned, returned.Status)
	assert.Equal(t, int64(10), store.ItemQuantity(item.ID), "la devolución reingresa la cantidad aprobada")

	entries := store.LedgerEntries(item.ID)
	require.Len(t, entries, 2, "entrega y devolución dejan cada una su entrada")
	assert.Equal(t, int64(-4), entries[0].Delta)
	assert.Equal(t, int64(4), entries[1].Delta)
	assert.Equal(t, int64(0), store.LedgerSum(item.ID), "entrega y devolución se anulan en el ledger")
}

func TestReturn_PendienteNoEsDevolvible(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 10)
	req := createPending(t, uc, item.ID, 4)

	_, err := uc.Return(context.Background(), req.ID, "almacenista-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// TestApprove_ConcurrenteSinSobregiro verifica que aprobaciones concurrentes del
// mismo artículo no pueden sobregirar la existencia: las transacciones se
// serializan por el bloqueo de fila y las que no alcanzan stock fallan.
func TestApprove_ConcurrenteSinSobregiro(t *testing.T) {
	uc, store := newUseCase(t)
	item := seedItem(store, 5)
	ctx := context.Background()

	reqA := createPending(t, uc, item.ID, 3)
	reqB := createPending(t, uc, item.ID, 4)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{reqA.ID, reqB.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = uc.Approve(ctx, id, "almacenista-1", dto.ApproveRequestRequest{})
		}(i, id)
	}
	wg.Wait()

	// 3 + 4 > 5: exactamente una aprobación puede pasar.
	var oks, insuficientes int
	for _, err := range errs {
		switch {
		case err == nil:
			oks++
		case err == domain.ErrInsufficientStock:
			insuficientes++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, oks)
	assert.Equal(t, 1, insuficientes)
	assert.GreaterOrEqual(t, store.ItemQuantity(item.ID), int64(0), "la existencia nunca queda negativa")
	assert.Equal(t, int64(5)+store.LedgerSum(item.ID), store.ItemQuantity(item.ID),
		"la existencia final refleja exactamente los deltas aplicados")
}
