package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// LedgerUseCase proyecciones de solo lectura sobre el ledger de movimientos.
type LedgerUseCase struct {
	ledgerRepo repository.LedgerRepository
	itemRepo   repository.ItemRepository
}

// NewLedgerUseCase construye el caso de uso de consultas del ledger.
func NewLedgerUseCase(ledgerRepo repository.LedgerRepository, itemRepo repository.ItemRepository) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, itemRepo: itemRepo}
}

// ListByItem lista entradas del ledger de un artículo en un rango de fechas, paginadas.
func (uc *LedgerUseCase) ListByItem(ctx context.Context, itemID string, from, to *time.Time, page dto.PageRequest) ([]*entity.LedgerEntry, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.ledgerRepo.ListByItem(itemID, from, to, page.Limit, page.Offset)
}

// GetEntry obtiene una entrada puntual del ledger por su id.
func (uc *LedgerUseCase) GetEntry(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	entry, err := uc.ledgerRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// ReconciliationResult compara la existencia del catálogo contra la suma de
// deltas del ledger para un artículo.
type ReconciliationResult struct {
	ItemID     string `json:"item_id"`
	Quantity   int64  `json:"quantity"`
	LedgerSum  int64  `json:"ledger_sum"`
	Reconciled bool   `json:"reconciled"`
}

// Reconcile verifica el invariante central: la existencia actual del artículo
// debe coincidir con la suma de todos sus deltas del ledger.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, itemID string) (*ReconciliationResult, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	sum, err := uc.ledgerRepo.SumDeltasByItem(itemID)
	if err != nil {
		return nil, err
	}
	return &ReconciliationResult{
		ItemID:     itemID,
		Quantity:   item.Quantity,
		LedgerSum:  sum,
		Reconciled: item.Quantity == sum,
	}, nil
}
