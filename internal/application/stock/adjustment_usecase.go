package stock

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AdjustmentUseCase aplica correcciones manuales de existencias. Un ajuste es de
// un solo disparo: se persiste el registro, se muta la existencia (con clamp a
// cero para deltas negativos) y se escribe el ledger, todo en una transacción.
type AdjustmentUseCase struct {
	txRunner TxRunner
	adjRepo  repository.AdjustmentRepository // atado al pool, solo lecturas
	cache    ItemCache                       // opcional, puede ser nil
}

// NewAdjustmentUseCase construye el caso de uso de ajustes.
func NewAdjustmentUseCase(txRunner TxRunner, adjRepo repository.AdjustmentRepository, cache ItemCache) *AdjustmentUseCase {
	return &AdjustmentUseCase{txRunner: txRunner, adjRepo: adjRepo, cache: cache}
}

// Create valida y aplica un ajuste manual. El delta persistido es el solicitado
// aunque la aplicación haya hecho clamp (política de piso en cero del inventario).
func (uc *AdjustmentUseCase) Create(ctx context.Context, actorID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResponse, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ItemID == "" || in.Delta == 0 || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	adj := &entity.StockAdjustment{
		ItemID:    in.ItemID,
		Delta:     in.Delta,
		Reason:    in.Reason,
		Reference: in.Reference,
		ActorID:   actorID,
		CreatedAt: now,
	}
	var res MutationResult
	err := uc.txRunner.RunAdjustment(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		adjRepo repository.AdjustmentRepository,
	) error {
		r, err := ApplyInTx(itemRepo, ledgerRepo, MutationInput{
			ItemID:    in.ItemID,
			Delta:     in.Delta,
			Kind:      entity.MovementAdjustment,
			ActorID:   actorID,
			Reference: in.Reference,
			Note:      in.Reason,
		})
		if err != nil {
			return err
		}
		res = r
		return adjRepo.Create(adj)
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, in.ItemID)
	}

	return &dto.AdjustmentResponse{
		ID:          adj.ID,
		ItemID:      adj.ItemID,
		Delta:       adj.Delta,
		Reason:      adj.Reason,
		Reference:   adj.Reference,
		ActorID:     adj.ActorID,
		NewQuantity: res.NewQuantity,
		CreatedAt:   adj.CreatedAt,
	}, nil
}

// List devuelve ajustes aplicados, opcionalmente filtrados por artículo.
func (uc *AdjustmentUseCase) List(ctx context.Context, itemID string, page dto.PageRequest) ([]*entity.StockAdjustment, error) {
	page.DefaultPage()
	return uc.adjRepo.List(itemID, page.Limit, page.Offset)
}
