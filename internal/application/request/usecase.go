package request

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase gobierna el ciclo de vida de las solicitudes de artículos:
// PENDING → CONFIRMED/REJECTED por un aprobador, CONFIRMED → RETURNED por devolución.
// La aprobación decrementa existencias vía el motor de mutaciones bajo la misma
// transacción; si el stock no alcanza, falla y la solicitud queda PENDING.
type UseCase struct {
	txRunner    TxRunner
	itemRepo    repository.ItemRepository    // atado al pool, solo validaciones de existencia
	requestRepo repository.RequestRepository // atado al pool, solo lecturas
	cache       stock.ItemCache              // opcional, puede ser nil
}

// NewUseCase construye el caso de uso de solicitudes.
func NewUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, requestRepo repository.RequestRepository, cache stock.ItemCache) *UseCase {
	return &UseCase{txRunner: txRunner, itemRepo: itemRepo, requestRepo: requestRepo, cache: cache}
}

// Create registra una solicitud en PENDING. No toca existencias.
func (uc *UseCase) Create(ctx context.Context, requesterID string, in dto.CreateRequestRequest) (*entity.ItemRequest, error) {
	if requesterID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.ItemID == "" || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	req := &entity.ItemRequest{
		RequesterID: requesterID,
		ItemID:      in.ItemID,
		Quantity:    in.Quantity,
		Status:      entity.RequestStatusPending,
		Reason:      in.Reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Approve decide una solicitud PENDING: bloquea la fila de la solicitud, re-verifica
// la existencia bajo el bloqueo de fila del artículo y decrementa en la misma
// transacción. Con stock insuficiente retorna ErrInsufficientStock y la solicitud
// queda PENDING sin entrada de ledger. En éxito la solicitud termina CONFIRMED
// (la entrega es inmediata en el flujo observado del almacén).
func (uc *UseCase) Approve(ctx context.Context, requestID, approverID string, in dto.ApproveRequestRequest) (*entity.ItemRequest, error) {
	if approverID == "" {
		return nil, domain.ErrUnauthorized
	}
	var approved *entity.ItemRequest
	err := uc.txRunner.RunRequest(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		requestRepo repository.RequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrInvalidState
		}

		qty := req.Quantity
		if in.QuantityApproved != nil {
			if *in.QuantityApproved <= 0 || *in.QuantityApproved > req.Quantity {
				return domain.ErrInvalidInput
			}
			qty = *in.QuantityApproved
		}

		// Decremento estricto: bloquea la fila del artículo y verifica suficiencia.
		if _, err := stock.ApplyInTx(itemRepo, ledgerRepo, stock.MutationInput{
			ItemID:    req.ItemID,
			Delta:     -qty,
			Kind:      entity.MovementRequest,
			ActorID:   approverID,
			Reference: "SOL-" + req.ID,
			Note:      in.Notes,
			Strict:    true,
		}); err != nil {
			return err
		}

		now := time.Now()
		req.Status = entity.RequestStatusConfirmed
		req.QuantityApproved = &qty
		req.ApproverID = approverID
		req.DecisionNotes = in.Notes
		req.DecidedAt = &now
		req.UpdatedAt = now
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		approved = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, approved.ItemID)
	}
	return approved, nil
}

// Reject decide una solicitud PENDING sin efecto sobre existencias.
func (uc *UseCase) Reject(ctx context.Context, requestID, approverID string, in dto.RejectRequestRequest) (*entity.ItemRequest, error) {
	if approverID == "" {
		return nil, domain.ErrUnauthorized
	}
	var rejected *entity.ItemRequest
	err := uc.txRunner.RunRequest(ctx, func(
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		requestRepo repository.RequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if req.Status != entity.RequestStatusPending {
			return domain.ErrInvalidState
		}
		now := time.Now()
		req.Status = entity.RequestStatusRejected
		req.ApproverID = approverID
		req.DecisionNotes = in.Reason
		req.DecidedAt = &now
		req.UpdatedAt = now
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		rejected = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// Return devuelve al inventario lo entregado por una solicitud CONFIRMED (o APPROVED):
// incrementa existencias con delta positivo y deja la solicitud en RETURNED.
func (uc *UseCase) Return(ctx context.Context, requestID, actorID string) (*entity.ItemRequest, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	var returned *entity.ItemRequest
	err := uc.txRunner.RunRequest(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		requestRepo repository.RequestRepository,
	) error {
		req, err := requestRepo.GetForUpdate(requestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if !req.Returnable() {
			return domain.ErrInvalidState
		}

		qty := req.Quantity
		if req.QuantityApproved != nil {
			qty = *req.QuantityApproved
		}
		if _, err := stock.ApplyInTx(itemRepo, ledgerRepo, stock.MutationInput{
			ItemID:    req.ItemID,
			Delta:     qty,
			Kind:      entity.MovementRequest,
			ActorID:   actorID,
			Reference: "SOL-" + req.ID,
		}); err != nil {
			return err
		}

		now := time.Now()
		req.Status = entity.RequestStatusReturned
		req.UpdatedAt = now
		if err := requestRepo.Update(req); err != nil {
			return err
		}
		returned = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, returned.ItemID)
	}
	return returned, nil
}

// GetByID obtiene una solicitud.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.ItemRequest, error) {
	req, err := uc.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	return req, nil
}

// List devuelve solicitudes filtradas por estado y/o solicitante, paginadas.
func (uc *UseCase) List(ctx context.Context, status, requesterID string, page dto.PageRequest) ([]*entity.ItemRequest, error) {
	page.DefaultPage()
	return uc.requestRepo.List(status, requesterID, page.Limit, page.Offset)
}
