package stock

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// MutationService es el único componente autorizado a cambiar Item.Quantity.
// Cada mutación bloquea la fila del artículo (SELECT FOR UPDATE), actualiza la
// cantidad y escribe exactamente una entrada de ledger, todo en una transacción.
type MutationService struct {
	txRunner TxRunner
	cache    ItemCache // opcional, puede ser nil
}

// NewMutationService construye el servicio de mutaciones.
func NewMutationService(txRunner TxRunner, cache ItemCache) *MutationService {
	return &MutationService{txRunner: txRunner, cache: cache}
}

// MutationInput entrada para aplicar una mutación de existencias.
// Delta va con signo y distinto de cero. Strict hace fallar los decrementos que
// dejarían la existencia negativa; sin Strict el decremento hace clamp a cero.
type MutationInput struct {
	ItemID    string
	Delta     int64
	Kind      string
	ActorID   string
	Reference string
	Note      string
	Strict    bool
}

// MutationResult existencia resultante y entrada de ledger creada.
type MutationResult struct {
	NewQuantity   int64
	LedgerEntryID string
}

// Apply abre su propia transacción y aplica la mutación (entradas/salidas manuales).
// Los flujos de solicitud, orden de compra y acta de entrada usan ApplyInTx dentro
// de su propia transacción.
func (s *MutationService) Apply(ctx context.Context, input MutationInput) (MutationResult, error) {
	if err := validateInput(input); err != nil {
		return MutationResult{}, err
	}
	var res MutationResult
	err := s.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error {
		r, err := ApplyInTx(itemRepo, ledgerRepo, input)
		if err != nil {
			return err
		}
		res = r
		return nil
	})
	if err != nil {
		return MutationResult{}, err
	}
	s.invalidate(ctx, input.ItemID)
	return res, nil
}

// RegisterMovement adapta el request HTTP de movimiento manual a Apply.
// IN suma existencias; OUT resta con verificación estricta de suficiencia.
func (s *MutationService) RegisterMovement(ctx context.Context, actorID string, in dto.RegisterMovementRequest) (MutationResult, error) {
	if actorID == "" {
		return MutationResult{}, domain.ErrUnauthorized
	}
	if in.Quantity <= 0 {
		return MutationResult{}, domain.ErrInvalidInput
	}
	input := MutationInput{
		ItemID:    in.ItemID,
		ActorID:   actorID,
		Reference: in.Reference,
		Note:      in.Note,
	}
	switch in.Type {
	case "IN":
		input.Delta = in.Quantity
		input.Kind = entity.MovementManualIn
	case "OUT":
		input.Delta = -in.Quantity
		input.Kind = entity.MovementManualOut
		input.Strict = true
	default:
		return MutationResult{}, domain.ErrInvalidInput
	}
	return s.Apply(ctx, input)
}

// ApplyInTx aplica una mutación usando repositorios ya atados a la transacción del
// caller. Bloquea la fila del artículo, calcula la nueva existencia (clamp a cero
// en decrementos no estrictos), la persiste y registra una entrada de ledger con el
// delta solicitado (no el aplicado).
func ApplyInTx(
	itemRepo repository.ItemRepository,
	ledgerRepo repository.LedgerRepository,
	input MutationInput,
) (MutationResult, error) {
	if err := validateInput(input); err != nil {
		return MutationResult{}, err
	}
	item, err := itemRepo.GetForUpdate(input.ItemID)
	if err != nil {
		return MutationResult{}, err
	}
	if item == nil {
		return MutationResult{}, domain.ErrNotFound
	}

	newQty := item.Quantity + input.Delta
	if newQty < 0 {
		if input.Strict {
			return MutationResult{}, domain.ErrInsufficientStock
		}
		newQty = 0
	}
	if err := itemRepo.UpdateQuantity(item.ID, newQty); err != nil {
		return MutationResult{}, err
	}

	entry := &entity.LedgerEntry{
		ItemID:    input.ItemID,
		Delta:     input.Delta,
		Kind:      input.Kind,
		ActorID:   input.ActorID,
		Reference: input.Reference,
		Note:      input.Note,
		CreatedAt: time.Now(),
	}
	if err := ledgerRepo.Create(entry); err != nil {
		return MutationResult{}, err
	}
	return MutationResult{NewQuantity: newQty, LedgerEntryID: entry.ID}, nil
}

func validateInput(input MutationInput) error {
	if input.ActorID == "" {
		return domain.ErrUnauthorized
	}
	if input.ItemID == "" || input.Delta == 0 || !entity.ValidMovementKind(input.Kind) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *MutationService) invalidate(ctx context.Context, itemID string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, itemID)
	}
}
