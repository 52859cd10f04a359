package stockin

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase gobierna las actas de entrada: se crean en DRAFT y solo admiten líneas
// en ese estado. Agregar líneas aplica todas las entradas y pasa el acta a RECEIVED
// en la misma transacción (finalización implícita, comportamiento observado del
// sistema de almacén).
type UseCase struct {
	txRunner     TxRunner
	supplierRepo repository.SupplierRepository
	docRepo      repository.StockInRepository // atado al pool, solo lecturas
	cache        stock.ItemCache              // opcional, puede ser nil
}

// NewUseCase construye el caso de uso de actas de entrada.
func NewUseCase(txRunner TxRunner, supplierRepo repository.SupplierRepository, docRepo repository.StockInRepository, cache stock.ItemCache) *UseCase {
	return &UseCase{txRunner: txRunner, supplierRepo: supplierRepo, docRepo: docRepo, cache: cache}
}

// CreateDocument registra el acta en DRAFT. Reference es único; un duplicado
// retorna ErrDuplicate.
func (uc *UseCase) CreateDocument(ctx context.Context, receiverID string, in dto.CreateStockInRequest) (*entity.StockInDocument, error) {
	if receiverID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.SupplierID == "" || in.Reference == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	doc := &entity.StockInDocument{
		SupplierID: in.SupplierID,
		ReceiverID: receiverID,
		Reference:  in.Reference,
		Status:     entity.StockInStatusDraft,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.docRepo.CreateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// AddLines agrega líneas a un acta DRAFT y la finaliza: inserta las líneas,
// incrementa la existencia una vez por artículo distinto (delta = suma de sus
// líneas, clase PO_RECEIPT) y deja el acta en RECEIVED, todo en una transacción.
func (uc *UseCase) AddLines(ctx context.Context, documentID, actorID string, in dto.AddStockInLinesRequest) (*entity.StockInDocument, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Lines {
		if line.ItemID == "" || line.Quantity < 1 || line.UnitCost.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	var result *entity.StockInDocument
	var touched []string
	err := uc.txRunner.RunStockIn(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		docRepo repository.StockInRepository,
	) error {
		doc, err := docRepo.GetForUpdate(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StockInStatusDraft {
			return domain.ErrInvalidState
		}

		for _, line := range in.Lines {
			item, err := itemRepo.GetByID(line.ItemID)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
			l := &entity.StockInLine{
				DocumentID: doc.ID,
				ItemID:     line.ItemID,
				Quantity:   line.Quantity,
				UnitCost:   line.UnitCost,
				ExpiresAt:  line.ExpiresAt,
				Location:   line.Location,
			}
			if err := docRepo.CreateLine(l); err != nil {
				return err
			}
			doc.Lines = append(doc.Lines, *l)
		}

		// Una mutación por artículo distinto: delta = suma de sus líneas.
		order := make([]string, 0, len(in.Lines))
		totals := make(map[string]int64, len(in.Lines))
		for _, line := range in.Lines {
			if _, seen := totals[line.ItemID]; !seen {
				order = append(order, line.ItemID)
			}
			totals[line.ItemID] += line.Quantity
		}
		for _, itemID := range order {
			if _, err := stock.ApplyInTx(itemRepo, ledgerRepo, stock.MutationInput{
				ItemID:    itemID,
				Delta:     totals[itemID],
				Kind:      entity.MovementPOReceipt,
				ActorID:   actorID,
				Reference: doc.Reference,
			}); err != nil {
				return err
			}
		}
		touched = order

		if err := docRepo.UpdateStatus(doc.ID, entity.StockInStatusReceived); err != nil {
			return err
		}
		doc.Status = entity.StockInStatusReceived
		doc.UpdatedAt = time.Now()
		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		for _, itemID := range touched {
			_ = uc.cache.Invalidate(ctx, itemID)
		}
	}
	return result, nil
}

// Cancel anula un acta que sigue en DRAFT; sin efecto sobre existencias.
func (uc *UseCase) Cancel(ctx context.Context, documentID, actorID string) (*entity.StockInDocument, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	var cancelled *entity.StockInDocument
	err := uc.txRunner.RunStockIn(ctx, func(
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		docRepo repository.StockInRepository,
	) error {
		doc, err := docRepo.GetForUpdate(documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if doc.Status != entity.StockInStatusDraft {
			return domain.ErrInvalidState
		}
		if err := docRepo.UpdateStatus(doc.ID, entity.StockInStatusCancelled); err != nil {
			return err
		}
		doc.Status = entity.StockInStatusCancelled
		cancelled = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetByID obtiene el acta con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.StockInDocument, error) {
	doc, err := uc.docRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.docRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		doc.Lines = append(doc.Lines, *l)
	}
	return doc, nil
}

// List devuelve actas filtradas por estado, paginadas (sin líneas).
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*entity.StockInDocument, error) {
	page.DefaultPage()
	return uc.docRepo.List(status, page.Limit, page.Offset)
}
