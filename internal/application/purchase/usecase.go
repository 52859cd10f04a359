package purchase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase gobierna las órdenes de compra: PENDING → PARTIALLY_RECEIVED → RECEIVED,
// con cancelación posible antes de RECEIVED. Cada recepción incrementa existencias
// vía el motor de mutaciones dentro de una sola transacción para toda la recepción.
type UseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	orderRepo    repository.PurchaseOrderRepository // atado al pool, solo lecturas
	cache        stock.ItemCache                    // opcional, puede ser nil
}

// NewUseCase construye el caso de uso de órdenes de compra.
func NewUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	orderRepo repository.PurchaseOrderRepository,
	cache stock.ItemCache,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		orderRepo:    orderRepo,
		cache:        cache,
	}
}

// Create valida proveedor, artículos y líneas; genera el número de orden y persiste
// cabecera y líneas en PENDING dentro de una transacción.
// Total = Σ cantidad ordenada × precio unitario.
func (uc *UseCase) Create(ctx context.Context, creatorID string, in dto.CreatePurchaseOrderRequest) (*entity.PurchaseOrder, error) {
	if creatorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	total := decimal.Zero
	for _, line := range in.Lines {
		if line.ItemID == "" || line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrNotFound
		}
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity)))
	}

	now := time.Now()
	order := &entity.PurchaseOrder{
		SupplierID: in.SupplierID,
		CreatedBy:  creatorID,
		Status:     entity.POStatusPending,
		Total:      total,
		Notes:      in.Notes,
		ExpectedAt: in.ExpectedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = uc.txRunner.RunPurchase(ctx, func(
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		seq, err := orderRepo.NextNumber()
		if err != nil {
			return err
		}
		order.Number = fmt.Sprintf("OC-%06d", seq)
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, line := range in.Lines {
			l := &entity.PurchaseOrderLine{
				OrderID:         order.ID,
				ItemID:          line.ItemID,
				QuantityOrdered: line.Quantity,
				UnitPrice:       line.UnitPrice,
			}
			if err := orderRepo.CreateLine(l); err != nil {
				return err
			}
			order.Lines = append(order.Lines, *l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Receive aplica una recepción (total o parcial) contra las líneas de la orden.
// Por línea: la cantidad recibida acumulada no puede superar la ordenada, se
// incrementa la existencia del artículo (clase PO_RECEIPT) y al final se recalcula
// el estado: RECEIVED si toda línea quedó completa, si no PARTIALLY_RECEIVED.
func (uc *UseCase) Receive(ctx context.Context, orderID, actorID string, in dto.ReceiveItemsRequest) (*entity.PurchaseOrder, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var received *entity.PurchaseOrder
	touched := make([]string, 0, len(in.Lines))
	err := uc.txRunner.RunPurchase(ctx, func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Closed() {
			return domain.ErrInvalidState
		}

		lines, err := orderRepo.ListLines(order.ID)
		if err != nil {
			return err
		}
		byID := make(map[string]*entity.PurchaseOrderLine, len(lines))
		for _, l := range lines {
			byID[l.ID] = l
		}

		for _, rl := range in.Lines {
			line, ok := byID[rl.LineID]
			if !ok {
				return domain.ErrNotFound
			}
			if rl.Quantity <= 0 {
				return domain.ErrInvalidInput
			}
			newReceived := line.QuantityReceived + rl.Quantity
			if newReceived > line.QuantityOrdered {
				return domain.ErrInvalidInput
			}
			if err := orderRepo.UpdateLineReceived(line.ID, newReceived); err != nil {
				return err
			}
			line.QuantityReceived = newReceived

			if _, err := stock.ApplyInTx(itemRepo, ledgerRepo, stock.MutationInput{
				ItemID:    line.ItemID,
				Delta:     rl.Quantity,
				Kind:      entity.MovementPOReceipt,
				ActorID:   actorID,
				Reference: order.Number,
			}); err != nil {
				return err
			}
			touched = append(touched, line.ItemID)
		}

		order.Lines = make([]entity.PurchaseOrderLine, 0, len(lines))
		for _, l := range lines {
			order.Lines = append(order.Lines, *l)
		}
		now := time.Now()
		status := entity.POStatusPartiallyReceived
		var receivedAt *time.Time
		if order.FullyReceived() {
			status = entity.POStatusReceived
			receivedAt = &now
		}
		if err := orderRepo.UpdateStatus(order.ID, status, receivedAt); err != nil {
			return err
		}
		order.Status = status
		order.ReceivedAt = receivedAt
		order.UpdatedAt = now
		received = order
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
	return received, nil
}

// Cancel cancela la orden en cualquier estado previo a RECEIVED. La cancelación
// nunca revierte recepciones parciales ya aplicadas.
func (uc *UseCase) Cancel(ctx context.Context, orderID, actorID string) (*entity.PurchaseOrder, error) {
	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	var cancelled *entity.PurchaseOrder
	err := uc.txRunner.RunPurchase(ctx, func(
		_ repository.ItemRepository,
		_ repository.LedgerRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		order, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Closed() {
			return domain.ErrInvalidState
		}
		if err := orderRepo.UpdateStatus(order.ID, entity.POStatusCancelled, nil); err != nil {
			return err
		}
		order.Status = entity.POStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// GetByID obtiene la orden con sus líneas.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.ListLines(id)
	if err != nil {
		return nil, err
	}
	for _, l := range lines {
		order.Lines = append(order.Lines, *l)
	}
	return order, nil
}

// List devuelve órdenes filtradas por estado, paginadas (sin líneas).
func (uc *UseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*entity.PurchaseOrder, error) {
	page.DefaultPage()
	return uc.orderRepo.List(status, page.Limit, page.Offset)
}
