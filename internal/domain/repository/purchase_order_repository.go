package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para PurchaseOrder y sus líneas.
type PurchaseOrderRepository interface {
	Create(order *entity.PurchaseOrder) error
	CreateLine(line *entity.PurchaseOrderLine) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera de la orden (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	ListLines(orderID string) ([]*entity.PurchaseOrderLine, error)
	UpdateLineReceived(lineID string, quantityReceived int64) error
	UpdateStatus(id, status string, receivedAt *time.Time) error
	// NextNumber devuelve el siguiente consecutivo para numerar órdenes.
	NextNumber() (int64, error)
	List(status string, limit, offset int) ([]*entity.PurchaseOrder, error)
}
