package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra.
const (
	POStatusPending           = "PENDING"
	POStatusPartiallyReceived = "PARTIALLY_RECEIVED"
	POStatusReceived          = "RECEIVED"
	POStatusCancelled         = "CANCELLED"
)

// PurchaseOrder es una orden de compra a un proveedor. Total es la suma derivada
// de cantidad ordenada × precio unitario de sus líneas.
type PurchaseOrder struct {
	ID         string
	Number     string // número de orden generado, único (OC-000123)
	SupplierID string
	CreatedBy  string
	Status     string
	Total      decimal.Decimal
	Notes      string
	ExpectedAt *time.Time // fecha esperada de entrega
	ReceivedAt *time.Time // fecha real de recepción total
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []PurchaseOrderLine
}

// PurchaseOrderLine es una línea de la orden. QuantityReceived crece de forma
// monótona y nunca supera QuantityOrdered.
type PurchaseOrderLine struct {
	ID               string
	OrderID          string
	ItemID           string
	QuantityOrdered  int64
	QuantityReceived int64
	UnitPrice        decimal.Decimal
}

// FullyReceived indica si todas las líneas ya se recibieron por completo.
func (o *PurchaseOrder) FullyReceived() bool {
	if len(o.Lines) == 0 {
		return false
	}
	for _, l := range o.Lines {
		if l.QuantityReceived < l.QuantityOrdered {
			return false
		}
	}
	return true
}

// Closed indica si la orden ya no admite recepciones ni cancelación.
func (o *PurchaseOrder) Closed() bool {
	return o.Status == POStatusReceived || o.Status == POStatusCancelled
}
