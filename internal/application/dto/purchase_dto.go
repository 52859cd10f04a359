package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID string                   `json:"supplier_id"`
	Notes      string                   `json:"notes,omitempty"`
	ExpectedAt *time.Time               `json:"expected_at,omitempty"`
	Lines      []PurchaseOrderLineInput `json:"lines"`
}

// PurchaseOrderLineInput línea de la orden al crearla.
type PurchaseOrderLineInput struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ReceiveItemsRequest body para POST /api/purchase-orders/:id/receive.
type ReceiveItemsRequest struct {
	Lines []ReceiveLineInput `json:"lines"`
}

// ReceiveLineInput cantidad recibida contra una línea de la orden.
type ReceiveLineInput struct {
	LineID   string `json:"line_id"`
	Quantity int64  `json:"quantity"`
}

// PurchaseOrderResponse proyección de una orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID         string                      `json:"id"`
	Number     string                      `json:"number"`
	SupplierID string                      `json:"supplier_id"`
	CreatedBy  string                      `json:"created_by"`
	Status     string                      `json:"status"`
	Total      decimal.Decimal             `json:"total"`
	Notes      string                      `json:"notes,omitempty"`
	ExpectedAt *time.Time                  `json:"expected_at,omitempty"`
	ReceivedAt *time.Time                  `json:"received_at,omitempty"`
	CreatedAt  time.Time                   `json:"created_at"`
	Lines      []PurchaseOrderLineResponse `json:"lines,omitempty"`
}

// PurchaseOrderLineResponse línea con su avance de recepción.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	QuantityOrdered  int64           `json:"quantity_ordered"`
	QuantityReceived int64           `json:"quantity_received"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
}
