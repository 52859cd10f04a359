package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockInRequest body para POST /api/stock-in (crea el acta en DRAFT).
type CreateStockInRequest struct {
	SupplierID string `json:"supplier_id"`
	Reference  string `json:"reference"`
	Notes      string `json:"notes,omitempty"`
}

// AddStockInLinesRequest body para POST /api/stock-in/:id/lines.
// Agregar líneas aplica las entradas y deja el acta en RECEIVED.
type AddStockInLinesRequest struct {
	Lines []StockInLineInput `json:"lines"`
}

// StockInLineInput línea recibida del proveedor.
type StockInLineInput struct {
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Location  string          `json:"location,omitempty"`
}

// StockInResponse proyección de un acta de entrada con sus líneas.
type StockInResponse struct {
	ID         string                `json:"id"`
	SupplierID string                `json:"supplier_id"`
	ReceiverID string                `json:"receiver_id"`
	Reference  string                `json:"reference"`
	Status     string                `json:"status"`
	Notes      string                `json:"notes,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
	Lines      []StockInLineResponse `json:"lines,omitempty"`
}

// StockInLineResponse línea persistida del acta.
type StockInLineResponse struct {
	ID        string          `json:"id"`
	ItemID    string          `json:"item_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	Location  string          `json:"location,omitempty"`
}
