package dto

import "time"

// RegisterMovementRequest body para POST /api/stock/movements (entrada/salida manual).
type RegisterMovementRequest struct {
	ItemID    string `json:"item_id"`
	Type      string `json:"type"` // IN | OUT
	Quantity  int64  `json:"quantity"`
	Reference string `json:"reference,omitempty"`
	Note      string `json:"note,omitempty"`
}

// MutationResponse resultado de una mutación de existencias.
type MutationResponse struct {
	ItemID        string `json:"item_id"`
	NewQuantity   int64  `json:"new_quantity"`
	LedgerEntryID string `json:"ledger_entry_id"`
}

// CreateAdjustmentRequest body para POST /api/stock/adjustments.
type CreateAdjustmentRequest struct {
	ItemID    string `json:"item_id"`
	Delta     int64  `json:"delta"` // con signo, distinto de cero
	Reason    string `json:"reason"`
	Reference string `json:"reference,omitempty"`
}

// AdjustmentResponse ajuste aplicado con la existencia resultante.
type AdjustmentResponse struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
	Reference   string    `json:"reference,omitempty"`
	ActorID     string    `json:"actor_id"`
	NewQuantity int64     `json:"new_quantity"`
	CreatedAt   time.Time `json:"created_at"`
}

// LedgerEntryResponse entrada del ledger para listados (solo lectura).
type LedgerEntryResponse struct {
	ID        string    `json:"id"`
	ItemID    string    `json:"item_id"`
	Delta     int64     `json:"delta"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	Reference string    `json:"reference,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
