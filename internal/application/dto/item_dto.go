package dto

import "time"

// CreateItemRequest body para POST /api/items. La existencia inicial siempre es 0;
// el stock entra después por movimiento manual, recepción o acta de entrada.
type CreateItemRequest struct {
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ReorderLevel int64  `json:"reorder_level"`
	Unit         string `json:"unit"`
}

// UpdateItemRequest body para PUT /api/items/:id. No permite tocar la cantidad.
type UpdateItemRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	ReorderLevel *int64  `json:"reorder_level,omitempty"`
	Unit         *string `json:"unit,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// ItemResponse proyección de solo lectura de un artículo con su existencia actual.
type ItemResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Quantity     int64     `json:"quantity"`
	ReorderLevel int64     `json:"reorder_level"`
	Unit         string    `json:"unit"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
