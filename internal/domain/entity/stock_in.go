package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un acta de entrada de mercancía.
const (
	StockInStatusDraft     = "DRAFT"
	StockInStatusReceived  = "RECEIVED"
	StockInStatusCancelled = "CANCELLED"
)

// StockInDocument es el acta de entrada por recepción de proveedor.
// Solo admite líneas en DRAFT; agregar líneas aplica las entradas y pasa el
// acta a RECEIVED en el mismo acto (semántica deliberada de un solo disparo).
type StockInDocument struct {
	ID         string
	SupplierID string
	ReceiverID string
	Reference  string // número de referencia único del acta
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Lines []StockInLine
}

// StockInLine es una línea recibida dentro de un acta de entrada.
type StockInLine struct {
	ID         string
	DocumentID string
	ItemID     string
	Quantity   int64 // cantidad recibida, >= 1
	UnitCost   decimal.Decimal
	ExpiresAt  *time.Time
	Location   string // ubicación física (estante, bodega)
}
