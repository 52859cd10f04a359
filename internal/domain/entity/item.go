package entity

import "time"

// Estados de ciclo de vida de un artículo.
const (
	ItemStatusActive       = "ACTIVE"
	ItemStatusInactive     = "INACTIVE"
	ItemStatusDiscontinued = "DISCONTINUED"
)

// Item representa un artículo del catálogo de almacén del colegio.
// Quantity es una caché derivada del ledger: solo el motor de mutaciones la escribe,
// y en todo momento debe cumplir Quantity = cantidad inicial + Σ deltas del ledger.
type Item struct {
	ID           string
	SKU          string // código único de inventario
	Name         string
	Description  string
	Quantity     int64 // cantidad en existencia, nunca negativa
	ReorderLevel int64 // umbral de reposición
	Unit         string // unidad de medida (unidad, caja, resma, ...)
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidItemStatus indica si s es un estado de artículo conocido.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}
