package entity

import "time"

// Supplier representa un proveedor del colegio (fuente de existencia para
// órdenes de compra y actas de entrada).
type Supplier struct {
	ID          string
	Name        string
	TaxID       string // NIT o documento fiscal
	ContactName string
	Phone       string
	Email       string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
