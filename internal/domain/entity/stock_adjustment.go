package entity

import "time"

// StockAdjustment es una corrección manual de existencias: se crea y se aplica
// en el mismo acto, sin estados posteriores. Delta lleva el valor solicitado
// aunque la aplicación haya hecho clamp a cero.
type StockAdjustment struct {
	ID        string
	ItemID    string
	Delta     int64
	Reason    string
	Reference string
	ActorID   string
	CreatedAt time.Time
}
