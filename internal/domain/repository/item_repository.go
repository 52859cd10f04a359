package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ItemRepository define el puerto de persistencia para Item (DIP).
// Quantity solo debe escribirse vía UpdateQuantity y dentro de una transacción
// que haya bloqueado la fila con GetForUpdate.
type ItemRepository interface {
	Create(item *entity.Item) error
	Update(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.Item, error)
	UpdateQuantity(id string, quantity int64) error
	List(status string, limit, offset int) ([]*entity.Item, error)
	// ListBelowReorderLevel devuelve artículos activos con existencia <= umbral.
	ListBelowReorderLevel(limit, offset int) ([]*entity.Item, error)
}
