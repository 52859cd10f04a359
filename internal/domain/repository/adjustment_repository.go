package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// AdjustmentRepository define el puerto de persistencia para StockAdjustment.
// Los ajustes son de un solo disparo: solo Create y lecturas.
type AdjustmentRepository interface {
	Create(adj *entity.StockAdjustment) error
	List(itemID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
