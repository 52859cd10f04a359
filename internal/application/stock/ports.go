package stock

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de mutaciones: la cantidad del
// artículo y su entrada de ledger se escriben juntas o no se escriben.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error

	// RunAdjustment agrega el repositorio de ajustes a la misma transacción.
	RunAdjustment(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		adjRepo repository.AdjustmentRepository,
	) error) error
}

// ItemCache invalida la proyección cacheada de un artículo tras una mutación
// confirmada. Best effort: un fallo de caché nunca afecta la operación.
type ItemCache interface {
	Invalidate(ctx context.Context, itemID string) error
}
