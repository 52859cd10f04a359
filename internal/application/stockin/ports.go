package stockin

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// del flujo de actas de entrada atados a esa tx. Insertar líneas, aplicar entradas
// y pasar el acta a RECEIVED ocurre de forma atómica.
type TxRunner interface {
	RunStockIn(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		docRepo repository.StockInRepository,
	) error) error
}
