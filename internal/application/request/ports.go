package request

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// del flujo de solicitudes atados a esa tx. La verificación de existencia suficiente
// y el decremento ocurren bajo el mismo bloqueo de fila del artículo.
type TxRunner interface {
	RunRequest(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		requestRepo repository.RequestRepository,
	) error) error
}
