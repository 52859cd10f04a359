package purchase

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los repositorios
// del flujo de compras atados a esa tx. Una recepción multi-línea va completa en una
// sola transacción: o se aplican todas las líneas o ninguna.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		ledgerRepo repository.LedgerRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
