package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// LedgerRepository define el puerto de persistencia para LedgerEntry.
// El ledger es append-only: no hay Update ni Delete.
type LedgerRepository interface {
	Create(entry *entity.LedgerEntry) error
	GetByID(id string) (*entity.LedgerEntry, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error)
	// SumDeltasByItem devuelve Σ delta del artículo (para conciliación contra Item.Quantity).
	SumDeltasByItem(itemID string) (int64, error)
}
