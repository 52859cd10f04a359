package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de AdjustmentRepository sobre PostgreSQL
// (usable con pool o tx). La tabla es append-only.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador de ajustes. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste un ajuste manual ya aplicado.
func (r *AdjustmentRepo) Create(adj *entity.StockAdjustment) error {
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_adjustments (id, item_id, delta, reason, reference, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		adj.ID, adj.ItemID, adj.Delta, adj.Reason, nullIfEmpty(adj.Reference),
		adj.ActorID, adj.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock adjustment: %w", err)
	}
	return nil
}

// List lista ajustes, opcionalmente filtrados por artículo, más recientes primero.
func (r *AdjustmentRepo) List(itemID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	query := `
		SELECT id, item_id, delta, reason, reference, actor_id, created_at
		FROM stock_adjustments`
	args := []any{}
	pos := 1
	if itemID != "" {
		query += fmt.Sprintf(" WHERE item_id = $%d", pos)
		args = append(args, itemID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock adjustments: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockAdjustment
	for rows.Next() {
		var a entity.StockAdjustment
		var reference *string
		if err := rows.Scan(&a.ID, &a.ItemID, &a.Delta, &a.Reason,
			&reference, &a.ActorID, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock adjustment: %w", err)
		}
		if reference != nil {
			a.Reference = *reference
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
