package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: no existen UPDATE ni DELETE sobre stock_ledger.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Create persiste una entrada inmutable del ledger.
func (r *LedgerRepo) Create(entry *entity.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_ledger (id, item_id, delta, kind, actor_id, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, entry.ItemID, entry.Delta, entry.Kind, entry.ActorID,
		nullIfEmpty(entry.Reference), nullIfEmpty(entry.Note), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *LedgerRepo) GetByID(id string) (*entity.LedgerEntry, error) {
	query := `
		SELECT id, item_id, delta, kind, actor_id, reference, note, created_at
		FROM stock_ledger WHERE id = $1`
	var e entity.LedgerEntry
	var reference, note *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.ItemID, &e.Delta, &e.Kind, &e.ActorID, &reference, &note, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}
	if reference != nil {
		e.Reference = *reference
	}
	if note != nil {
		e.Note = *note
	}
	return &e, nil
}

// ListByItem lista entradas de un artículo en un rango de fechas, más recientes primero.
func (r *LedgerRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, item_id, delta, kind, actor_id, reference, note, created_at
		FROM stock_ledger WHERE item_id = $1`
	args := []any{itemID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ledger by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		var reference, note *string
		if err := rows.Scan(&e.ID, &e.ItemID, &e.Delta, &e.Kind, &e.ActorID,
			&reference, &note, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if reference != nil {
			e.Reference = *reference
		}
		if note != nil {
			e.Note = *note
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumDeltasByItem devuelve Σ delta del artículo (conciliación contra items.quantity).
func (r *LedgerRepo) SumDeltasByItem(itemID string) (int64, error) {
	query := `SELECT COALESCE(SUM(delta), 0) FROM stock_ledger WHERE item_id = $1`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, itemID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum ledger deltas: %w", err)
	}
	return sum, nil
}
