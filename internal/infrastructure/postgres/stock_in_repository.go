package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.StockInRepository = (*StockInRepo)(nil)

const stockInColumns = `id, supplier_id, receiver_id, reference, status, notes, created_at, updated_at`

// StockInRepo implementación de StockInRepository sobre PostgreSQL (usable con pool o tx).
type StockInRepo struct {
	q Querier
}

// NewStockInRepository construye el adaptador de actas de entrada. Pasar pool o tx (Querier).
func NewStockInRepository(q Querier) *StockInRepo {
	return &StockInRepo{q: q}
}

// CreateDocument persiste la cabecera del acta. Referencia duplicada → ErrDuplicate.
func (r *StockInRepo) CreateDocument(doc *entity.StockInDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_in_documents (id, supplier_id, receiver_id, reference, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.SupplierID, doc.ReceiverID, doc.Reference, doc.Status,
		nullIfEmpty(doc.Notes), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock-in document: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID. Devuelve (nil, nil) si no existe.
func (r *StockInRepo) GetByID(id string) (*entity.StockInDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_in_documents WHERE id = $1`, stockInColumns)
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la cabecera bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *StockInRepo) GetForUpdate(id string) (*entity.StockInDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_in_documents WHERE id = $1 FOR UPDATE`, stockInColumns)
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// CreateLine persiste una línea del acta.
func (r *StockInRepo) CreateLine(line *entity.StockInLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_in_lines (id, document_id, item_id, quantity, unit_cost, expires_at, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.DocumentID, line.ItemID, line.Quantity, line.UnitCost,
		line.ExpiresAt, nullIfEmpty(line.Location),
	)
	if err != nil {
		return fmt.Errorf("insert stock-in line: %w", err)
	}
	return nil
}

// ListLines lista las líneas de un acta en orden de inserción.
func (r *StockInRepo) ListLines(documentID string) ([]*entity.StockInLine, error) {
	query := `
		SELECT id, document_id, item_id, quantity, unit_cost, expires_at, location
		FROM stock_in_lines WHERE document_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list stock-in lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockInLine
	for rows.Next() {
		var l entity.StockInLine
		var location *string
		if err := rows.Scan(&l.ID, &l.DocumentID, &l.ItemID, &l.Quantity,
			&l.UnitCost, &l.ExpiresAt, &location); err != nil {
			return nil, fmt.Errorf("scan stock-in line: %w", err)
		}
		if location != nil {
			l.Location = *location
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la cabecera.
func (r *StockInRepo) UpdateStatus(id, status string) error {
	query := `UPDATE stock_in_documents SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("update stock-in status: %w", err)
	}
	return nil
}

// List lista actas, opcionalmente filtradas por estado, más recientes primero.
func (r *StockInRepo) List(status string, limit, offset int) ([]*entity.StockInDocument, error) {
	query := fmt.Sprintf(`SELECT %s FROM stock_in_documents`, stockInColumns)
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock-in documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockInDocument
	for rows.Next() {
		doc, err := scanStockInDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock-in document: %w", err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func (r *StockInRepo) scanOne(row pgx.Row) (*entity.StockInDocument, error) {
	doc, err := scanStockInDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock-in document: %w", err)
	}
	return doc, nil
}

func scanStockInDocument(row pgx.Row) (*entity.StockInDocument, error) {
	var d entity.StockInDocument
	var notes *string
	err := row.Scan(&d.ID, &d.SupplierID, &d.ReceiverID, &d.Reference,
		&d.Status, &notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		d.Notes = *notes
	}
	return &d, nil
}
