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

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const poColumns = `id, number, supplier_id, created_by, status, total, notes, expected_at, received_at, created_at, updated_at`

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL
// (usable con pool o tx).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador de órdenes de compra. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la cabecera de la orden. Número duplicado → ErrDuplicate.
func (r *PurchaseOrderRepo) Create(order *entity.PurchaseOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_orders (id, number, supplier_id, created_by, status, total, notes, expected_at, received_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.Number, order.SupplierID, order.CreatedBy, order.Status,
		order.Total, nullIfEmpty(order.Notes), order.ExpectedAt, order.ReceivedAt,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de la orden.
func (r *PurchaseOrderRepo) CreateLine(line *entity.PurchaseOrderLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_order_lines (id, order_id, item_id, quantity_ordered, quantity_received, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		line.ID, line.OrderID, line.ItemID, line.QuantityOrdered, line.QuantityReceived, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert purchase order line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera por ID. Devuelve (nil, nil) si no existe.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = $1`, poColumns)
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate obtiene la cabecera bloqueando la fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción.
func (r *PurchaseOrderRepo) GetForUpdate(id string) (*entity.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders WHERE id = $1 FOR UPDATE`, poColumns)
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// ListLines lista las líneas de una orden en orden de inserción.
func (r *PurchaseOrderRepo) ListLines(orderID string) ([]*entity.PurchaseOrderLine, error) {
	query := `
		SELECT id, order_id, item_id, quantity_ordered, quantity_received, unit_price
		FROM purchase_order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrderLine
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID,
			&l.QuantityOrdered, &l.QuantityReceived, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// UpdateLineReceived fija el acumulado recibido de una línea.
func (r *PurchaseOrderRepo) UpdateLineReceived(lineID string, quantityReceived int64) error {
	query := `UPDATE purchase_order_lines SET quantity_received = $2 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, lineID, quantityReceived)
	if err != nil {
		return fmt.Errorf("update line received: %w", err)
	}
	return nil
}

// UpdateStatus cambia el estado de la cabecera; receivedAt solo se fija al cierre total.
func (r *PurchaseOrderRepo) UpdateStatus(id, status string, receivedAt *time.Time) error {
	query := `UPDATE purchase_orders SET status = $2, received_at = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, id, status, receivedAt, time.Now())
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	return nil
}

// NextNumber devuelve el siguiente consecutivo de la secuencia de órdenes.
func (r *PurchaseOrderRepo) NextNumber() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(), `SELECT nextval('purchase_order_number_seq')`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next purchase order number: %w", err)
	}
	return n, nil
}

// List lista cabeceras, opcionalmente filtradas por estado, más recientes primero.
func (r *PurchaseOrderRepo) List(status string, limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM purchase_orders`, poColumns)
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
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		order, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, order)
	}
	return list, rows.Err()
}

func (r *PurchaseOrderRepo) scanOne(row pgx.Row) (*entity.PurchaseOrder, error) {
	order, err := scanPurchaseOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	return order, nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	var notes *string
	err := row.Scan(&o.ID, &o.Number, &o.SupplierID, &o.CreatedBy, &o.Status,
		&o.Total, &notes, &o.ExpectedAt, &o.ReceivedAt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		o.Notes = *notes
	}
	return &o, nil
}
