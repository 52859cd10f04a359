package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

const requestColumns = `id, requester_id, item_id, quantity, quantity_approved, status, approver_id, reason, decision_notes, decided_at, created_at, updated_at`

// RequestRepo implementación de RequestRepository sobre PostgreSQL (usable con pool o tx).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

// Create persiste una solicitud nueva (PENDING).
func (r *RequestRepo) Create(req *entity.ItemRequest) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	query := `
		INSERT INTO item_requests (id, requester_id, item_id, quantity, quantity_approved, status, approver_id, reason, decision_notes, decided_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.RequesterID, req.ItemID, req.Quantity, req.QuantityApproved,
		req.Status, nullIfEmpty(req.ApproverID), nullIfEmpty(req.Reason),
		nullIfEmpty(req.DecisionNotes), req.DecidedAt, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *RequestRepo) GetByID(id string) (*entity.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item request")
}

// GetForUpdate obtiene la solicitud y bloquea la fila (SELECT FOR UPDATE).
func (r *RequestRepo) GetForUpdate(id string) (*entity.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get item request for update")
}

// Update persiste la decisión o devolución de la solicitud.
func (r *RequestRepo) Update(req *entity.ItemRequest) error {
	query := `
		UPDATE item_requests
		SET quantity_approved = $2, status = $3, approver_id = $4, decision_notes = $5, decided_at = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.QuantityApproved, req.Status, nullIfEmpty(req.ApproverID),
		nullIfEmpty(req.DecisionNotes), req.DecidedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item request: %w", err)
	}
	return nil
}

// List devuelve solicitudes filtradas por estado y/o solicitante, más recientes primero.
func (r *RequestRepo) List(status, requesterID string, limit, offset int) ([]*entity.ItemRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM item_requests WHERE 1=1`
	args := []any{}
	pos := 1
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if requesterID != "" {
		query += fmt.Sprintf(" AND requester_id = $%d", pos)
		args = append(args, requesterID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.ItemRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item request: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

func (r *RequestRepo) scanOne(row pgx.Row, op string) (*entity.ItemRequest, error) {
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*entity.ItemRequest, error) {
	var req entity.ItemRequest
	var approverID, reason, decisionNotes *string
	err := row.Scan(&req.ID, &req.RequesterID, &req.ItemID, &req.Quantity,
		&req.QuantityApproved, &req.Status, &approverID, &reason, &decisionNotes,
		&req.DecidedAt, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if approverID != nil {
		req.ApproverID = *approverID
	}
	if reason != nil {
		req.Reason = *reason
	}
	if decisionNotes != nil {
		req.DecisionNotes = *decisionNotes
	}
	return &req, nil
}
