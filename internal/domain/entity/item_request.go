package entity

import "time"

// Estados de una solicitud de artículo.
// PENDING es el estado inicial; REJECTED, CONFIRMED y RETURNED son terminales.
const (
	RequestStatusPending   = "PENDING"
	RequestStatusApproved  = "APPROVED"
	RequestStatusRejected  = "REJECTED"
	RequestStatusConfirmed = "CONFIRMED"
	RequestStatusReturned  = "RETURNED"
)

// ItemRequest es una solicitud de artículo iniciada por un empleado.
// La crea el solicitante en PENDING; solo un aprobador la decide
// (PENDING → CONFIRMED/REJECTED) y el flujo de devolución la cierra
// (CONFIRMED/APPROVED → RETURNED).
type ItemRequest struct {
	ID               string
	RequesterID      string
	ItemID           string
	Quantity         int64  // cantidad solicitada, > 0
	QuantityApproved *int64 // nula hasta que se decide
	Status           string
	ApproverID       string
	Reason           string // motivo del solicitante
	DecisionNotes    string // notas del aprobador (ej. motivo de rechazo)
	DecidedAt        *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Decided indica si la solicitud ya salió de PENDING.
func (r *ItemRequest) Decided() bool {
	return r.Status != RequestStatusPending
}

// Returnable indica si la solicitud admite devolución de lo entregado.
func (r *ItemRequest) Returnable() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusConfirmed
}
