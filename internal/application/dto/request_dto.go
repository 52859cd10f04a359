package dto

import "time"

// CreateRequestRequest body para POST /api/requests.
type CreateRequestRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// ApproveRequestRequest body para POST /api/requests/:id/approve.
// QuantityApproved nulo aprueba la cantidad solicitada completa.
type ApproveRequestRequest struct {
	QuantityApproved *int64 `json:"quantity_approved,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

// RejectRequestRequest body para POST /api/requests/:id/reject.
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// RequestResponse proyección de una solicitud de artículo.
type RequestResponse struct {
	ID               string     `json:"id"`
	RequesterID      string     `json:"requester_id"`
	ItemID           string     `json:"item_id"`
	Quantity         int64      `json:"quantity"`
	QuantityApproved *int64     `json:"quantity_approved,omitempty"`
	Status           string     `json:"status"`
	ApproverID       string     `json:"approver_id,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	DecisionNotes    string     `json:"decision_notes,omitempty"`
	DecidedAt        *time.Time `json:"decided_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
