package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// RequestRepository define el puerto de persistencia para ItemRequest.
type RequestRepository interface {
	Create(req *entity.ItemRequest) error
	GetByID(id string) (*entity.ItemRequest, error)
	// GetForUpdate bloquea la fila de la solicitud (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.ItemRequest, error)
	Update(req *entity.ItemRequest) error
	List(status, requesterID string, limit, offset int) ([]*entity.ItemRequest, error)
}
