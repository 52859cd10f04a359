package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// StockInRepository define el puerto de persistencia para actas de entrada y sus líneas.
type StockInRepository interface {
	CreateDocument(doc *entity.StockInDocument) error
	GetByID(id string) (*entity.StockInDocument, error)
	// GetForUpdate bloquea la cabecera del acta (SELECT FOR UPDATE).
	GetForUpdate(id string) (*entity.StockInDocument, error)
	CreateLine(line *entity.StockInLine) error
	ListLines(documentID string) ([]*entity.StockInLine, error)
	UpdateStatus(id, status string) error
	List(status string, limit, offset int) ([]*entity.StockInDocument, error)
}
