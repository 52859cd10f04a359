package usecase

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemProjectionCache cachea la proyección de solo lectura de un artículo
// (existencia y estado actuales). Un miss devuelve (nil, nil). Best effort:
// los errores de caché se ignoran y se responde desde la base de datos.
type ItemProjectionCache interface {
	GetItem(ctx context.Context, id string) (*entity.Item, error)
	SetItem(ctx context.Context, item *entity.Item) error
	Invalidate(ctx context.Context, id string) error
}
