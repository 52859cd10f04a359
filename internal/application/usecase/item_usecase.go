package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemUseCase administra el catálogo de artículos. Nunca escribe Quantity:
// eso es exclusivo del motor de mutaciones; aquí solo se proyecta.
type ItemUseCase struct {
	itemRepo repository.ItemRepository
	cache    ItemProjectionCache // opcional, puede ser nil
}

// NewItemUseCase construye el caso de uso de catálogo.
func NewItemUseCase(itemRepo repository.ItemRepository, cache ItemProjectionCache) *ItemUseCase {
	return &ItemUseCase{itemRepo: itemRepo, cache: cache}
}

// Create registra un artículo con existencia 0. SKU único: duplicado → ErrDuplicate.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*entity.Item, error) {
	if in.SKU == "" || in.Name == "" || in.ReorderLevel < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.itemRepo.GetBySKU(in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	unit := in.Unit
	if unit == "" {
		unit = "unidad"
	}
	now := time.Now()
	item := &entity.Item{
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Quantity:     0,
		ReorderLevel: in.ReorderLevel,
		Unit:         unit,
		Status:       entity.ItemStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Update modifica los campos descriptivos del artículo; la cantidad no se toca.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		item.Name = *in.Name
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.ReorderLevel != nil {
		if *in.ReorderLevel < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.Unit != nil && *in.Unit != "" {
		item.Unit = *in.Unit
	}
	if in.Status != nil {
		if !entity.ValidItemStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()
	if err := uc.itemRepo.Update(item); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, item.ID)
	}
	return item, nil
}

// GetByID obtiene la proyección del artículo, pasando por la caché si existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetItem(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	item, err := uc.itemRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if uc.cache != nil {
		_ = uc.cache.SetItem(ctx, item)
	}
	return item, nil
}

// List devuelve el catálogo paginado, opcionalmente filtrado por estado.
func (uc *ItemUseCase) List(ctx context.Context, status string, page dto.PageRequest) ([]*entity.Item, error) {
	if status != "" && !entity.ValidItemStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()
	return uc.itemRepo.List(status, page.Limit, page.Offset)
}

// ListBelowReorderLevel devuelve los artículos activos en o bajo su umbral de
// reposición (proyección para el tablero de reposición del colegio).
func (uc *ItemUseCase) ListBelowReorderLevel(ctx context.Context, page dto.PageRequest) ([]*entity.Item, error) {
	page.DefaultPage()
	return uc.itemRepo.ListBelowReorderLevel(page.Limit, page.Offset)
}
