// Package rediscache implementa el caché de proyecciones de artículos sobre Redis.
// Es opcional: con REDIS_ENABLED=false la API opera solo contra PostgreSQL.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/config"
)

const itemTTL = 5 * time.Minute

// ItemCache guarda la proyección de solo lectura de un artículo bajo la clave
// almacen:item:<id>. Toda mutación confirmada invalida la clave; el siguiente
// GetItem repuebla desde la base de datos.
type ItemCache struct {
	client *redis.Client
}

// NewItemCache conecta con Redis y verifica la conexión con PING.
func NewItemCache(cfg config.RedisConfig) (*ItemCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &ItemCache{client: client}, nil
}

// GetItem devuelve la proyección cacheada o (nil, nil) en miss.
func (c *ItemCache) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	data, err := c.client.Get(ctx, itemKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer item de caché: %w", err)
	}
	var item entity.Item
	if err := json.Unmarshal(data, &item); err != nil {
		// Entrada corrupta: se descarta y se responde como miss.
		c.client.Del(ctx, itemKey(id))
		return nil, nil
	}
	return &item, nil
}

// SetItem guarda la proyección con TTL corto.
func (c *ItemCache) SetItem(ctx context.Context, item *entity.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("serializar item: %w", err)
	}
	if err := c.client.Set(ctx, itemKey(item.ID), data, itemTTL).Err(); err != nil {
		return fmt.Errorf("guardar item en caché: %w", err)
	}
	return nil
}

// Invalidate elimina la proyección de un artículo tras una mutación de stock.
func (c *ItemCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, itemKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidar item en caché: %w", err)
	}
	return nil
}

// Close cierra la conexión con Redis.
func (c *ItemCache) Close() error {
	return c.client.Close()
}

func itemKey(id string) string {
	return "almacen:item:" + id
}
