// Package cache implementa el caché de puntajes crediticios: en memoria del proceso
// (TTL) o en Redis protegido por un circuit breaker.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTL caché genérico con expiración, seguro para uso concurrente.
type TTL[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
}

// NewTTL crea el caché. Las entradas vencidas se descartan al leerlas y en Sweep.
func NewTTL[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{items: make(map[string]entry[T]), ttl: ttl, now: time.Now}
}

// Get devuelve el valor si existe y no venció.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Set guarda el valor con el TTL configurado.
func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Delete elimina la clave.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len entradas almacenadas, vencidas incluidas.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Sweep elimina las entradas vencidas.
func (c *TTL[T]) Sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, v := range c.items {
		if now.After(v.expiresAt) {
			delete(c.items, k)
		}
	}
}

// RunSweeper barre periódicamente hasta que ctx termine.
func (c *TTL[T]) RunSweeper(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

var _ lending.ScoreCache = (*MemoryScoreCache)(nil)

// MemoryScoreCache caché de puntajes del proceso.
type MemoryScoreCache struct {
	items *TTL[entity.CreditScore]
}

// NewMemoryScoreCache crea el caché con el TTL indicado.
func NewMemoryScoreCache(ttl time.Duration) *MemoryScoreCache {
	return &MemoryScoreCache{items: NewTTL[entity.CreditScore](ttl)}
}

// Store expone el caché subyacente (barrido periódico desde main).
func (c *MemoryScoreCache) Store() *TTL[entity.CreditScore] { return c.items }

func (c *MemoryScoreCache) Get(_ context.Context, customerID string) (*entity.CreditScore, error) {
	s, ok := c.items.Get(customerID)
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *MemoryScoreCache) Set(_ context.Context, score *entity.CreditScore) error {
	c.items.Set(score.CustomerID, *score)
	return nil
}

func (c *MemoryScoreCache) Invalidate(_ context.Context, customerID string) error {
	c.items.Delete(customerID)
	return nil
}
