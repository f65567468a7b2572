package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/config"
)

const keyPrefix = "credit_score:"

var _ lending.ScoreCache = (*RedisScoreCache)(nil)

// RedisScoreCache puntajes en Redis (JSON con TTL). Todas las llamadas pasan por un
// circuit breaker: con Redis caído se responde error inmediato y el llamador recalcula.
type RedisScoreCache struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

// NewRedisClient crea el cliente a partir de la configuración.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// NewRedisScoreCache construye el caché sobre client.
func NewRedisScoreCache(client *redis.Client, ttl time.Duration) *RedisScoreCache {
	return &RedisScoreCache{client: client, breaker: NewCircuitBreaker("redis-score-cache"), ttl: ttl}
}

// NewCircuitBreaker abre tras 5 solicitudes con al menos 60% de fallos; pasa a
// semiabierto a los 10s y deja probar 3 solicitudes.
func NewCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

// State estado del breaker (para /health).
func (c *RedisScoreCache) State() gobreaker.State { return c.breaker.State() }

// Ping verifica la conexión con Redis.
func (c *RedisScoreCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisScoreCache) Get(ctx context.Context, customerID string) (*entity.CreditScore, error) {
	raw, err := c.breaker.Execute(func() (interface{}, error) {
		b, err := c.client.Get(ctx, keyPrefix+customerID).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", customerID, err)
	}
	b, _ := raw.([]byte)
	if b == nil {
		return nil, nil
	}
	var s entity.CreditScore
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode credit score %s: %w", customerID, err)
	}
	return &s, nil
}

func (c *RedisScoreCache) Set(ctx context.Context, score *entity.CreditScore) error {
	b, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encode credit score: %w", err)
	}
	_, err = c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, keyPrefix+score.CustomerID, b, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set %s: %w", score.CustomerID, err)
	}
	return nil
}

func (c *RedisScoreCache) Invalidate(ctx context.Context, customerID string) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, keyPrefix+customerID).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del %s: %w", customerID, err)
	}
	return nil
}

// Close cierra el cliente.
func (c *RedisScoreCache) Close() error { return c.client.Close() }
