// Package idempotency garante que uma requisição repetida com a mesma chave
// devolva o resultado da primeira execução em vez de executá-la de novo.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
)

const pending = "__pending__"

// Store guarda o estado de cada chave.
type Store interface {
	// Reserve marca a chave como em andamento; false se ela já existe.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error)
	Complete(ctx context.Context, key, value string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type Guard struct {
	store Store
	ttl   time.Duration
}

func NewGuard(store Store, ttl time.Duration) *Guard {
	return &Guard{store: store, ttl: ttl}
}

// Do executa fn uma única vez por chave. Em uma repetição retorna o
// resultado gravado com replayed=true. Se fn falha ou entra em pânico a
// chave é liberada.
func (g *Guard) Do(ctx context.Context, key string, fn func(context.Context) (string, error)) (string, bool, error) {
	reserved, err := g.store.Reserve(ctx, key, g.ttl)
	if err != nil {
		return "", false, fmt.Errorf("reserving idempotency key: %w", err)
	}

	if !reserved {
		value, ok, err := g.store.Get(ctx, key)
		if err != nil {
			return "", false, fmt.Errorf("reading idempotency key: %w", err)
		}
		if !ok || value == pending {
			return "", false, domain.Conflict("A request with this Idempotency-Key is already in progress")
		}
		return value, true, nil
	}

	// A chave também é liberada se fn entrar em pânico.
	done := false
	defer func() {
		if done {
			return
		}
		if releaseErr := g.store.Release(context.WithoutCancel(ctx), key); releaseErr != nil {
			zap.L().Warn("failed to release idempotency key", zap.String("key", key), zap.Error(releaseErr))
		}
	}()

	result, err := fn(ctx)
	if err != nil {
		return "", false, err
	}
	done = true

	if err := g.store.Complete(context.WithoutCancel(ctx), key, result, g.ttl); err != nil {
		zap.L().Warn("failed to store idempotent result", zap.String("key", key), zap.Error(err))
	}
	return result, false, nil
}
