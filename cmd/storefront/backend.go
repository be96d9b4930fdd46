package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/config"
	"github.com/matheusmosca/storefront/internal/idempotency"
	"github.com/matheusmosca/storefront/internal/services/cart"
	"github.com/matheusmosca/storefront/internal/services/catalog"
	"github.com/matheusmosca/storefront/internal/services/orders"
	"github.com/matheusmosca/storefront/internal/services/users"
	"github.com/matheusmosca/storefront/internal/store/memory"
	"github.com/matheusmosca/storefront/internal/store/mongodb"
	"github.com/matheusmosca/storefront/internal/store/postgres"
)

// backend é o conjunto de repositórios que um driver de store precisa
// implementar.
type backend interface {
	orders.OrderRepository
	catalog.ProductRepository
	cart.CartRepository
	users.UserRepository
	Close() error
}

var (
	_ backend = (*memory.Store)(nil)
	_ backend = (*postgres.Store)(nil)
	_ backend = (*mongodb.Store)(nil)

	_ idempotency.Store = (*idempotency.MemoryStore)(nil)
	_ idempotency.Store = (*idempotency.RedisStore)(nil)

	_ users.OrderReader = (*orders.OrderUseCase)(nil)
)

// openBackend conecta ao driver configurado e prepara o schema.
func openBackend(ctx context.Context, cfg config.StoreConfig) (backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		s := postgres.New(pool)
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case config.DriverMongo:
		client, err := mongodb.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		s := mongodb.New(client, cfg.Mongo)
		if err := s.EnsureIndexes(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil

	case config.DriverMemory:
		zap.L().Warn("⚠️ using in-memory store, data is lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// openIdempotency usa Redis quando REDIS_URL está definida.
func openIdempotency(cfg config.RedisConfig) (idempotency.Store, func() error, error) {
	if cfg.URL == "" {
		return idempotency.NewMemoryStore(), func() error { return nil }, nil
	}
	s, err := idempotency.NewRedisStore(cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	zap.L().Info("✅ Connected to redis for idempotency keys")
	return s, s.Close, nil
}
