// Package mongodb implementa o store sobre MongoDB. Com transações habilitadas
// (replica set) usa sessões multi-documento; caso contrário registra ações
// de compensação para cada escrita.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

type Config struct {
	URI          string `yaml:"uri"`
	Database     string `yaml:"database"`
	Transactions bool   `yaml:"transactions"`
}

type Store struct {
	client       *mongo.Client
	products     *mongo.Collection
	carts        *mongo.Collection
	orders       *mongo.Collection
	users        *mongo.Collection
	transactions bool
}

// Connect abre o cliente e espera o servidor responder.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	for i := 0; i < 30; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err = client.Ping(pingCtx, nil)
		cancel()
		if err == nil {
			zap.L().Info("connected to mongo", zap.String("database", cfg.Database))
			return client, nil
		}
		zap.L().Info("waiting for mongo", zap.Int("attempt", i+1), zap.Error(err))
		select {
		case <-ctx.Done():
			_ = client.Disconnect(context.Background())
			return nil, ctx.Err()
		case <-time.After(1 * time.Second):
		}
	}

	_ = client.Disconnect(context.Background())
	return nil, fmt.Errorf("failed to connect to mongo after 30 attempts")
}

// New cria o store sobre o banco indicado
func New(client *mongo.Client, cfg Config) *Store {
	db := client.Database(cfg.Database)
	return &Store{
		client:       client,
		products:     db.Collection("products"),
		carts:        db.Collection("carts"),
		orders:       db.Collection("orders"),
		users:        db.Collection("users"),
		transactions: cfg.Transactions,
	}
}

// EnsureIndexes cria os índices usados pelas consultas e pelas regras de
// unicidade.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		model mongo.IndexModel
	}{
		{s.users, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.carts, mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}}},
		{s.orders, mongo.IndexModel{Keys: bson.D{{Key: "orderStatus", Value: 1}}}},
		{s.products, mongo.IndexModel{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "createdAt", Value: -1}}}},
	}
	for _, idx := range indexes {
		if _, err := idx.coll.Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", idx.coll.Name(), err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// MongoTx é uma transação multi-documento atrelada a uma sessão.
type MongoTx struct {
	session mongo.Session
	done    bool
}

func (t *MongoTx) Commit() error {
	if t.done {
		return store.ErrTxDone
	}
	t.done = true
	defer t.session.EndSession(context.Background())
	return t.session.CommitTransaction(context.Background())
}

func (t *MongoTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	defer t.session.EndSession(context.Background())
	return t.session.AbortTransaction(context.Background())
}

// BeginTx inicia uma transação de sessão ou de compensação, conforme a
// configuração.
func (s *Store) BeginTx(ctx context.Context) (store.Tx, error) {
	if !s.transactions {
		return store.NewCompensatingTx(nil, func(err error) {
			zap.L().Error("mongo compensation failed", zap.Error(err))
		}), nil
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	return &MongoTx{session: session}, nil
}

// within devolve o contexto de operação para tx e, quando a transação é de
// compensação, o journal onde registrar os undos. O journal só cobre as
// escritas feitas com tx; um undo restaura a versão anterior do documento e
// descarta escritas concorrentes feitas sem tx no mesmo documento.
func within(ctx context.Context, tx store.Tx) (context.Context, store.Journal, error) {
	switch t := tx.(type) {
	case nil:
		return ctx, nil, nil
	case *MongoTx:
		return mongo.NewSessionContext(ctx, t.session), nil, nil
	case *store.CompensatingTx:
		return ctx, t, nil
	default:
		return nil, nil, fmt.Errorf("mongo store: unsupported transaction %T", tx)
	}
}

func translate(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.NotFound("%s not found", entity)
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.Conflict("%s already exists", entity)
	}
	return err
}

func findOptions(p store.Page) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
}
