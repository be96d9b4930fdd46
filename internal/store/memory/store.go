// Package memory é um store em memória usado nos testes e em execuções
// locais. As transações são serializadas e desfeitas por compensação.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/store"
)

type Store struct {
	// txMu serializa os fluxos transacionais (checkout, cancelamento).
	// Escritas fora de transação, como SaveCart, não passam por ele: o undo
	// de um rollback pode sobrescrever uma dessas escritas concorrentes.
	txMu sync.Mutex

	mu       sync.RWMutex
	products map[string]*domain.Product
	carts    map[string]*domain.Cart
	orders   map[string]*domain.Order
	users    map[string]*domain.User
}

// New cria um store vazio
func New() *Store {
	return &Store{
		products: make(map[string]*domain.Product),
		carts:    make(map[string]*domain.Cart),
		orders:   make(map[string]*domain.Order),
		users:    make(map[string]*domain.User),
	}
}

// BeginTx inicia uma nova transação. Ela mantém o lock de fluxo até Commit
// ou Rollback.
func (s *Store) BeginTx(ctx context.Context) (store.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	return store.NewCompensatingTx(s.txMu.Unlock, func(err error) {
		zap.L().Error("memory rollback left writes behind", zap.Error(err))
	}), nil
}

func (s *Store) Close() error {
	return nil
}

func journal(tx store.Tx) (store.Journal, error) {
	j, ok := tx.(*store.CompensatingTx)
	if !ok || j == nil {
		return nil, fmt.Errorf("memory store: unsupported transaction %T", tx)
	}
	return j, nil
}

func paginate[T any](items []T, p store.Page) []T {
	start := p.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// newestFirst ordena por createdAt decrescente, desempatando pelo id.
func newestFirst[T any](items []T, key func(T) (int64, string)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return idi > idj
	})
}
