package store

import (
	"context"
	"errors"
	"sync"
)

// Tx interface para transações
type Tx interface {
	Commit() error
	Rollback() error
}

// Journal é implementado pelas transações que não têm rollback nativo. Cada
// escrita registra a ação que a desfaz.
type Journal interface {
	Record(undo func(context.Context) error)
}

// CompensatingTx desfaz as escritas registradas, em ordem inversa, quando a
// transação é abortada. Depois do Commit o Rollback não faz nada, o que
// permite o padrão `defer tx.Rollback()`.
type CompensatingTx struct {
	mu      sync.Mutex
	undo    []func(context.Context) error
	done    bool
	release func()
	onError func(error)
}

// NewCompensatingTx cria uma transação de compensação. release é chamada uma
// única vez ao final (Commit ou Rollback); onError recebe as falhas de undo.
func NewCompensatingTx(release func(), onError func(error)) *CompensatingTx {
	return &CompensatingTx{release: release, onError: onError}
}

func (t *CompensatingTx) Record(undo func(context.Context) error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.undo = append(t.undo, undo)
}

func (t *CompensatingTx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return ErrTxDone
	}
	t.finish()
	return nil
}

func (t *CompensatingTx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}

	var errs []error
	for i := len(t.undo) - 1; i >= 0; i-- {
		if err := t.undo[i](context.Background()); err != nil {
			errs = append(errs, err)
		}
	}
	t.finish()

	err := errors.Join(errs...)
	if err != nil && t.onError != nil {
		t.onError(err)
	}
	return err
}

func (t *CompensatingTx) finish() {
	t.done = true
	t.undo = nil
	if t.release != nil {
		t.release()
		t.release = nil
	}
}

// ErrTxDone é retornado por Commit em uma transação já finalizada.
var ErrTxDone = errors.New("transaction already finished")
