package domain

import (
	"errors"
	"fmt"
)

// Kind classifica uma falha de domínio; a camada HTTP escolhe o status pelo
// tipo, nunca pela mensagem.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindEmptyCart         Kind = "empty_cart"
	KindInsufficientStock Kind = "insufficient_stock"
	KindForbidden         Kind = "forbidden"
	KindInvalidState      Kind = "invalid_state"
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindUnauthorized      Kind = "unauthorized"
)

// Error é o erro retornado pelos serviços.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is compara apenas o tipo, então errors.Is(err, ErrNotFound) vale para
// qualquer mensagem de não encontrado.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinelas por tipo, para uso com errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrEmptyCart         = &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock, Message: "Insufficient stock"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrInvalidState      = &Error{Kind: KindInvalidState, Message: "invalid state"}
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict          = &Error{Kind: KindConflict, Message: "conflict"}
	ErrUnauthorized      = &Error{Kind: KindUnauthorized, Message: "unauthorized"}
)

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newError(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(KindForbidden, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newError(KindInvalidState, format, args...)
}

func Validation(format string, args ...any) error {
	return newError(KindValidation, format, args...)
}

func Conflict(format string, args ...any) error {
	return newError(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) error {
	return newError(KindUnauthorized, format, args...)
}

// InsufficientStock cita o produto sem estoque suficiente.
func InsufficientStock(productName string) error {
	return newError(KindInsufficientStock, "Insufficient stock for %s", productName)
}

// KindOf retorna o tipo do primeiro *Error na cadeia de err, ou "" quando
// err não é um erro de domínio.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
