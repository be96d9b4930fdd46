// Package httpapi contém o envelope de resposta, o mapeamento de erros de
// domínio para status HTTP e os middlewares comuns do router.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/matheusmosca/storefront/internal/domain"
)

// StatusFor mapeia o tipo do erro de domínio para o status HTTP.
func StatusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindEmptyCart, domain.KindInsufficientStock, domain.KindInvalidState,
		domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond escreve {success: true, ...payload}.
func Respond(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// Fail aborta a requisição com {success: false, error}. Erros fora do
// domínio são logados e expostos apenas como "internal server error".
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	message := err.Error()

	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		message = "internal server error"
	} else if e := domainError(err); e != nil {
		message = e.Message
	}

	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// BadRequest responde 400 para falhas de binding antes de chegar ao caso de uso.
func BadRequest(c *gin.Context, err error) {
	Fail(c, domain.Validation("%s", err.Error()))
}

func domainError(err error) *domain.Error {
	var e *domain.Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
