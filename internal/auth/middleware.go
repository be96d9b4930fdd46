package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/httpapi"
)

// Principal é o usuário autenticado da requisição.
type Principal struct {
	UserID  string
	IsAdmin bool
}

const principalKey = "storefront.principal"

// UserLookup resolve o usuário dono do token.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

// Protect exige um bearer token válido de um usuário existente.
func Protect(tokens *Tokens, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			httpapi.Fail(c, domain.Unauthorized("Not authorized, no token"))
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			httpapi.Fail(c, err)
			return
		}

		user, err := users.GetUser(c.Request.Context(), userID)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				httpapi.Fail(c, domain.Unauthorized("Not authorized, user not found"))
				return
			}
			httpapi.Fail(c, err)
			return
		}

		c.Set(principalKey, Principal{UserID: user.ID, IsAdmin: user.IsAdmin})
		c.Next()
	}
}

// AdminOnly deve ser usado depois de Protect.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.IsAdmin {
			httpapi.Fail(c, domain.Forbidden("Not authorized as an admin"))
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// SetPrincipal é usado por testes de handlers que dispensam o token.
func SetPrincipal(c *gin.Context, p Principal) {
	c.Set(principalKey, p)
}

// CurrentPrincipal retorna o principal da requisição ou aborta com 401.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		httpapi.Fail(c, domain.Unauthorized("Not authorized, no token"))
	}
	return p, ok
}
