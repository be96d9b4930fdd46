package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/storefront/internal/domain"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) GetUser(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, err := tokens.Issue("u1")
	require.NoError(t, err)

	userID, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	_, err = NewTokens("other", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokens_Expired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	tokens.now = func() time.Time { return time.Now().Add(-time.Hour) }

	raw, err := tokens.Issue("u1")
	require.NoError(t, err)

	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func newRouter(tokens *Tokens, users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Protect(tokens, users), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "admin": p.IsAdmin})
	})
	r.GET("/admin", Protect(tokens, users), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestProtect(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	users := new(MockUsers)
	users.On("GetUser", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)
	users.On("GetUser", mock.Anything, "ghost").Return(nil, domain.NotFound("User not found"))
	r := newRouter(tokens, users)

	valid, _ := tokens.Issue("u1")
	ghost, _ := tokens.Issue("ghost")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"deleted user", "Bearer " + ghost, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAdminOnly(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	users := new(MockUsers)
	users.On("GetUser", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)
	users.On("GetUser", mock.Anything, "admin").Return(&domain.User{ID: "admin", IsAdmin: true}, nil)
	r := newRouter(tokens, users)

	customer, _ := tokens.Issue("u1")
	admin, _ := tokens.Issue("admin")

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+customer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
