package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/matheusmosca/storefront/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.NotFound("Order not found"), http.StatusNotFound},
		{domain.Forbidden("nope"), http.StatusForbidden},
		{domain.Unauthorized("who"), http.StatusUnauthorized},
		{domain.ErrEmptyCart, http.StatusBadRequest},
		{domain.InsufficientStock("Lamp"), http.StatusBadRequest},
		{domain.InvalidState("shipped"), http.StatusBadRequest},
		{domain.Validation("bad"), http.StatusBadRequest},
		{domain.Conflict("dup"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", domain.NotFound("x")), http.StatusNotFound},
		{errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/orders", nil)

	Fail(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"internal server error"}`, w.Body.String())
}

func TestFail_UsesDomainMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/orders", nil)

	Fail(c, fmt.Errorf("creating order: %w", domain.InsufficientStock("Lamp")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Insufficient stock for Lamp"}`, w.Body.String())
}

func TestRespond_AddsSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Respond(c, http.StatusCreated, gin.H{"order": gin.H{"id": "o1"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"success":true,"order":{"id":"o1"}}`, w.Body.String())
}
