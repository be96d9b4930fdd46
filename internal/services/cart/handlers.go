package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/domain"
	"github.com/matheusmosca/storefront/internal/httpapi"
)

// CartHandler contém os handlers HTTP do carrinho
type CartHandler struct {
	useCase *CartUseCase
}

// NewCartHandler cria uma nova instância de CartHandler
func NewCartHandler(useCase *CartUseCase) *CartHandler {
	return &CartHandler{useCase: useCase}
}

func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c, http.StatusOK, func(userID string) (*domain.Cart, error) {
		return h.useCase.Get(c.Request.Context(), userID)
	})
}

func (h *CartHandler) Add(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}
	h.respond(c, http.StatusCreated, func(userID string) (*domain.Cart, error) {
		return h.useCase.Add(c.Request.Context(), userID, req.ProductID, req.quantity())
	})
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}
	h.respond(c, http.StatusOK, func(userID string) (*domain.Cart, error) {
		return h.useCase.UpdateItem(c.Request.Context(), userID, c.Param("itemId"), *req.Quantity)
	})
}

func (h *CartHandler) Remove(c *gin.Context) {
	h.respond(c, http.StatusOK, func(userID string) (*domain.Cart, error) {
		return h.useCase.Remove(c.Request.Context(), userID, c.Param("itemId"))
	})
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.respond(c, http.StatusOK, func(userID string) (*domain.Cart, error) {
		return h.useCase.Clear(c.Request.Context(), userID)
	})
}

func (h *CartHandler) respond(c *gin.Context, status int, op func(userID string) (*domain.Cart, error)) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}
	cart, err := op(principal.UserID)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, status, gin.H{"cart": cart})
}
