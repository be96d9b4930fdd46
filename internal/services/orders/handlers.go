package orders

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/httpapi"
)

// IdempotencyHeader identifica submissões repetidas do checkout.
const IdempotencyHeader = "Idempotency-Key"

// ReplayedHeader é enviado quando a resposta é de um checkout anterior.
const ReplayedHeader = "Idempotency-Replayed"

// OrderHandler contém os handlers HTTP de pedidos
type OrderHandler struct {
	useCase *OrderUseCase
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase *OrderUseCase) *OrderHandler {
	return &OrderHandler{useCase: useCase}
}

// CreateOrder é o endpoint de checkout
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	order, replayed, err := h.useCase.CreateOrderIdempotent(
		c.Request.Context(), principal.UserID, c.GetHeader(IdempotencyHeader), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}

	if replayed {
		c.Header(ReplayedHeader, "true")
		httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
		return
	}
	httpapi.Respond(c, http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	order, err := h.useCase.GetOrderByID(c.Request.Context(), c.Param("id"), principal.UserID)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	result, err := h.useCase.GetUserOrders(c.Request.Context(), principal.UserID,
		cast.ToInt(c.Query("page")), cast.ToInt(c.Query("limit")))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, pageBody(result))
}

func (h *OrderHandler) GetAllOrders(c *gin.Context) {
	result, err := h.useCase.GetAllOrders(c.Request.Context(),
		cast.ToInt(c.Query("page")), cast.ToInt(c.Query("limit")), c.Query("status"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, pageBody(result))
}

// UpdateOrderToPaid recebe o resultado opaco do provedor de pagamento.
func (h *OrderHandler) UpdateOrderToPaid(c *gin.Context) {
	var paymentResult map[string]any
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&paymentResult); err != nil {
			httpapi.BadRequest(c, err)
			return
		}
	}

	order, err := h.useCase.UpdateOrderToPaid(c.Request.Context(), c.Param("id"), paymentResult)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdateOrderToDelivered(c *gin.Context) {
	order, err := h.useCase.UpdateOrderToDelivered(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	order, err := h.useCase.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status, req.Notes)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpapi.BadRequest(c, err)
			return
		}
	}

	order, err := h.useCase.CancelOrder(c.Request.Context(), c.Param("id"), principal.UserID, req.Reason)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) GetOrderStats(c *gin.Context) {
	stats, err := h.useCase.GetOrderStats(c.Request.Context())
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"summary":      stats.Summary,
		"monthlyStats": stats.MonthlyStats,
	})
}

func pageBody(p *OrderPage) gin.H {
	return gin.H{
		"orders":     p.Orders,
		"page":       p.Page,
		"totalPages": p.TotalPages,
		"total":      p.Total,
	}
}
