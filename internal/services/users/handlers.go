package users

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/matheusmosca/storefront/internal/auth"
	"github.com/matheusmosca/storefront/internal/httpapi"
)

// UserHandler contém os handlers HTTP de autenticação e contas
type UserHandler struct {
	useCase *UserUseCase
}

// NewUserHandler cria uma nova instância de UserHandler
func NewUserHandler(useCase *UserUseCase) *UserHandler {
	return &UserHandler{useCase: useCase}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	result, err := h.useCase.Register(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusCreated, gin.H{"user": result})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	result, err := h.useCase.Login(c.Request.Context(), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"user": result})
}

func (h *UserHandler) Profile(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	user, err := h.useCase.Profile(c.Request.Context(), principal.UserID)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	result, err := h.useCase.UpdateProfile(c.Request.Context(), principal.UserID, req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"user": result})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	if err := h.useCase.UpdatePassword(c.Request.Context(), principal.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *UserHandler) Stats(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	stats, err := h.useCase.Stats(c.Request.Context(), principal.UserID)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"user":              stats.User,
		"stats":             stats.Stats,
		"recentOrders":      stats.RecentOrders,
		"orderStatusCounts": stats.OrderStatusCounts,
	})
}

func (h *UserHandler) Dashboard(c *gin.Context) {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return
	}

	dashboard, err := h.useCase.Dashboard(c.Request.Context(), principal.UserID)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"user":         dashboard.User,
		"summary":      dashboard.Summary,
		"recentOrders": dashboard.RecentOrders,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context(),
		cast.ToInt(c.Query("page")), cast.ToInt(c.Query("limit")), c.Query("search"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"users":      result.Users,
		"page":       result.Page,
		"totalPages": result.TotalPages,
		"total":      result.Total,
	})
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpapi.BadRequest(c, err)
		return
	}

	user, err := h.useCase.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpapi.Fail(c, err)
		return
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"message": "User deleted successfully"})
}
