package users

import (
	"time"

	"github.com/matheusmosca/storefront/internal/domain"
)

const (
	defaultPageSize = 20
	recentOrders    = 5
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ProfileRequest atualiza o próprio perfil; campos vazios são ignorados.
type ProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest é a edição administrativa de uma conta.
type UpdateUserRequest struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	ShippingAddress *domain.Address `json:"shippingAddress"`
	IsAdmin         *bool           `json:"isAdmin"`
}

type PasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// AuthResult é devolvido por registro, login e atualização de perfil.
type AuthResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

type UserPage struct {
	Users      []domain.User `json:"users"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	Total      int64         `json:"total"`
}

type AccountInfo struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Joined time.Time `json:"joined"`
}

type SpendingStats struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalSpent    float64 `json:"totalSpent"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type UserStats struct {
	User              AccountInfo          `json:"user"`
	Stats             SpendingStats        `json:"stats"`
	RecentOrders      []domain.Order       `json:"recentOrders"`
	OrderStatusCounts []domain.StatusCount `json:"orderStatusCounts"`
}

type DashboardSummary struct {
	TotalOrders   int64   `json:"totalOrders"`
	PendingOrders int64   `json:"pendingOrders"`
	TotalSpent    float64 `json:"totalSpent"`
}

type Dashboard struct {
	User         *domain.User     `json:"user"`
	Summary      DashboardSummary `json:"summary"`
	RecentOrders []domain.Order   `json:"recentOrders"`
}
