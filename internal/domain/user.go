package domain

import (
	"strings"
	"time"
)

// User representa uma conta. PasswordHash nunca é serializado.
type User struct {
	ID              string    `json:"id" bson:"_id"`
	Name            string    `json:"name" bson:"name"`
	Email           string    `json:"email" bson:"email"`
	PasswordHash    string    `json:"-" bson:"password"`
	IsAdmin         bool      `json:"isAdmin" bson:"isAdmin"`
	Phone           string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ShippingAddress *Address  `json:"shippingAddress,omitempty" bson:"shippingAddress,omitempty"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updatedAt"`
}

// NormalizeEmail remove espaços e passa o e-mail para minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	if u.ShippingAddress != nil {
		addr := *u.ShippingAddress
		cp.ShippingAddress = &addr
	}
	return &cp
}
