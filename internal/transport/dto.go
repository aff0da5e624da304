package transport

import (
	"github.com/sweetlab/sweet_shop/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	IsAdmin bool   `json:"isAdmin"`
}

func UserPayloadFrom(u *models.User) UserPayload {
	return UserPayload{
		ID:      u.ID.String(),
		Name:    u.Name,
		Email:   u.Email,
		Role:    u.Role,
		IsAdmin: u.IsAdmin,
	}
}

type CreateSweetRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// UpdateSweetRequest applies only the fields that were present in the body.
type UpdateSweetRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Quantity    *int     `json:"quantity"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
}

// Quantity pointers distinguish "absent" from an explicit zero: purchase
// defaults to 1, restock treats a missing quantity as invalid.
type PurchaseRequest struct {
	Quantity *int `json:"quantity"`
}

type RestockRequest struct {
	Quantity *int `json:"quantity"`
}

// SweetFilter drops zero-valued filters from the query instead of erroring.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}
