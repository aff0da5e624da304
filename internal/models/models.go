package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name         string    `gorm:"not null"              json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"  json:"email"`
	PasswordHash string    `gorm:"not null"              json:"-"`
	Role         string    `gorm:"not null;default:user" json:"role"`
	IsAdmin      bool      `gorm:"default:false"         json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Admin reports whether the user has admin rights. Older rows carry the
// boolean flag instead of the role column, both forms are accepted.
func (u *User) Admin() bool {
	return u.Role == RoleAdmin || u.IsAdmin
}

type Sweet struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;index"       json:"name"`
	Category    string    `gorm:"not null;index"       json:"category"`
	Price       float64   `gorm:"not null;index"       json:"price"`
	Quantity    int       `gorm:"not null;default:0"   json:"quantity"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *Sweet) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *Sweet) InStock() bool {
	return s.Quantity > 0
}

const CategoryOther = "Other"

var Categories = []string{
	"Chocolates",
	"Candies",
	"Cookies",
	"Cakes",
	"Ice Cream",
	"Desserts",
	"Traditional",
	CategoryOther,
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}
