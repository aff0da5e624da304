package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient quantity in stock")
	ErrEmailTaken        = errors.New("email is already registered")
)

type GormRepo struct {
	DB *gorm.DB
}
