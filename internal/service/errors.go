package service

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicateEmail     = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
	ErrInsufficientStock  = errors.New("insufficient quantity in stock")
)
