package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetlab/sweet_shop/internal/events"
	"github.com/sweetlab/sweet_shop/internal/hash"
	"github.com/sweetlab/sweet_shop/internal/logging"
	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/repo"
	"github.com/sweetlab/sweet_shop/internal/tokens"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Tokens   *tokens.Service
	Producer *events.Producer
}

type AuthResult struct {
	Token string
	User  *models.User
}

// NormalizeEmail is the canonical stored form, lookups rely on it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if name == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "status", 500, "reason", "cannot check existing user", "error", err)
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return nil, ErrDuplicateEmail
		}
		l.Error("register_failed", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	token, err := s.Tokens.Issue(user.ID.String(), user.Email, user.Role, 0)
	if err != nil {
		l.Error("register_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	if err := s.Producer.Publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userID": user.ID.String(),
		"email":  user.Email,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("register_success", "userID", user.ID.String())
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same failure as a wrong password, no user enumeration
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID.String(), user.Email, user.Role, 0)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue token", "error", err)
		return nil, err
	}

	if err := s.Producer.Publish(ctx, events.TopicUserEvents, user.ID.String(), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID.String(),
		"email":  user.Email,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	l.Info("login_success", "userID", user.ID.String())
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) UserByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	user, err := s.Repo.UserByID(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}
