package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetlab/sweet_shop/internal/events"
	"github.com/sweetlab/sweet_shop/internal/logging"
	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/repo"
	"github.com/sweetlab/sweet_shop/internal/search"
	"github.com/sweetlab/sweet_shop/internal/transport"
)

const (
	minNameLen        = 2
	maxNameLen        = 100
	maxDescriptionLen = 500
)

type SweetService struct {
	Repo     *repo.GormRepo
	Producer *events.Producer
	Index    *search.Index
}

// Length bounds count characters, not bytes.
func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < minNameLen || n > maxNameLen {
		return fmt.Errorf("%w: name must be between %d and %d characters", ErrValidation, minNameLen, maxNameLen)
	}
	return nil
}

func (s *SweetService) Create(ctx context.Context, req transport.CreateSweetRequest) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "sweet.create")

	req.Name = strings.TrimSpace(req.Name)
	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	req.Category = strings.TrimSpace(req.Category)
	if req.Category == "" {
		req.Category = models.CategoryOther
	}
	if !models.ValidCategory(req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}

	if req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if utf8.RuneCountInString(req.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, maxDescriptionLen)
	}

	sweet := &models.Sweet{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
	}
	if err := s.Repo.CreateSweet(ctx, sweet); err != nil {
		l.Error("sweet_create_failed", "status", 500, "error", err)
		return nil, err
	}

	s.afterMutation(ctx, "sweet_created", sweet)
	return sweet, nil
}

func (s *SweetService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateSweetRequest) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "sweet.update")

	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if err := validateName(trimmed); err != nil {
			return nil, err
		}
		req.Name = &trimmed
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidation, *req.Category)
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if req.Quantity != nil && *req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if req.Description != nil && utf8.RuneCountInString(*req.Description) > maxDescriptionLen {
		return nil, fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, maxDescriptionLen)
	}

	sweet, err := s.Repo.PatchSweet(ctx, id, req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l.Error("sweet_update_failed", "status", 500, "error", err)
		return nil, err
	}

	s.afterMutation(ctx, "sweet_updated", sweet)
	return sweet, nil
}

func (s *SweetService) Delete(ctx context.Context, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "sweet.delete")

	if err := s.Repo.DeleteSweet(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		l.Error("sweet_delete_failed", "status", 500, "error", err)
		return err
	}

	if err := s.Producer.Publish(ctx, events.TopicSweetEvents, id.String(), map[string]any{
		"type":    "sweet_deleted",
		"sweetID": id.String(),
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}
	if err := s.Index.DeleteSweet(ctx, id.String()); err != nil {
		l.Error("index_delete_failed", "error", err)
	}
	return nil
}

func (s *SweetService) Get(ctx context.Context, id uuid.UUID) (*models.Sweet, error) {
	sweet, err := s.Repo.SweetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sweet, nil
}

func (s *SweetService) List(ctx context.Context) ([]models.Sweet, error) {
	return s.Repo.Sweets(ctx)
}

func (s *SweetService) Search(ctx context.Context, f transport.SweetFilter) ([]models.Sweet, error) {
	return s.Repo.SearchSweets(ctx, f)
}

// FuzzySearch uses the Elasticsearch mirror when it is wired, otherwise it
// degrades to a plain substring search against the store.
func (s *SweetService) FuzzySearch(ctx context.Context, query string, size int) ([]models.Sweet, error) {
	sweets, err := s.Index.Search(ctx, query, size)
	if err == nil {
		return sweets, nil
	}
	if !errors.Is(err, search.ErrUnavailable) {
		logging.FromContext(ctx).Error("fuzzy_search_failed", "error", err)
	}
	return s.Repo.SearchSweets(ctx, transport.SweetFilter{Name: query})
}

func (s *SweetService) Purchase(ctx context.Context, id uuid.UUID, qty int) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "sweet.purchase")

	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	if err := s.Repo.DecrementQuantity(ctx, id, qty); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repo.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		default:
			l.Error("purchase_failed", "status", 500, "error", err)
			return nil, err
		}
	}

	sweet, err := s.Repo.SweetByID(ctx, id)
	if err != nil {
		l.Error("purchase_reload_failed", "status", 500, "error", err)
		return nil, err
	}

	s.afterMutation(ctx, "sweet_purchased", sweet)
	return sweet, nil
}

func (s *SweetService) Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Sweet, error) {
	l := logging.FromContext(ctx).With("svc", "sweet.restock")

	if qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	if err := s.Repo.IncrementQuantity(ctx, id, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		l.Error("restock_failed", "status", 500, "error", err)
		return nil, err
	}

	sweet, err := s.Repo.SweetByID(ctx, id)
	if err != nil {
		l.Error("restock_reload_failed", "status", 500, "error", err)
		return nil, err
	}

	s.afterMutation(ctx, "sweet_restocked", sweet)
	return sweet, nil
}

// afterMutation mirrors the sweet into the search index and publishes the
// change event. Both are best-effort, failures only get logged.
func (s *SweetService) afterMutation(ctx context.Context, eventType string, sweet *models.Sweet) {
	l := logging.FromContext(ctx)

	if err := s.Producer.Publish(ctx, events.TopicSweetEvents, sweet.ID.String(), map[string]any{
		"type":     eventType,
		"sweetID":  sweet.ID.String(),
		"name":     sweet.Name,
		"quantity": sweet.Quantity,
	}); err != nil {
		l.Error("event_publish_failed", "error", err)
	}

	if err := s.Index.IndexSweet(ctx, sweet); err != nil {
		l.Error("index_update_failed", "error", err)
	}
}
