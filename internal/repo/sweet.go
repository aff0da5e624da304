package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sweetlab/sweet_shop/internal/models"
	"github.com/sweetlab/sweet_shop/internal/transport"
)

func (r *GormRepo) CreateSweet(ctx context.Context, s *models.Sweet) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *GormRepo) SweetByID(ctx context.Context, id uuid.UUID) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sweet).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (r *GormRepo) Sweets(ctx context.Context) ([]models.Sweet, error) {
	// non-nil even when empty, the API promises a JSON array
	sweets := []models.Sweet{}
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) SearchSweets(ctx context.Context, f transport.SweetFilter) ([]models.Sweet, error) {
	q := r.DB.WithContext(ctx).Model(&models.Sweet{})

	if f.Name != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	sweets := []models.Sweet{}
	if err := q.Order("created_at DESC").Find(&sweets).Error; err != nil {
		return nil, err
	}
	return sweets, nil
}

func (r *GormRepo) PatchSweet(ctx context.Context, id uuid.UUID, req transport.UpdateSweetRequest) (*models.Sweet, error) {
	var sweet models.Sweet
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&sweet).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		sweet.Name = *req.Name
	}
	if req.Category != nil {
		sweet.Category = *req.Category
	}
	if req.Price != nil {
		sweet.Price = *req.Price
	}
	if req.Quantity != nil {
		sweet.Quantity = *req.Quantity
	}
	if req.Description != nil {
		sweet.Description = *req.Description
	}
	if req.Image != nil {
		sweet.Image = *req.Image
	}

	if err := r.DB.WithContext(ctx).Save(&sweet).Error; err != nil {
		return nil, err
	}

	return &sweet, nil
}

func (r *GormRepo) DeleteSweet(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Sweet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementQuantity performs the stock check and the decrement in a single
// conditional UPDATE, so concurrent purchases cannot drive quantity negative.
func (r *GormRepo) DecrementQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var sweet models.Sweet
		if err := r.DB.WithContext(ctx).Select("id").Where("id = ?", id).First(&sweet).Error; err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

func (r *GormRepo) IncrementQuantity(ctx context.Context, id uuid.UUID, qty int) error {
	res := r.DB.WithContext(ctx).Model(&models.Sweet{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
