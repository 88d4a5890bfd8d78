package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormShopRepository implements ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by its ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Shop, error) {
	var shop identity.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// FindByCode finds a shop by its code
func (r *GormShopRepository) FindByCode(ctx context.Context, code string) (*identity.Shop, error) {
	var shop identity.Shop
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&shop).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shop, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, shop *identity.Shop) error {
	return r.db.WithContext(ctx).Save(shop).Error
}

var _ identity.ShopRepository = (*GormShopRepository)(nil)
