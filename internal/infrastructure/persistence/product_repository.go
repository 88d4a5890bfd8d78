package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/inventory"
	"github.com/retailcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID. Not tenant filtered; callers verify
// ownership on the loaded record.
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// UpdateStock writes the product's stock level
func (r *GormProductRepository) UpdateStock(ctx context.Context, id uuid.UUID, newStock int64) error {
	result := r.db.WithContext(ctx).
		Model(&inventory.Product{}).
		Where("id = ?", id).
		Update("stock", newStock)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.ProductRepository = (*GormProductRepository)(nil)

// GormStockMovementRepository implements StockMovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Create appends one movement record
func (r *GormStockMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ListByProduct returns movements for a product, most recent first
func (r *GormStockMovementRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("occurred_at DESC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
