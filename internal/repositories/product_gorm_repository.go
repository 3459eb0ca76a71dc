package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog/internal/errs"
	"catalog/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Find retrieves a page of products with their categories preloaded.
func (r *GORMProductRepository) Find(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")
	if filter.Category != "" {
		pattern := "%" + escapeLike(strings.ToLower(filter.Category)) + "%"
		q = q.Joins("JOIN categories ON categories.id = products.category_id").
			Where(`LOWER(categories.name) LIKE ? ESCAPE '\'`, pattern)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Skip > 0 {
		q = q.Offset(filter.Skip)
	}

	products := []models.Product{}
	if err := q.Order("products.created_at, products.id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products: %w", gormError(err))
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s not found: %w", id, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, gormError(err))
	}
	return &product, nil
}

// Create creates a new product in the database. The category must
// already exist; it is never written through the association.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", gormError(err))
	}
	return nil
}

// Update replaces every mutable column of an existing product.
// Nil optional fields are written as NULL.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", product.ID).Updates(map[string]any{
		"name":               product.Name,
		"category_id":        product.CategoryID,
		"remaining_quantity": product.RemainingQuantity,
		"price":              product.Price,
		"chipset":            product.Chipset,
		"screen_size":        product.ScreenSize,
		"memory":             product.Memory,
		"storage":            product.Storage,
		"thumbnail_url":      product.ThumbnailURL,
		"image_url":          product.ImageURL,
		"updated_at":         product.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", gormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for update: %w", product.ID, errs.ErrNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", gormError(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %s not found for deletion: %w", id, errs.ErrNotFound)
	}
	return nil
}
