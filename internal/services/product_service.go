package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog/internal/cache"
	"catalog/internal/errs"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog/log"
)

var (
	// ErrProductNotFound is returned when the addressed product does not exist.
	ErrProductNotFound = fmt.Errorf("product %w", errs.ErrNotFound)

	// ErrCategoryNotFound is returned when a write references a missing category.
	ErrCategoryNotFound = fmt.Errorf("category %w", errs.ErrNotFound)
)

// EventPublisher delivers product lifecycle events.
type EventPublisher interface {
	PublishProductEvent(event models.ProductEvent) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	cache      cache.ProductCache
	events     EventPublisher
}

// NewProductService creates a new ProductService. A nil cache disables
// caching and a nil publisher disables events.
func NewProductService(
	repo repositories.ProductRepository,
	categories repositories.CategoryRepository,
	productCache cache.ProductCache,
	events EventPublisher,
) *ProductService {
	if productCache == nil {
		productCache = cache.Nop{}
	}
	return &ProductService{
		repo:       repo,
		categories: categories,
		cache:      productCache,
		events:     events,
	}
}

// ListProducts returns one page of products matching filter.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	return s.repo.Find(ctx, filter)
}

// GetProduct returns a product by ID, served from the cache when possible.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if p, ok, err := s.cache.Get(ctx, id); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("product_id", id).Msg("product cache read failed")
	} else if ok {
		return p, nil
	}

	p, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, p); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("product_id", id).Msg("product cache write failed")
	}
	return p, nil
}

// CreateProduct resolves the input's category and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, in *models.ProductInput) (*models.Product, error) {
	category, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{}
	in.ApplyTo(product, category)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventProductCreated, product)
	return product, nil
}

// UpdateProduct replaces every mutable field of product id with the
// input and returns the stored result.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *models.ProductInput) (*models.Product, error) {
	category, err := s.resolveCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	product, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(product, category)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, wrapProductErr(err)
	}
	s.evict(ctx, id)

	updated, err := s.getProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.EventProductUpdated, updated)
	return updated, nil
}

// DeleteProduct removes product id.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.getProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapProductErr(err)
	}
	s.evict(ctx, id)
	s.publish(ctx, models.EventProductDeleted, product)
	return nil
}

func (s *ProductService) getProduct(ctx context.Context, id string) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapProductErr(err)
	}
	return p, nil
}

func (s *ProductService) resolveCategory(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrCategoryNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func wrapProductErr(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	return err
}

func (s *ProductService) evict(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, id); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("product_id", id).Msg("product cache eviction failed")
	}
}

// publish is best effort: the write has already succeeded.
func (s *ProductService) publish(ctx context.Context, eventType string, p *models.Product) {
	if s.events == nil {
		return
	}
	event := models.ProductEvent{
		Type:       eventType,
		ProductID:  p.ID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Price:      p.Price,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.PublishProductEvent(event); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("type", eventType).Str("product_id", p.ID).Msg("failed to publish product event")
	}
}
