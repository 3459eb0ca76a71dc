package app

import (
	"context"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/rs/zerolog/log"
)

type seedProduct struct {
	name     string
	category string
	price    int64
	quantity int
	chipset  string
}

var seedCategories = []string{"Phone", "Laptop", "Tablet"}

var seedProducts = []seedProduct{
	{"Pixel 8", "Phone", 699, 25, "Tensor G3"},
	{"iPhone 15", "Phone", 799, 40, "A16 Bionic"},
	{"ThinkPad X1 Carbon", "Laptop", 1899, 10, "Core Ultra 7"},
	{"MacBook Air 13", "Laptop", 1099, 15, "M3"},
	{"iPad Air", "Tablet", 599, 30, "M2"},
}

// Seed fills empty stores with a small sample catalog for local runs.
func Seed(ctx context.Context, categories repositories.CategoryRepository, products repositories.ProductRepository) error {
	existing, err := categories.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing categories: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	byName := make(map[string]*models.Category, len(seedCategories))
	for _, name := range seedCategories {
		c := &models.Category{Name: name}
		if err := categories.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
		byName[name] = c
	}

	for _, sp := range seedProducts {
		category := byName[sp.category]
		quantity, chipset := sp.quantity, sp.chipset
		p := &models.Product{
			Name:              sp.name,
			CategoryID:        category.ID,
			Category:          category,
			Price:             sp.price,
			RemainingQuantity: &quantity,
			Chipset:           &chipset,
		}
		if err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to seed product %s: %w", sp.name, err)
		}
		log.Debug().Str("product_id", p.ID).Str("name", p.Name).Msg("seeded product")
	}

	log.Info().Int("categories", len(seedCategories)).Int("products", len(seedProducts)).Msg("seeded sample catalog")
	return nil
}
