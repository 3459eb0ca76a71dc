package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductTransform(t *testing.T) {
	qty := 3
	p := &models.Product{
		ID:                "64b7f0c2a1b2c3d4e5f60718",
		Name:              "Pixel 8",
		CategoryID:        "64b7f0c2a1b2c3d4e5f60719",
		Category:          &models.Category{ID: "64b7f0c2a1b2c3d4e5f60719", Name: "Phone", CreatedAt: time.Now()},
		RemainingQuantity: &qty,
		Price:             699,
		CreatedAt:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:         time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(p.Transform())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]any{
		"id":                "64b7f0c2a1b2c3d4e5f60718",
		"name":              "Pixel 8",
		"category":          map[string]any{"id": "64b7f0c2a1b2c3d4e5f60719", "name": "Phone"},
		"remainingQuantity": 3.0,
		"price":             699.0,
		"createdAt":         "2024-05-01T00:00:00Z",
		"updatedAt":         "2024-05-02T00:00:00Z",
	}, got)
}

func TestCategoryTransform_Nil(t *testing.T) {
	var c *models.Category
	assert.Nil(t, c.Transform())

	p := &models.Product{ID: "x"}
	assert.Nil(t, p.Transform().Category)
}

func TestProductInputApplyTo(t *testing.T) {
	chipset := "A16"
	p := &models.Product{ID: "keep", Name: "Old", Chipset: &chipset, Price: 1}
	category := &models.Category{ID: "c1", Name: "Phone"}

	in := &models.ProductInput{Name: "New", CategoryID: "c1", Price: 2}
	in.ApplyTo(p, category)

	assert.Equal(t, "keep", p.ID)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "c1", p.CategoryID)
	assert.Same(t, category, p.Category)
	assert.Equal(t, int64(2), p.Price)
	assert.Nil(t, p.Chipset)
}
