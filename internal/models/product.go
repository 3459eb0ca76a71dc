package models

import "time"

// Product is a catalog entry. Optional attributes are nil when absent.
type Product struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name              string    `json:"name" gorm:"type:varchar(255);not null"`
	CategoryID        string    `json:"categoryId" gorm:"type:varchar(24);not null;index"`
	Category          *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	RemainingQuantity *int      `json:"remainingQuantity,omitempty"`
	Price             int64     `json:"price" gorm:"not null"`
	Chipset           *string   `json:"chipset,omitempty" gorm:"type:varchar(100)"`
	ScreenSize        *float64  `json:"screenSize,omitempty"`
	Memory            *float64  `json:"memory,omitempty"`
	Storage           *float64  `json:"storage,omitempty"`
	ThumbnailURL      *string   `json:"thumbnailUrl,omitempty" gorm:"type:varchar(2048)"`
	ImageURL          *string   `json:"imageUrl,omitempty" gorm:"type:varchar(2048)"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// ProductResponse is the public JSON shape of a Product, with its
// category embedded.
type ProductResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Category          *CategoryResponse `json:"category"`
	RemainingQuantity *int              `json:"remainingQuantity,omitempty"`
	Price             int64             `json:"price"`
	Chipset           *string           `json:"chipset,omitempty"`
	ScreenSize        *float64          `json:"screenSize,omitempty"`
	Memory            *float64          `json:"memory,omitempty"`
	Storage           *float64          `json:"storage,omitempty"`
	ThumbnailURL      *string           `json:"thumbnailUrl,omitempty"`
	ImageURL          *string           `json:"imageUrl,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// Transform projects p into its public shape.
func (p *Product) Transform() ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category.Transform(),
		RemainingQuantity: p.RemainingQuantity,
		Price:             p.Price,
		Chipset:           p.Chipset,
		ScreenSize:        p.ScreenSize,
		Memory:            p.Memory,
		Storage:           p.Storage,
		ThumbnailURL:      p.ThumbnailURL,
		ImageURL:          p.ImageURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	// Category, when non-empty, is matched case-insensitively as a
	// substring of the category name.
	Category string
	Limit    int
	Skip     int
}

// ProductInput holds the validated, writable fields of a Product.
type ProductInput struct {
	Name              string
	CategoryID        string
	RemainingQuantity *int
	Price             int64
	Chipset           *string
	ScreenSize        *float64
	Memory            *float64
	Storage           *float64
	ThumbnailURL      *string
	ImageURL          *string
}

// ApplyTo replaces every mutable field of p with the input's values.
// Optional fields absent from the input are cleared.
func (in *ProductInput) ApplyTo(p *Product, category *Category) {
	p.Name = in.Name
	p.CategoryID = category.ID
	p.Category = category
	p.RemainingQuantity = in.RemainingQuantity
	p.Price = in.Price
	p.Chipset = in.Chipset
	p.ScreenSize = in.ScreenSize
	p.Memory = in.Memory
	p.Storage = in.Storage
	p.ThumbnailURL = in.ThumbnailURL
	p.ImageURL = in.ImageURL
}
