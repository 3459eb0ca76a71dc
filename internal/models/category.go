package models

import "time"

// Category groups products. Products reference it by ID.
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryResponse is the public JSON shape of a Category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transform projects c into its public shape.
func (c *Category) Transform() *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{ID: c.ID, Name: c.Name}
}
