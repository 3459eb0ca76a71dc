package models

import "time"

// Product lifecycle event types, also used as AMQP routing keys.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is published after a product write succeeds.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  string    `json:"productId"`
	CategoryID string    `json:"categoryId,omitempty"`
	Name       string    `json:"name,omitempty"`
	Price      int64     `json:"price,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
