package models

import "time"

// Routing keys of the product events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventProductsPurged = "product.purged"
	EventProductBought  = "product.bought"
	EventProductSoldOut = "product.sold_out"
)

// ProductEvent is published after a product changes.
type ProductEvent struct {
	Type       string    `json:"type"`
	ProductID  uint      `json:"productId,omitempty"`
	Name       string    `json:"name,omitempty"`
	Stock      int       `json:"stock"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewProductEvent snapshots a product for an event. p may be nil for
// events that are not about a single product.
func NewProductEvent(eventType string, p *Product) ProductEvent {
	event := ProductEvent{Type: eventType, OccurredAt: time.Now().UTC()}
	if p != nil {
		event.ProductID = p.ID
		event.Name = p.Name
		event.Stock = p.Stock
	}
	return event
}
