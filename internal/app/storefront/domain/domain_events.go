package domain

import "time"

// DomainEvent is the base interface for all analytics events emitted by the storefront.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// CartViewedEvent is emitted when the cart drawer or page is opened.
type CartViewedEvent struct {
	CartID        string    `json:"cart_id"`
	TotalQuantity int       `json:"total_quantity"`
	URL           string    `json:"url,omitempty"`
	ViewedAt      time.Time `json:"viewed_at"`
}

func (e *CartViewedEvent) EventType() string {
	return "cart_viewed"
}

func (e *CartViewedEvent) AggregateID() string {
	return e.CartID
}

// ProductAddedToCartEvent is emitted once per merchandise added.
type ProductAddedToCartEvent struct {
	CartID        string    `json:"cart_id"`
	MerchandiseID string    `json:"merchandise_id"`
	Quantity      int       `json:"quantity"`
	AddedAt       time.Time `json:"added_at"`
}

func (e *ProductAddedToCartEvent) EventType() string {
	return "product_added_to_cart"
}

func (e *ProductAddedToCartEvent) AggregateID() string {
	return e.CartID
}

// ProductRemovedFromCartEvent is emitted once per removed line.
type ProductRemovedFromCartEvent struct {
	CartID    string    `json:"cart_id"`
	LineID    string    `json:"line_id"`
	RemovedAt time.Time `json:"removed_at"`
}

func (e *ProductRemovedFromCartEvent) EventType() string {
	return "product_removed_from_cart"
}

func (e *ProductRemovedFromCartEvent) AggregateID() string {
	return e.CartID
}

// CartUpdatedEvent is emitted after any other confirmed cart action.
type CartUpdatedEvent struct {
	CartID        string    `json:"cart_id"`
	Action        string    `json:"action"`
	TotalQuantity int       `json:"total_quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (e *CartUpdatedEvent) EventType() string {
	return "cart_updated"
}

func (e *CartUpdatedEvent) AggregateID() string {
	return e.CartID
}

// EventsForAction derives the analytics events of a confirmed cart action.
func EventsForAction(action CartAction, cart *Cart, now time.Time) []DomainEvent {
	cartID := ""
	if cart != nil {
		cartID = cart.ID
	}

	switch action.Type {
	case ActionLinesAdd:
		events := make([]DomainEvent, 0, len(action.Lines))
		for _, l := range action.Lines {
			qty := l.Quantity
			if qty <= 0 {
				qty = 1
			}
			events = append(events, &ProductAddedToCartEvent{
				CartID:        cartID,
				MerchandiseID: l.MerchandiseID,
				Quantity:      qty,
				AddedAt:       now,
			})
		}
		return events
	case ActionLinesRemove:
		events := make([]DomainEvent, 0, len(action.LineIDs))
		for _, id := range action.LineIDs {
			events = append(events, &ProductRemovedFromCartEvent{CartID: cartID, LineID: id, RemovedAt: now})
		}
		return events
	default:
		return []DomainEvent{&CartUpdatedEvent{
			CartID:        cartID,
			Action:        string(action.Type),
			TotalQuantity: cart.Quantity(),
			UpdatedAt:     now,
		}}
	}
}
