package events

import (
	"time"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventUserVerified    EventType = "user_verified"
	EventOrderPlaced     EventType = "order_placed"
	EventPaymentVerified EventType = "payment_verified"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	OrderID   string  `json:"order_id"`
	Reference string  `json:"reference"`
	Total     float64 `json:"total"`
	LineCount int     `json:"line_count"`
}

// PaymentVerifiedPayload payload.
type PaymentVerifiedPayload struct {
	OrderID   string `json:"order_id"`
	Reference string `json:"reference"`
}
