package dto

import "github.com/spec-kit/marketplace-service/internal/cart"

// AddItemRequest payload to add a product to the cart.
type AddItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

// UpdateQuantityRequest payload to set a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the cart with its derived aggregates.
type CartResponse struct {
	Items     []cart.LineItem `json:"items"`
	Total     float64         `json:"total"`
	ItemCount int             `json:"itemCount"`
}
