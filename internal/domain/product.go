package domain

import "time"

// Product is a catalog entry owned by a seller.
type Product struct {
	ID          string
	SellerID    string
	CategoryID  *string
	Name        string
	Description string
	Image       string
	Price       float64
	Stock       int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products for browsing and filtering.
type Category struct {
	ID   string
	Name string
	Slug string
}
