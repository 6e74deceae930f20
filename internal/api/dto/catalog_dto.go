package dto

// ProductRequest payload for seller-side product create/update.
type ProductRequest struct {
	CategoryID  *string `json:"categoryId,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Active      *bool   `json:"active,omitempty"`
}

// CategoryRequest payload for the admin category surface.
type CategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// SetPermissionsRequest payload for the admin user-management surface.
type SetPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}
