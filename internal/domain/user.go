package domain

import "time"

// Role is the coarse-grained account category gating route subtrees.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// AdminPermission is a fine-grained capability granted to admins only.
type AdminPermission string

const (
	PermManageUsers      AdminPermission = "manage_users"
	PermManageProducts   AdminPermission = "manage_products"
	PermManageOrders     AdminPermission = "manage_orders"
	PermManageCategories AdminPermission = "manage_categories"
	PermManageSettings   AdminPermission = "manage_settings"
	PermViewAnalytics    AdminPermission = "view_analytics"
	PermManageFiles      AdminPermission = "manage_files"
)

// User is the domain model for marketplace accounts across all roles.
type User struct {
	ID           string
	Email        string
	FullName     string
	PhoneNumber  string
	PasswordHash string
	Role         Role
	Permissions  []AdminPermission
	Verified     bool

	// Seller-only fields.
	BusinessName    *string
	BusinessAddress *string
	AdminVerified   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the user's role is one of the given roles.
func (u *User) HasRole(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// HasPermission reports whether the user carries the given admin permission.
// Permissions are only meaningful for admins; every other role returns false.
func (u *User) HasPermission(perm AdminPermission) bool {
	if u == nil || u.Role != RoleAdmin {
		return false
	}
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
