package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Cart           *handlers.CartHandler
	Catalog        *handlers.CatalogHandler
	Checkout       *handlers.CheckoutHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every protected group is gated through
// auth.Guard, so the access decision ordering is identical everywhere.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/resend-otp", cfg.Auth.ResendOTP)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)

	// Public catalog reads.
	app.Get("/products", cfg.Catalog.ListProducts)
	app.Get("/products/:id", cfg.Catalog.GetProduct)
	app.Get("/categories", cfg.Catalog.ListCategories)

	// Customer cart and checkout.
	cartGroup := app.Group("/cart", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCustomer))
	cartGroup.Get("/", cfg.Cart.Get)
	cartGroup.Post("/items", cfg.Cart.AddItem)
	cartGroup.Patch("/items/:productId", cfg.Cart.UpdateQuantity)
	cartGroup.Delete("/items/:productId", cfg.Cart.RemoveItem)
	cartGroup.Delete("/", cfg.Cart.Clear)

	checkoutGroup := app.Group("/checkout")
	checkoutGroup.Get("/payment/callback", cfg.Checkout.PaymentCallback)
	orders := checkoutGroup.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleCustomer))
	orders.Post("/", cfg.Checkout.PlaceOrder)
	orders.Get("/", cfg.Checkout.ListOrders)

	// Seller surface.
	sellerGroup := app.Group("/seller", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleSeller))
	sellerGroup.Get("/products", cfg.Catalog.ListSellerProducts)
	sellerGroup.Post("/products", cfg.Catalog.CreateProduct)
	sellerGroup.Put("/products/:id", cfg.Catalog.UpdateProduct)

	// Admin surface, permission-gated per route.
	adminGroup := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	adminGroup.Get("/users", auth.RequirePermission(domain.PermManageUsers), cfg.Admin.ListUsers)
	adminGroup.Put("/users/:id/permissions", auth.RequirePermission(domain.PermManageUsers), cfg.Admin.SetPermissions)
	adminGroup.Get("/orders", auth.RequirePermission(domain.PermManageOrders), cfg.Admin.ListOrders)
	adminGroup.Post("/categories", auth.RequirePermission(domain.PermManageCategories), cfg.Admin.CreateCategory)
}
