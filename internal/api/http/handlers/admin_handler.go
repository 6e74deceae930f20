package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// AdminHandler exposes the permission-gated admin surface.
type AdminHandler struct {
	users    repository.UserRepository
	checkout *service.CheckoutService
	catalog  *service.CatalogService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(users repository.UserRepository, checkout *service.CheckoutService, catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{users: users, checkout: checkout, catalog: catalog}
}

// ListUsers handles GET /admin/users. Requires manage_users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	users, err := h.users.List(c.Context(), limit, c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}

	views := make([]fiber.Map, 0, len(users))
	for i := range users {
		views = append(views, userView(&users[i]))
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"users": views}})
}

// SetPermissions handles PUT /admin/users/:id/permissions. Requires
// manage_users; the target must itself be an admin.
func (h *AdminHandler) SetPermissions(c *fiber.Ctx) error {
	var req dto.SetPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	perms := make([]domain.AdminPermission, 0, len(req.Permissions))
	for _, p := range req.Permissions {
		perms = append(perms, domain.AdminPermission(p))
	}

	if err := h.users.SetPermissions(c.Context(), c.Params("id"), perms); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "permissions updated"}})
}

// ListOrders handles GET /admin/orders. Requires manage_orders.
func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.checkout.ListAllOrders(c.Context(), c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"orders": orders}})
}

// CreateCategory handles POST /admin/categories. Requires manage_categories.
func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	category := &domain.Category{Name: req.Name, Slug: req.Slug}
	if err := h.catalog.CreateCategory(c.Context(), category); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"category": category}})
}
