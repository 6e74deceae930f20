package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CatalogHandler exposes product and category reads plus the seller surface.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListProducts handles GET /products.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	filter := repository.ProductFilter{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if category := c.Query("category"); category != "" {
		filter.CategoryID = &category
	}
	if seller := c.Query("seller"); seller != "" {
		filter.SellerID = &seller
	}

	products, err := h.catalog.ListProducts(c.Context(), filter)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"products": products}})
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.catalog.GetProduct(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"product": product}})
}

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalog.ListCategories(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"categories": categories}})
}

// CreateProduct handles POST /seller/products.
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(http.StatusBadRequest, "name and positive price required")
	}

	product := &domain.Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := h.catalog.CreateProduct(c.Context(), identity.User, product); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"product": product}})
}

// UpdateProduct handles PUT /seller/products/:id.
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product := &domain.Product{
		ID:          c.Params("id"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Stock:       req.Stock,
		Active:      req.Active == nil || *req.Active,
	}
	if err := h.catalog.UpdateProduct(c.Context(), identity.User, product); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"product": product}})
}

// ListSellerProducts handles GET /seller/products.
func (h *CatalogHandler) ListSellerProducts(c *fiber.Ctx) error {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	products, err := h.catalog.ListSellerProducts(c.Context(), identity.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"products": products}})
}
