package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/cart"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CartHandler exposes the cart operations for the authenticated customer.
// Each request opens the caller's cart slot, mutates, and responds with the
// cart plus its derived aggregates.
type CartHandler struct {
	storage cart.Storage
}

// NewCartHandler constructs handler.
func NewCartHandler(storage cart.Storage) *CartHandler {
	return &CartHandler{storage: storage}
}

// Get handles GET /cart.
func (h *CartHandler) Get(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return err
	}
	return c.JSON(cartView(store))
}

// AddItem handles POST /cart/items. A missing or non-positive quantity is
// coerced to 1; nothing about the payload is rejected beyond the product id.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var req dto.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ProductID == "" {
		return fiber.NewError(http.StatusBadRequest, "productId required")
	}

	store, err := h.open(c)
	if err != nil {
		return err
	}

	item := cart.LineItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Image:     req.Image,
		UnitPrice: req.UnitPrice,
	}
	if err := store.AddItem(c.Context(), item, req.Quantity); err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(cartView(store))
}

// UpdateQuantity handles PATCH /cart/items/:productId. Quantities below 1
// leave the line unchanged; removal is its own endpoint.
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	var req dto.UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	store, err := h.open(c)
	if err != nil {
		return err
	}
	if err := store.UpdateQuantity(c.Context(), c.Params("productId"), req.Quantity); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(cartView(store))
}

// RemoveItem handles DELETE /cart/items/:productId.
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return err
	}
	if err := store.RemoveItem(c.Context(), c.Params("productId")); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(cartView(store))
}

// Clear handles DELETE /cart.
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return err
	}
	if err := store.Clear(c.Context()); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(cartView(store))
}

func (h *CartHandler) open(c *fiber.Ctx) (*cart.Store, error) {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	store, err := cart.Open(c.Context(), h.storage, identity.User.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return store, nil
}

func cartView(store *cart.Store) fiber.Map {
	items := store.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	return fiber.Map{
		"data": dto.CartResponse{
			Items:     items,
			Total:     store.Total(),
			ItemCount: store.ItemCount(),
		},
	}
}
