package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/service"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// CheckoutHandler exposes order placement and the payment callback.
type CheckoutHandler struct {
	checkout *service.CheckoutService
}

// NewCheckoutHandler constructs handler.
func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// PlaceOrder handles POST /checkout/orders.
func (h *CheckoutHandler) PlaceOrder(c *fiber.Ctx) error {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	order, handoff, err := h.checkout.PlaceOrder(c.Context(), identity.User)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"order": order,
			"payment": fiber.Map{
				"reference":   handoff.Reference,
				"redirectUrl": handoff.RedirectURL,
			},
		},
	})
}

// PaymentCallback handles GET /checkout/payment/callback?reference=...
// called by the opaque payment provider after the customer pays.
func (h *CheckoutHandler) PaymentCallback(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		return fiber.NewError(http.StatusBadRequest, "reference required")
	}

	order, err := h.checkout.VerifyPayment(c.Context(), reference)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"order": order}})
}

// ListOrders handles GET /checkout/orders for the authenticated customer.
func (h *CheckoutHandler) ListOrders(c *fiber.Ctx) error {
	identity, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orders, err := h.checkout.ListOrders(c.Context(), identity.User.ID, c.QueryInt("limit", 20), c.QueryInt("offset", 0))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"orders": orders}})
}
