package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/marketplace-service/internal/cart"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

// PaymentHandoff is what the caller needs to continue on the external
// payment provider. The provider itself is opaque to this service.
type PaymentHandoff struct {
	Reference   string
	RedirectURL string
}

// CheckoutService turns a cart into an order and hands off to payment.
type CheckoutService struct {
	orders     repository.OrderRepository
	carts      cart.Storage
	dispatcher events.Dispatcher
	payment    config.PaymentConfig
	logger     *zap.Logger
}

// NewCheckoutService builds the service and subscribes the cart-clearing
// handler: a verified payment empties the payer's cart slot.
func NewCheckoutService(orders repository.OrderRepository, carts cart.Storage, dispatcher events.Dispatcher, payment config.PaymentConfig, logger *zap.Logger) *CheckoutService {
	s := &CheckoutService{
		orders:     orders,
		carts:      carts,
		dispatcher: dispatcher,
		payment:    payment,
		logger:     logger,
	}
	dispatcher.Subscribe(events.EventPaymentVerified, s.clearCartOnPayment)
	return s
}

// PlaceOrder snapshots the user's cart into a pending order. The order lines
// copy name and unit price from the cart so later catalog changes cannot
// alter a placed order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, user *domain.User) (*domain.Order, *PaymentHandoff, error) {
	store, err := cart.Open(ctx, s.carts, user.ID)
	if err != nil {
		return nil, nil, err
	}

	lines := store.Items()
	if len(lines) == 0 {
		return nil, nil, apperrors.NewValidationError("cart is empty", nil)
	}

	order := &domain.Order{
		UserID:    user.ID,
		Reference: uuid.NewString(),
		Status:    domain.OrderStatusPending,
		Total:     cart.Total(lines),
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderPlaced,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload: events.OrderPlacedPayload{
			OrderID:   order.ID,
			Reference: order.Reference,
			Total:     order.Total,
			LineCount: len(order.Lines),
		},
	})

	handoff := &PaymentHandoff{
		Reference:   order.Reference,
		RedirectURL: fmt.Sprintf("%s?reference=%s&callback=%s", s.payment.ProviderURL, order.Reference, s.payment.CallbackURL),
	}
	return order, handoff, nil
}

// VerifyPayment moves a pending order to paid and publishes the verified
// event, which clears the payer's cart.
func (s *CheckoutService) VerifyPayment(ctx context.Context, reference string) (*domain.Order, error) {
	order, err := s.orders.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if order.Status != domain.OrderStatusPending {
		return nil, apperrors.NewConflict("order is not pending payment", map[string]any{"status": order.Status})
	}

	if err := s.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusPaid); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusPaid

	// A subscriber clears the payer's cart here; if that fails the payment
	// is still verified, but the leftover cart must not go unnoticed.
	if err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPaymentVerified,
		UserID:    order.UserID,
		Timestamp: time.Now(),
		Payload:   events.PaymentVerifiedPayload{OrderID: order.ID, Reference: order.Reference},
	}); err != nil {
		s.logger.Error("payment verified event handling failed",
			zap.String("order_id", order.ID),
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
	}

	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.orders.ListByUser(ctx, userID, limit, offset)
}

// ListAllOrders returns orders across all users, for the admin surface.
func (s *CheckoutService) ListAllOrders(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.orders.List(ctx, limit, offset)
}

func (s *CheckoutService) clearCartOnPayment(ctx context.Context, event events.Event) error {
	return s.carts.Delete(ctx, event.UserID)
}
