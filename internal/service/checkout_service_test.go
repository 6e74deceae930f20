package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/marketplace-service/internal/cart"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
)

type mockOrderRepository struct {
	mu     sync.Mutex
	orders []*domain.Order
	err    error
}

func (m *mockOrderRepository) Create(_ context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	order.ID = "order-1"
	stored := *order
	m.orders = append(m.orders, &stored)
	return nil
}

func (m *mockOrderRepository) GetByReference(_ context.Context, reference string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.orders {
		if order.Reference == reference {
			found := *order
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.orders {
		if order.ID == id {
			order.Status = status
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockOrderRepository) ListByUser(_ context.Context, userID string, _, _ int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) List(_ context.Context, _, _ int) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Order
	for _, order := range m.orders {
		out = append(out, *order)
	}
	return out, nil
}

func checkoutFixture(t *testing.T) (*CheckoutService, *mockOrderRepository, cart.Storage) {
	t.Helper()
	repo := &mockOrderRepository{}
	storage := cart.NewMemoryStorage()
	dispatcher := events.NewInMemoryDispatcher()
	payment := config.PaymentConfig{
		ProviderURL: "https://pay.test/checkout",
		CallbackURL: "https://shop.test/checkout/payment/callback",
	}
	return NewCheckoutService(repo, storage, dispatcher, payment, zap.NewNop()), repo, storage
}

func fillCart(t *testing.T, storage cart.Storage, userID string) {
	t.Helper()
	ctx := context.Background()
	store, err := cart.Open(ctx, storage, userID)
	require.NoError(t, err)
	require.NoError(t, store.AddItem(ctx, cart.LineItem{ProductID: "p1", Name: "Mug", UnitPrice: 8.5}, 2))
	require.NoError(t, store.AddItem(ctx, cart.LineItem{ProductID: "p2", Name: "Lamp", UnitPrice: 20}, 1))
}

func TestPlaceOrderSnapshotsCart(t *testing.T) {
	svc, repo, storage := checkoutFixture(t)
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}
	fillCart(t, storage, user.ID)

	order, handoff, err := svc.PlaceOrder(context.Background(), user)
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.InDelta(t, 37.0, order.Total, 1e-9)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "Mug", order.Lines[0].Name)
	assert.Equal(t, 8.5, order.Lines[0].UnitPrice)

	require.NotNil(t, handoff)
	assert.Equal(t, order.Reference, handoff.Reference)
	assert.Contains(t, handoff.RedirectURL, "https://pay.test/checkout")
	assert.Contains(t, handoff.RedirectURL, order.Reference)

	require.Len(t, repo.orders, 1)
}

func TestPlaceOrderEmptyCartFails(t *testing.T) {
	svc, repo, _ := checkoutFixture(t)
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}

	_, _, err := svc.PlaceOrder(context.Background(), user)
	require.Error(t, err)
	assert.Empty(t, repo.orders)
}

func TestPlaceOrderLeavesCartIntactUntilPayment(t *testing.T) {
	svc, _, storage := checkoutFixture(t)
	ctx := context.Background()
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}
	fillCart(t, storage, user.ID)

	_, _, err := svc.PlaceOrder(ctx, user)
	require.NoError(t, err)

	lines, err := storage.Load(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2, "cart survives until payment is verified")
}

func TestVerifyPaymentClearsCart(t *testing.T) {
	svc, _, storage := checkoutFixture(t)
	ctx := context.Background()
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}
	fillCart(t, storage, user.ID)

	placed, _, err := svc.PlaceOrder(ctx, user)
	require.NoError(t, err)

	paid, err := svc.VerifyPayment(ctx, placed.Reference)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	lines, err := storage.Load(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestVerifyPaymentRejectsNonPending(t *testing.T) {
	svc, _, storage := checkoutFixture(t)
	ctx := context.Background()
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}
	fillCart(t, storage, user.ID)

	placed, _, err := svc.PlaceOrder(ctx, user)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, placed.Reference)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(ctx, placed.Reference)
	assert.Error(t, err, "second verification must fail")
}

func TestVerifyPaymentUnknownReference(t *testing.T) {
	svc, _, _ := checkoutFixture(t)

	_, err := svc.VerifyPayment(context.Background(), "missing")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

// cart storage whose Delete always fails, for exercising the clear-on-payment path.
type undeletableCartStorage struct {
	cart.Storage
	err error
}

func (s *undeletableCartStorage) Delete(_ context.Context, _ string) error {
	return s.err
}

func TestVerifyPaymentSucceedsWhenCartClearFails(t *testing.T) {
	repo := &mockOrderRepository{}
	storage := &undeletableCartStorage{Storage: cart.NewMemoryStorage(), err: errors.New("redis down")}
	dispatcher := events.NewInMemoryDispatcher()
	core, logs := observer.New(zapcore.ErrorLevel)
	svc := NewCheckoutService(repo, storage, dispatcher, config.PaymentConfig{}, zap.New(core))

	ctx := context.Background()
	user := &domain.User{ID: "u1", Role: domain.RoleCustomer}
	fillCart(t, storage, user.ID)

	placed, _, err := svc.PlaceOrder(ctx, user)
	require.NoError(t, err)

	paid, err := svc.VerifyPayment(ctx, placed.Reference)
	require.NoError(t, err, "payment verification must not depend on the cart clear")
	assert.Equal(t, domain.OrderStatusPaid, paid.Status)

	require.Equal(t, 1, logs.Len(), "the failed cart clear must be logged")
	assert.Contains(t, logs.All()[0].Message, "payment verified event handling failed")
}
