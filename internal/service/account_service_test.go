package service

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]*domain.User
	next  int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*domain.User)}
}

func (m *mockUserRepository) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	user.ID = "u" + strconv.Itoa(m.next)
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) Update(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	found := *user
	return &found, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepository) List(_ context.Context, _, _ int) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.User
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

func (m *mockUserRepository) SetPermissions(_ context.Context, id string, perms []domain.AdminPermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok || user.Role != domain.RoleAdmin {
		return pgx.ErrNoRows
	}
	user.Permissions = perms
	return nil
}

type mockVerificationRepository struct {
	mu    sync.Mutex
	codes []*repository.VerificationCode
	next  int
}

func (m *mockVerificationRepository) Create(_ context.Context, code *repository.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	code.ID = "v" + strconv.Itoa(m.next)
	code.CreatedAt = time.Now()
	stored := *code
	m.codes = append(m.codes, &stored)
	return nil
}

func (m *mockVerificationRepository) GetActiveByEmail(_ context.Context, email string) (*repository.VerificationCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.codes) - 1; i >= 0; i-- {
		if m.codes[i].Email == email && m.codes[i].UsedAt == nil {
			found := *m.codes[i]
			return &found, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockVerificationRepository) MarkUsed(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, code := range m.codes {
		if code.ID == id {
			now := time.Now()
			code.UsedAt = &now
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *mockVerificationRepository) DeleteByEmail(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.codes[:0]
	for _, code := range m.codes {
		if code.Email != email {
			kept = append(kept, code)
		}
	}
	m.codes = kept
	return nil
}

func accountFixture() (*AccountService, *mockUserRepository, *mockVerificationRepository) {
	users := newMockUserRepository()
	codes := &mockVerificationRepository{}
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			OTPTTLMinutes:         10,
			BcryptCost:            4,
		},
	}
	svc := NewAccountService(cfg, AccountDependencies{
		UserRepo:         users,
		VerificationRepo: codes,
		Dispatcher:       events.NewInMemoryDispatcher(),
	})
	return svc, users, codes
}

func TestRegisterVerifyLoginFlow(t *testing.T) {
	svc, _, _ := accountFixture()
	ctx := context.Background()

	user, code, err := svc.Register(ctx, Registration{
		Email:    "jo@example.com",
		FullName: "Jo Doe",
		Password: "hunter22",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)
	assert.False(t, user.Verified)
	require.NotNil(t, code)
	assert.Len(t, code.Code, 6)

	// Login before verification is rejected.
	_, _, _, err = svc.Login(ctx, "jo@example.com", "hunter22")
	assert.Error(t, err)

	verified, token, exp, err := svc.VerifyOTP(ctx, "jo@example.com", code.Code)
	require.NoError(t, err)
	assert.True(t, verified.Verified)
	assert.NotEmpty(t, token)
	assert.True(t, exp.After(time.Now()))

	loggedIn, token, _, err := svc.Login(ctx, "jo@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := accountFixture()
	ctx := context.Background()

	reg := Registration{Email: "jo@example.com", FullName: "Jo", Password: "pw", Role: domain.RoleCustomer}
	_, _, err := svc.Register(ctx, reg)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, reg)
	assert.Error(t, err)
}

func TestRegisterSellerRequiresBusinessName(t *testing.T) {
	svc, _, _ := accountFixture()

	_, _, err := svc.Register(context.Background(), Registration{
		Email:    "shop@example.com",
		FullName: "Shop Owner",
		Password: "pw",
		Role:     domain.RoleSeller,
	})
	assert.Error(t, err)

	name := "Jo's Shop"
	_, _, err = svc.Register(context.Background(), Registration{
		Email:        "shop@example.com",
		FullName:     "Shop Owner",
		Password:     "pw",
		Role:         domain.RoleSeller,
		BusinessName: &name,
	})
	assert.NoError(t, err)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc, _, _ := accountFixture()

	_, _, err := svc.Register(context.Background(), Registration{
		Email:    "root@example.com",
		FullName: "Root",
		Password: "pw",
		Role:     domain.RoleAdmin,
	})
	assert.Error(t, err)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, _ := accountFixture()
	ctx := context.Background()

	_, code, err := svc.Register(ctx, Registration{
		Email:    "jo@example.com",
		FullName: "Jo",
		Password: "pw",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)

	wrong := "000000"
	if code.Code == wrong {
		wrong = "000001"
	}
	_, _, _, err = svc.VerifyOTP(ctx, "jo@example.com", wrong)
	assert.Error(t, err)
}

func TestVerifyOTPExpiredCode(t *testing.T) {
	svc, _, codes := accountFixture()
	ctx := context.Background()

	_, code, err := svc.Register(ctx, Registration{
		Email:    "jo@example.com",
		FullName: "Jo",
		Password: "pw",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)

	codes.mu.Lock()
	codes.codes[0].ExpiresAt = time.Now().Add(-time.Minute)
	codes.mu.Unlock()

	_, _, _, err = svc.VerifyOTP(ctx, "jo@example.com", code.Code)
	assert.Error(t, err)
}

func TestResendOTPReplacesCode(t *testing.T) {
	svc, _, codes := accountFixture()
	ctx := context.Background()

	_, first, err := svc.Register(ctx, Registration{
		Email:    "jo@example.com",
		FullName: "Jo",
		Password: "pw",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)

	second, err := svc.ResendOTP(ctx, "jo@example.com")
	require.NoError(t, err)

	codes.mu.Lock()
	remaining := len(codes.codes)
	codes.mu.Unlock()
	assert.Equal(t, 1, remaining, "old code removed")

	// The first code no longer verifies unless it happens to match.
	if first.Code != second.Code {
		_, _, _, err = svc.VerifyOTP(ctx, "jo@example.com", first.Code)
		assert.Error(t, err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := accountFixture()
	ctx := context.Background()

	_, code, err := svc.Register(ctx, Registration{
		Email:    "jo@example.com",
		FullName: "Jo",
		Password: "correct",
		Role:     domain.RoleCustomer,
	})
	require.NoError(t, err)
	_, _, _, err = svc.VerifyOTP(ctx, "jo@example.com", code.Code)
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "jo@example.com", "wrong")
	assert.Error(t, err)
}
