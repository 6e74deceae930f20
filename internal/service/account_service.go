package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// Registration carries signup input for customers and sellers.
type Registration struct {
	Email           string
	FullName        string
	PhoneNumber     string
	Password        string
	Role            domain.Role
	BusinessName    *string
	BusinessAddress *string
}

// AccountService coordinates registration, OTP verification and login.
type AccountService struct {
	users      repository.UserRepository
	codes      repository.VerificationRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	otpTTL     time.Duration
}

// AccountDependencies bundles repo requirements for the account service.
type AccountDependencies struct {
	UserRepo         repository.UserRepository
	VerificationRepo repository.VerificationRepository
	Dispatcher       events.Dispatcher
}

// NewAccountService builds the service.
func NewAccountService(cfg config.Config, deps AccountDependencies) *AccountService {
	return &AccountService{
		users:      deps.UserRepo,
		codes:      deps.VerificationRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		otpTTL:     time.Duration(cfg.Auth.OTPTTLMinutes) * time.Minute,
	}
}

// Register creates an unverified account and issues an OTP code. Admin
// accounts are provisioned out of band, never through self-registration.
func (s *AccountService) Register(ctx context.Context, reg Registration) (*domain.User, *repository.VerificationCode, error) {
	if reg.Role != domain.RoleCustomer && reg.Role != domain.RoleSeller {
		return nil, nil, errors.New("unsupported role")
	}
	if reg.Role == domain.RoleSeller && (reg.BusinessName == nil || *reg.BusinessName == "") {
		return nil, nil, errors.New("business name required for sellers")
	}

	if _, err := s.users.GetByEmail(ctx, reg.Email); err == nil {
		return nil, nil, errors.New("email already registered")
	} else if err != pgx.ErrNoRows {
		return nil, nil, err
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, err
	}

	user := &domain.User{
		Email:           reg.Email,
		FullName:        reg.FullName,
		PhoneNumber:     reg.PhoneNumber,
		PasswordHash:    hash,
		Role:            reg.Role,
		BusinessName:    reg.BusinessName,
		BusinessAddress: reg.BusinessAddress,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	code, err := s.issueCode(ctx, user.Email)
	if err != nil {
		return nil, nil, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserRegistered,
		UserID:    user.ID,
		Timestamp: time.Now(),
		Payload:   events.UserRegisteredPayload{Email: user.Email, Role: user.Role},
	})

	return user, code, nil
}

// VerifyOTP marks the account verified and issues an access token.
func (s *AccountService) VerifyOTP(ctx context.Context, email, otp string) (*domain.User, string, time.Time, error) {
	code, err := s.codes.GetActiveByEmail(ctx, email)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, "", time.Time{}, errors.New("no pending verification")
		}
		return nil, "", time.Time{}, err
	}
	if time.Now().After(code.ExpiresAt) || code.Code != otp {
		return nil, "", time.Time{}, errors.New("invalid or expired code")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.Verified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}
	if err := s.codes.MarkUsed(ctx, code.ID); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUserVerified,
		UserID:    user.ID,
		Timestamp: time.Now(),
	})

	return user, token, exp, nil
}

// ResendOTP replaces any active code for the email.
func (s *AccountService) ResendOTP(ctx context.Context, email string) (*repository.VerificationCode, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Verified {
		return nil, errors.New("account already verified")
	}
	if err := s.codes.DeleteByEmail(ctx, email); err != nil {
		return nil, err
	}
	return s.issueCode(ctx, email)
}

// Login authenticates a verified account.
func (s *AccountService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !user.Verified {
		return nil, "", time.Time{}, errors.New("account not verified")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, errors.New("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout currently no-ops for the stateless JWT approach.
func (s *AccountService) Logout(_ context.Context, _ string) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AccountService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AccountService) issueCode(ctx context.Context, email string) (*repository.VerificationCode, error) {
	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}
	code := &repository.VerificationCode{
		Email:     email,
		Code:      otp,
		ExpiresAt: time.Now().Add(s.otpTTL),
	}
	if err := s.codes.Create(ctx, code); err != nil {
		return nil, err
	}
	return code, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
