package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// AuthHandler exposes registration, OTP verification and login endpoints.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return fiber.NewError(http.StatusBadRequest, "fullName, email, password required")
	}
	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleCustomer
	}

	user, _, err := h.accounts.Register(c.Context(), service.Registration{
		Email:           req.Email,
		FullName:        req.FullName,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		Role:            role,
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	// The OTP itself goes out through the notification channel, not the API.
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":    userView(user),
			"message": "verification code sent",
		},
	})
}

// VerifyOTP handles POST /auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.OTP == "" {
		return fiber.NewError(http.StatusBadRequest, "email and otp required")
	}

	user, token, exp, err := h.accounts.VerifyOTP(c.Context(), req.Email, req.OTP)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userView(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// ResendOTP handles POST /auth/resend-otp.
func (h *AuthHandler) ResendOTP(c *fiber.Ctx) error {
	var req dto.ResendOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if _, err := h.accounts.ResendOTP(c.Context(), req.Email); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "verification code sent"},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	user, token, exp, err := h.accounts.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return fiber.NewError(http.StatusUnauthorized, err.Error())
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": userView(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.accounts.Logout(c.Context(), ""); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

func userView(user *domain.User) fiber.Map {
	view := fiber.Map{
		"id":       user.ID,
		"email":    user.Email,
		"fullName": user.FullName,
		"role":     user.Role,
		"verified": user.Verified,
	}
	if user.Role == domain.RoleAdmin {
		view["permissions"] = user.Permissions
	}
	if user.Role == domain.RoleSeller {
		view["businessName"] = user.BusinessName
		view["adminVerified"] = user.AdminVerified
	}
	return view
}
