package dto

import "time"

// RegisterRequest payload for new customer or seller accounts.
type RegisterRequest struct {
	Email           string  `json:"email"`
	FullName        string  `json:"fullName"`
	PhoneNumber     string  `json:"phoneNumber"`
	Password        string  `json:"password"`
	Role            string  `json:"role"`
	BusinessName    *string `json:"businessName,omitempty"`
	BusinessAddress *string `json:"businessAddress,omitempty"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyOTPRequest payload for registration verification.
type VerifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// ResendOTPRequest payload to replace an active code.
type ResendOTPRequest struct {
	Email string `json:"email"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
