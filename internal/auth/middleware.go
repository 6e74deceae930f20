package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/session"
	apperrors "github.com/spec-kit/marketplace-service/pkg/util"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and loads the caller's identity.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle resolves the Authorization header into a session identity. The
// identity is installed only once both token and user resolve, so downstream
// code never sees a half-populated session. An absent header is not an error
// here; guards decide whether to redirect.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Next()
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, session.Identity{Token: parts[1], User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity, if any.
func PrincipalFromContext(c *fiber.Ctx) (session.Identity, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return session.Identity{}, false
	}
	identity, ok := val.(session.Identity)
	if !ok || !identity.Authenticated() {
		return session.Identity{}, false
	}
	return identity, true
}
