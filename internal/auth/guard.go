package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/session"
)

// Guard gates a route group on a required role set and permission set. Every
// route guard goes through session.Decide so the auth-before-role-before-
// permission ordering holds uniformly instead of being re-spelled per route.
func Guard(roles []domain.Role, perms []domain.AdminPermission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, _ := PrincipalFromContext(c)

		decision := session.Decide(identity.User, roles, perms)
		switch decision.Kind {
		case session.DecisionAllow:
			return c.Next()
		case session.DecisionRedirectToLogin:
			return c.Redirect(session.LoginPath, fiber.StatusSeeOther)
		default:
			return c.Redirect(session.HomePath(decision.Role), fiber.StatusSeeOther)
		}
	}
}

// RequireRole gates a route group on role membership alone.
func RequireRole(roles ...domain.Role) fiber.Handler {
	return Guard(roles, nil)
}

// RequirePermission gates an admin route on specific capabilities.
func RequirePermission(perms ...domain.AdminPermission) fiber.Handler {
	return Guard([]domain.Role{domain.RoleAdmin}, perms)
}
