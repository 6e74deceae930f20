package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/session"
)

func guardApp(user *domain.User, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		func(c *fiber.Ctx) error {
			if user != nil {
				c.Locals(principalKey, session.Identity{Token: "token", User: user})
			}
			return c.Next()
		},
		guard,
		func(c *fiber.Ctx) error {
			return c.SendString("ok")
		},
	)
	return app
}

func TestGuardRedirectsUnauthenticatedToLogin(t *testing.T) {
	app := guardApp(nil, RequireRole(domain.RoleCustomer))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestGuardRedirectsWrongRoleToRoleHome(t *testing.T) {
	seller := &domain.User{ID: "s1", Role: domain.RoleSeller}
	app := guardApp(seller, RequireRole(domain.RoleCustomer))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/seller/dashboard", resp.Header.Get("Location"))
}

func TestGuardAllowsMatchingRole(t *testing.T) {
	customer := &domain.User{ID: "c1", Role: domain.RoleCustomer}
	app := guardApp(customer, RequireRole(domain.RoleCustomer))

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGuardPermissionCheck(t *testing.T) {
	admin := &domain.User{
		ID:          "a1",
		Role:        domain.RoleAdmin,
		Permissions: []domain.AdminPermission{domain.PermManageUsers},
	}

	allowed := guardApp(admin, RequirePermission(domain.PermManageUsers))
	resp, err := allowed.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	denied := guardApp(admin, RequirePermission(domain.PermManageOrders))
	resp, err = denied.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/dashboard", resp.Header.Get("Location"))
}
