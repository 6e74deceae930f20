package session

import "github.com/spec-kit/marketplace-service/internal/domain"

// DecisionKind enumerates navigation-authorization outcomes.
type DecisionKind string

const (
	DecisionAllow              DecisionKind = "ALLOW"
	DecisionRedirectToLogin    DecisionKind = "REDIRECT_TO_LOGIN"
	DecisionRedirectToRoleHome DecisionKind = "REDIRECT_TO_ROLE_HOME"
)

// Decision is the outcome of an access check. Role is only meaningful for
// DecisionRedirectToRoleHome.
type Decision struct {
	Kind DecisionKind
	Role domain.Role
}

// Allow grants access.
func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

// RedirectToLogin sends an unauthenticated caller to the login page.
func RedirectToLogin() Decision {
	return Decision{Kind: DecisionRedirectToLogin}
}

// RedirectToRoleHome sends an authenticated but unauthorized caller to their
// role's home.
func RedirectToRoleHome(role domain.Role) Decision {
	return Decision{Kind: DecisionRedirectToRoleHome, Role: role}
}

// Decide maps a navigation attempt to exactly one Decision. Checks
// short-circuit in order: authentication, then role, then permission.
// Permissions only ever match for admins, so any non-empty permission
// requirement fails unconditionally for other roles. Unrecognized roles or
// permissions in a requirement set simply never match; nothing here can
// fail or panic.
func Decide(user *domain.User, roles []domain.Role, perms []domain.AdminPermission) Decision {
	if user == nil {
		return RedirectToLogin()
	}

	if len(roles) > 0 && !user.HasRole(roles...) {
		return RedirectToRoleHome(user.Role)
	}

	for _, perm := range perms {
		if !user.HasPermission(perm) {
			return RedirectToRoleHome(user.Role)
		}
	}

	return Allow()
}

// LoginPath is where unauthenticated navigation is redirected.
const LoginPath = "/login"

// HomePath maps a role to its dashboard route; anything unrecognized lands
// on the public home.
func HomePath(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleSeller:
		return "/seller/dashboard"
	case domain.RoleCustomer:
		return "/customer/dashboard"
	default:
		return "/"
	}
}
