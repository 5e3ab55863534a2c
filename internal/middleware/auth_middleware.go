package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"banban-schedule-api/internal/authz"
	"banban-schedule-api/internal/model"
	"banban-schedule-api/internal/repository"
	"banban-schedule-api/pkg/jwt"
)

// RequireAuth validates the bearer token and loads the acting user into the
// request context. A token carrying a RoleCode that differs from the stored
// role is honored only when the user holds the switch_roles permission;
// for everyone else the stored role wins.
func RequireAuth(userRepo repository.UserRepository, az *authz.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing authorization header",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid authorization header format",
			})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "user not found",
			})
		}
		if !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "account is inactive",
			})
		}

		if claims.RoleCode != string(user.Role) && az.HasPermission(user, model.PermSwitchRoles) {
			user.Role = model.Role(claims.RoleCode)
		}

		c.Locals("actor", user)
		c.Locals("user_id", user.ID.String())
		return c.Next()
	}
}

// Actor returns the authenticated user set by RequireAuth, or nil.
func Actor(c *fiber.Ctx) *model.User {
	actor, _ := c.Locals("actor").(*model.User)
	return actor
}

// RequireRole admits actors whose role ranks at least as high as the given
// role.
func RequireRole(az *authz.Authorizer, role model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !az.CanActAsRole(Actor(c), role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient role",
			})
		}
		return c.Next()
	}
}

// RequirePermission admits actors whose role holds the permission token.
func RequirePermission(az *authz.Authorizer, token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !az.HasPermission(Actor(c), token) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "insufficient permission: " + token,
			})
		}
		return c.Next()
	}
}
