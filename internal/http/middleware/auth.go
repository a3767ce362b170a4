package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"backoffice/internal/model"
	"backoffice/internal/service"
)

// ActorLocalKey is where Auth stores the authenticated model.Actor.
const ActorLocalKey = "actor"

// Authenticator verifies a bearer token. service.AuthService satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Actor, error)
}

// Auth requires a valid bearer token backed by a live session.
// Failures become 401 through the global error handler.
func Auth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		actor, err := a.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
			}
			return err
		}
		actor.IP = c.IP()
		c.Locals(ActorLocalKey, actor)
		return c.Next()
	}
}

// RequireAdmin rejects non-admin actors with 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !actor.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "admin only")
		}
		return c.Next()
	}
}

// RequirePermission rejects agents lacking perm. Admins always pass.
func RequirePermission(perm model.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !actor.IsAdmin() && !actor.Permissions.Has(perm) {
			return fiber.NewError(fiber.StatusForbidden, "missing permission "+string(perm))
		}
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by Auth.
func ActorFromCtx(c *fiber.Ctx) (model.Actor, bool) {
	actor, ok := c.Locals(ActorLocalKey).(model.Actor)
	return actor, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
