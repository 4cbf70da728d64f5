package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/identity"
)

// ActorKey is the fiber locals slot the authenticated actor is stored in.
const ActorKey = "actor"

// RequireAuth verifies the bearer credential and resolves the caller
// into an actor. A credential defect is 401, a provider outage is 503.
func RequireAuth(verifier *identity.Verifier, resolver *service.ActorResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := bearerToken(c)
		if credential == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.ErrorResponse("missing bearer credential"))
		}

		verified, err := verifier.Verify(credential)
		if err != nil {
			if errors.Is(err, models.ErrIdentityProviderUnavailable) {
				return c.Status(fiber.StatusServiceUnavailable).JSON(
					models.ErrorResponse("identity provider unavailable, retry later"))
			}
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.ErrorResponse("invalid credential"))
		}

		actor, err := resolver.Resolve(verified)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(
				models.ErrorResponse("could not resolve account"))
		}

		c.Locals(ActorKey, actor)
		return c.Next()
	}
}

// RequireAdmin gates a route group to allow-listed admins. It must run
// after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)
		if actor == nil || !actor.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(
				models.ErrorResponse("admin access required"))
		}
		return c.Next()
	}
}

// ActorFromCtx returns the actor stored by RequireAuth, or nil.
func ActorFromCtx(c *fiber.Ctx) *models.Actor {
	actor, _ := c.Locals(ActorKey).(*models.Actor)
	return actor
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}
