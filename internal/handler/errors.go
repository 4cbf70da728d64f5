package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/models"
)

// fail maps a domain error to its HTTP status and writes the error
// envelope. Unknown errors become 500 without leaking their message.
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNotAvailable):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("not found"))
	case errors.Is(err, models.ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("not allowed"))
	case errors.Is(err, models.ErrHostSuspended):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("account suspended"))
	case errors.Is(err, models.ErrIllegalState):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse("operation not valid in current state"))
	case errors.Is(err, models.ErrWrongPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("wrong password"))
	case errors.Is(err, models.ErrInvalidCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("invalid credential"))
	case errors.Is(err, models.ErrIdentityProviderUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse("identity provider unavailable, retry later"))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal error"))
	}
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func pagination(c *fiber.Ctx) (page, pageSize int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
