package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/middleware"
	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/identity"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

type AuthHandler struct {
	verifier  *identity.Verifier
	resolver  *service.ActorResolver
	validator *utils.Validator
}

func NewAuthHandler(verifier *identity.Verifier, resolver *service.ActorResolver, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		verifier:  verifier,
		resolver:  resolver,
		validator: validator,
	}
}

// Signin exchanges the provider credential for the local account. The
// account is created on first signin, so this is the enrollment path too.
func (h *AuthHandler) Signin(c *fiber.Ctx) error {
	var req models.SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	verified, err := h.verifier.Verify(req.Token)
	if err != nil {
		return fail(c, err)
	}

	actor, err := h.resolver.Resolve(verified)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(models.SuccessResponse(models.SigninResponse{
		Token: req.Token,
		User:  h.resolver.Profile(actor),
	}, "Signed in"))
}

// Signout is an acknowledgement only. Credentials are issued by the
// external provider, so there is no server-side session to tear down.
func (h *AuthHandler) Signout(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(nil, "Signed out"))
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	return c.JSON(models.SuccessResponse(h.resolver.Profile(actor), ""))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	actor := middleware.ActorFromCtx(c)
	if _, err := h.resolver.UpdateProfile(actor, req); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(h.resolver.Profile(actor), "Profile updated"))
}
