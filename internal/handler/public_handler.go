package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/captcha"
	"github.com/snapgather/snapgather-backend/pkg/storage"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

// passwordHeader carries the event password on public reads so GET
// requests stay body-free.
const passwordHeader = "X-Event-Password"

type PublicHandler struct {
	gate            *service.ShareAccessGate
	photos          *service.PhotoService
	imgStore        storage.ImageService
	validator       *utils.Validator
	turnstileSecret string
}

func NewPublicHandler(gate *service.ShareAccessGate, photos *service.PhotoService, imgStore storage.ImageService, validator *utils.Validator, turnstileSecret string) *PublicHandler {
	return &PublicHandler{
		gate:            gate,
		photos:          photos,
		imgStore:        imgStore,
		validator:       validator,
		turnstileSecret: turnstileSecret,
	}
}

// GetEventInfo is the pre-password teaser: title, cover, whether a
// password is needed. Unknown and unavailable tokens look identical.
func (h *PublicHandler) GetEventInfo(c *fiber.Ctx) error {
	info, err := h.gate.EventInfo(c.Params("token"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(info, ""))
}

func (h *PublicHandler) VerifyPassword(c *fiber.Ctx) error {
	var req models.EventPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.gate.VerifyPassword(c.Params("token"), req.Password); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Password accepted"))
}

// ListPhotos serves the public gallery: approved photos only.
func (h *PublicHandler) ListPhotos(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	photos, total, err := h.gate.ApprovedPhotos(c.Params("token"), c.Get(passwordHeader), page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(photoListResponse(h.imgStore, photos, total, page, pageSize), ""))
}

// UploadPhoto accepts an anonymous guest upload. The photo lands in
// pending and stays invisible until the host approves it.
func (h *PublicHandler) UploadPhoto(c *fiber.Ctx) error {
	event, err := h.gate.Evaluate(c.Params("token"), c.FormValue("password"))
	if err != nil {
		return fail(c, err)
	}

	if h.turnstileSecret != "" {
		ok, err := captcha.VerifyTurnstile(h.turnstileSecret, c.FormValue("captcha_token"))
		if err != nil || !ok {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Captcha verification failed"))
		}
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No photo file provided"))
	}

	upload := models.PublicUploadRequest{
		Caption:  c.FormValue("caption"),
		MimeType: file.Header.Get("Content-Type"),
	}
	if err := h.validator.Struct(upload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Unsupported image type"))
	}

	photo, err := h.photos.CreatePublicPhoto(event, file, upload.Caption)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(photoResponse(h.imgStore, photo), "Photo uploaded, awaiting approval"))
}
