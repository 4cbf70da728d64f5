package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/middleware"
	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/storage"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

type PhotoHandler struct {
	photos    *service.PhotoService
	imgStore  storage.ImageService
	validator *utils.Validator
}

func NewPhotoHandler(photos *service.PhotoService, imgStore storage.ImageService, validator *utils.Validator) *PhotoHandler {
	return &PhotoHandler{
		photos:    photos,
		imgStore:  imgStore,
		validator: validator,
	}
}

func photoResponse(imgStore storage.ImageService, p *models.Photos) models.PhotoResponse {
	resp := models.PhotoResponse{
		ID:          p.ID,
		EventID:     p.EventID,
		Caption:     p.Caption,
		Status:      p.Status,
		FileSize:    p.FileSize,
		UploadedAt:  p.UploadedAt,
		ModeratedBy: p.ModeratedBy,
		ModeratedAt: p.ModeratedAt,
	}
	if p.ImageID != "" {
		resp.PublicURL = imgStore.GetPublicURL(p.ImageID)
		resp.ThumbnailURL = imgStore.GetThumbnailURL(p.ImageID)
	}
	return resp
}

func photoListResponse(imgStore storage.ImageService, photos []models.Photos, total int64, page, pageSize int) models.PhotoListResponse {
	items := make([]models.PhotoResponse, 0, len(photos))
	for i := range photos {
		items = append(items, photoResponse(imgStore, &photos[i]))
	}
	return models.PhotoListResponse{
		Photos:   items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  int64(page*pageSize) < total,
	}
}

// ListEventPhotos is the host/admin view: every moderation state, newest
// first.
func (h *PhotoHandler) ListEventPhotos(c *fiber.Ctx) error {
	eventID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	page, pageSize := pagination(c)
	actor := middleware.ActorFromCtx(c)
	photos, total, err := h.photos.ListEventPhotos(actor, eventID, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(photoListResponse(h.imgStore, photos, total, page, pageSize), ""))
}

func (h *PhotoHandler) moderation(c *fiber.Ctx, message string, do func(*models.Actor, uint) (*models.Photos, error)) error {
	photoID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	actor := middleware.ActorFromCtx(c)
	photo, err := do(actor, photoID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(photoResponse(h.imgStore, photo), message))
}

func (h *PhotoHandler) Approve(c *fiber.Ctx) error {
	return h.moderation(c, "Photo approved", h.photos.Approve)
}

func (h *PhotoHandler) Reject(c *fiber.Ctx) error {
	return h.moderation(c, "Photo rejected", h.photos.Reject)
}

func (h *PhotoHandler) UpdateCaption(c *fiber.Ctx) error {
	photoID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	var req models.UpdatePhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	caption := ""
	if req.Caption != nil {
		caption = *req.Caption
	}

	actor := middleware.ActorFromCtx(c)
	photo, err := h.photos.UpdateCaption(actor, photoID, caption)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(photoResponse(h.imgStore, photo), "Caption updated"))
}

func (h *PhotoHandler) DeletePhoto(c *fiber.Ctx) error {
	photoID, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid photo ID"))
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.photos.Remove(actor, photoID); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Photo deleted"))
}

func (h *PhotoHandler) BulkDelete(c *fiber.Ctx) error {
	var req models.BulkDeletePhotosRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	actor := middleware.ActorFromCtx(c)
	outcomes := h.photos.BulkRemove(actor, req.PhotoIDs)
	return c.JSON(models.SuccessResponse(outcomes, "Bulk delete processed"))
}
