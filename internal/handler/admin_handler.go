package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/middleware"
	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/storage"
)

type AdminHandler struct {
	admin    *service.AdminService
	exports  *service.ExportService
	imgStore storage.ImageService
}

func NewAdminHandler(admin *service.AdminService, exports *service.ExportService, imgStore storage.ImageService) *AdminHandler {
	return &AdminHandler{
		admin:    admin,
		exports:  exports,
		imgStore: imgStore,
	}
}

func (h *AdminHandler) Overview(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	stats, err := h.admin.Overview(actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(stats, ""))
}

func (h *AdminHandler) ListEvents(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	actor := middleware.ActorFromCtx(c)
	events, total, err := h.admin.ListEvents(actor, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{
		"events":    events,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, ""))
}

func (h *AdminHandler) GetEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.admin.GetEvent(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(event, ""))
}

func (h *AdminHandler) SetEventStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.EventStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.admin.SetEventSuspended(actor, id, req.Suspended)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, 0), "Event status updated"))
}

func (h *AdminHandler) ForceDeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.admin.ForceDeleteEvent(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event permanently deleted"))
}

func (h *AdminHandler) ListHosts(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	actor := middleware.ActorFromCtx(c)
	hosts, total, err := h.admin.ListHosts(actor, page, pageSize)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{
		"hosts":     hosts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, ""))
}

func (h *AdminHandler) GetHost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid host ID"))
	}

	actor := middleware.ActorFromCtx(c)
	host, err := h.admin.GetHost(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(host, ""))
}

// SetHostStatus suspends or reinstates a host account. Suspension blocks
// host-scoped writes; existing events stay in whatever state they are in.
func (h *AdminHandler) SetHostStatus(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid host ID"))
	}

	var req models.HostStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	actor := middleware.ActorFromCtx(c)
	host, err := h.admin.SetHostSuspended(actor, id, req.Suspended)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{
		"id":     host.ID,
		"email":  host.Email,
		"status": host.Status,
	}, "Host status updated"))
}

func (h *AdminHandler) RecentUploads(c *fiber.Ctx) error {
	page, pageSize := pagination(c)
	actor := middleware.ActorFromCtx(c)
	photos, total, err := h.admin.RecentUploads(actor, page, pageSize)
	if err != nil {
		return fail(c, err)
	}

	uploads := make([]models.RecentUpload, 0, len(photos))
	for i := range photos {
		uploads = append(uploads, models.RecentUpload{
			PhotoResponse: photoResponse(h.imgStore, &photos[i]),
			HostEmail:     h.admin.HostEmailForEvent(photos[i].EventID),
		})
	}
	return c.JSON(models.SuccessResponse(fiber.Map{
		"uploads":   uploads,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, ""))
}

func (h *AdminHandler) SubmitSystemExport(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	job, err := h.exports.SubmitSystemExport(c.Context(), actor)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse(job, "Export started"))
}
