package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snapgather/snapgather-backend/internal/middleware"
	"github.com/snapgather/snapgather-backend/internal/models"
	"github.com/snapgather/snapgather-backend/internal/service"
	"github.com/snapgather/snapgather-backend/pkg/qrcode"
	"github.com/snapgather/snapgather-backend/pkg/utils"
)

type EventHandler struct {
	events    *service.EventService
	exports   *service.ExportService
	qr        *qrcode.QRService
	validator *utils.Validator
}

func NewEventHandler(events *service.EventService, exports *service.ExportService, qr *qrcode.QRService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		events:    events,
		exports:   exports,
		qr:        qr,
		validator: validator,
	}
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.events.CreateEvent(actor, req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(models.NewEventResponse(event, 0), "Event created"))
}

func (h *EventHandler) GetMyEvents(c *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(c)
	events, err := h.events.GetHostEvents(actor)
	if err != nil {
		return fail(c, err)
	}

	resp := make([]models.EventResponse, 0, len(events))
	for i := range events {
		count, _ := h.events.PhotoCount(events[i].ID)
		resp = append(resp, models.NewEventResponse(&events[i], count))
	}
	return c.JSON(models.SuccessResponse(resp, ""))
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.events.GetEvent(actor, id)
	if err != nil {
		return fail(c, err)
	}
	count, _ := h.events.PhotoCount(event.ID)
	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, count), ""))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.events.UpdateEvent(actor, id, req)
	if err != nil {
		return fail(c, err)
	}
	count, _ := h.events.PhotoCount(event.ID)
	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, count), "Event updated"))
}

// transition runs one of the single-event lifecycle endpoints.
func (h *EventHandler) transition(c *fiber.Ctx, message string, do func(*models.Actor, uint) (*models.Event, error)) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := do(actor, id)
	if err != nil {
		return fail(c, err)
	}
	count, _ := h.events.PhotoCount(event.ID)
	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, count), message))
}

func (h *EventHandler) Publish(c *fiber.Ctx) error {
	return h.transition(c, "Event published", h.events.Publish)
}

func (h *EventHandler) Suspend(c *fiber.Ctx) error {
	return h.transition(c, "Event suspended", h.events.Suspend)
}

func (h *EventHandler) Reactivate(c *fiber.Ctx) error {
	return h.transition(c, "Event reactivated", h.events.Reactivate)
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	if err := h.events.Delete(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Event deleted"))
}

func (h *EventHandler) BulkAction(c *fiber.Ctx) error {
	var req models.EventBulkRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	actor := middleware.ActorFromCtx(c)
	outcomes, err := h.events.BulkAction(actor, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(outcomes, "Bulk action processed"))
}

func (h *EventHandler) UploadCover(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No image file provided"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.events.UploadCover(actor, id, file)
	if err != nil {
		return fail(c, err)
	}
	count, _ := h.events.PhotoCount(event.ID)
	return c.JSON(models.SuccessResponse(models.NewEventResponse(event, count), "Cover image updated"))
}

// GetQRCode renders the event's share link as a PNG. Owner only, the
// public side gets the link itself.
func (h *EventHandler) GetQRCode(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	actor := middleware.ActorFromCtx(c)
	event, err := h.events.GetEvent(actor, id)
	if err != nil {
		return fail(c, err)
	}

	size := c.QueryInt("size", 256)
	png, err := h.qr.GenerateQRCode(event.ShareToken, size)
	if err != nil {
		return fail(c, err)
	}
	c.Set("Content-Type", "image/png")
	return c.Send(png)
}

func (h *EventHandler) SubmitExport(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid event ID"))
	}

	var req models.ExportRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	actor := middleware.ActorFromCtx(c)
	job, err := h.exports.SubmitEventExport(c.Context(), actor, id, req.PhotoIDs)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(models.SuccessResponse(job, "Export started"))
}

func (h *EventHandler) GetExportJob(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid job ID"))
	}

	actor := middleware.ActorFromCtx(c)
	job, err := h.exports.GetJob(c.Context(), actor, jobID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(models.SuccessResponse(job, ""))
}
