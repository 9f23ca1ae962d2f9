package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/qrcode"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

type EventHandler struct {
	eventService *service.EventService
	qrService    *qrcode.QRService
	validator    *utils.Validator
}

func NewEventHandler(eventService *service.EventService, qrService *qrcode.QRService, validator *utils.Validator) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		qrService:    qrService,
		validator:    validator,
	}
}

// ListActive is the public home listing.
func (h *EventHandler) ListActive(c *fiber.Ctx) error {
	events, err := h.eventService.ListActive(c.UserContext())
	if err != nil {
		return internalError(c, "Failed to load events")
	}
	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}

// ListAll is the admin dashboard.
func (h *EventHandler) ListAll(c *fiber.Ctx) error {
	events, err := h.eventService.ListAll(c.UserContext())
	if err != nil {
		return internalError(c, "Failed to load events")
	}
	return c.JSON(models.SuccessResponse(events, "Events retrieved successfully"))
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var req models.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	event, err := h.eventService.Create(c.UserContext(), middleware.AdminID(c), req)
	if err != nil {
		return internalError(c, "Failed to create event: "+err.Error())
	}

	resp := models.SuccessResponse(event, "Event created successfully")
	resp.Redirect = controller.AfterEventCreated(event)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *EventHandler) GetEvent(c *fiber.Ctx) error {
	details, err := h.eventService.GetDetails(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.eventError(c, err)
	}
	return c.JSON(models.SuccessResponse(details, "Event retrieved successfully"))
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	var req models.UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	event, err := h.eventService.Update(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.eventError(c, err)
	}
	return c.JSON(models.SuccessResponse(event, "Event updated successfully"))
}

func (h *EventHandler) RegisterPhoto(c *fiber.Ctx) error {
	var req models.RegisterPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	photo, err := h.eventService.RegisterPhoto(c.UserContext(), c.Params("id"), req)
	if err != nil {
		return h.eventError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(photo, "Photo registered successfully"))
}

// GalleryQR renders the public gallery link of an event.
func (h *EventHandler) GalleryQR(c *fiber.Ctx) error {
	event, err := h.eventService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.eventError(c, err)
	}

	png, err := h.qrService.GalleryLink(event.ID, c.QueryInt("size", qrcode.DefaultSize))
	if err != nil {
		return internalError(c, "Failed to generate QR code")
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(png)
}

func (h *EventHandler) eventError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrEventNotFound) {
		return notFound(c, "Event not found", controller.AdminDashboardRoute)
	}
	return internalError(c, err.Error())
}
