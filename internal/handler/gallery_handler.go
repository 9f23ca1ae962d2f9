package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/selection"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
	selections     *selection.Provider
	validator      *utils.Validator
}

func NewGalleryHandler(galleryService *service.GalleryService, selections *selection.Provider, validator *utils.Validator) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		selections:     selections,
		validator:      validator,
	}
}

func (h *GalleryHandler) GetGallery(c *fiber.Ctx) error {
	view, err := h.galleryService.Load(c.UserContext(), c.Params("id"), middleware.VisitorID(c))
	if err != nil {
		return h.galleryError(c, err)
	}
	return c.JSON(models.SuccessResponse(view, "Gallery retrieved successfully"))
}

func (h *GalleryHandler) ToggleAll(c *fiber.Ctx) error {
	summary, err := h.galleryService.ToggleAll(c.UserContext(), c.Params("id"), middleware.VisitorID(c))
	if err != nil {
		return h.galleryError(c, err)
	}
	return c.JSON(models.SuccessResponse(summary, "Selection updated"))
}

func (h *GalleryHandler) GetSelection(c *fiber.Ctx) error {
	sel, err := h.selections.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load selection")
	}
	return c.JSON(models.SuccessResponse(selectionView(sel), "Selection retrieved successfully"))
}

func (h *GalleryHandler) TogglePhoto(c *fiber.Ctx) error {
	var req models.ToggleSelectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	sel, err := h.selections.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load selection")
	}
	if _, err := sel.Toggle(c.UserContext(), req.PhotoID); err != nil {
		return internalError(c, "Failed to save selection")
	}
	return c.JSON(models.SuccessResponse(selectionView(sel), "Selection updated"))
}

func (h *GalleryHandler) ReplaceSelection(c *fiber.Ctx) error {
	var req models.SelectAllRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	sel, err := h.selections.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load selection")
	}
	if err := sel.SelectAll(c.UserContext(), req.PhotoIDs); err != nil {
		return internalError(c, "Failed to save selection")
	}
	return c.JSON(models.SuccessResponse(selectionView(sel), "Selection updated"))
}

func (h *GalleryHandler) ClearSelection(c *fiber.Ctx) error {
	sel, err := h.selections.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load selection")
	}
	if err := sel.Clear(c.UserContext()); err != nil {
		return internalError(c, "Failed to clear selection")
	}
	return c.JSON(models.SuccessResponse(selectionView(sel), "Selection cleared"))
}

func (h *GalleryHandler) galleryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrEventNotFound) {
		return notFound(c, "Event not found or access denied", controller.HomeRoute)
	}
	return internalError(c, "Failed to load event")
}

func selectionView(sel *selection.Store) models.SelectionView {
	return models.SelectionView{
		PhotoIDs: sel.IDs(),
		Count:    sel.Count(),
	}
}
