package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/controller"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/internal/service"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

const DownloadTokenHeader = "X-Download-Token"

// InvalidPasswordMessage is the only feedback a wrong password gets.
const InvalidPasswordMessage = "Invalid password. Please contact the photographer."

type DownloadHandler struct {
	downloadService *service.DownloadService
	validator       *utils.Validator
}

func NewDownloadHandler(downloadService *service.DownloadService, validator *utils.Validator) *DownloadHandler {
	return &DownloadHandler{
		downloadService: downloadService,
		validator:       validator,
	}
}

func (h *DownloadHandler) GetDownload(c *fiber.Ctx) error {
	view, err := h.downloadService.Open(c.UserContext(), c.Params("orderId"))
	if err != nil {
		return h.downloadError(c, err)
	}
	return c.JSON(models.SuccessResponse(view, ""))
}

func (h *DownloadHandler) Unlock(c *fiber.Ctx) error {
	var req models.UnlockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	view, err := h.downloadService.Unlock(c.UserContext(), c.Params("orderId"), req.Password)
	if err != nil {
		return h.downloadError(c, err)
	}
	return c.JSON(models.SuccessResponse(view, "Photos unlocked"))
}

// DownloadPhoto logs the download and redirects to the full-resolution file.
func (h *DownloadHandler) DownloadPhoto(c *fiber.Ctx) error {
	link, err := h.downloadService.Photo(c.UserContext(), c.Params("orderId"), c.Params("photoId"), downloadToken(c))
	if err != nil {
		return h.downloadError(c, err)
	}
	return c.Redirect(link.URL, fiber.StatusFound)
}

func (h *DownloadHandler) DownloadAll(c *fiber.Ctx) error {
	links, err := h.downloadService.All(c.UserContext(), c.Params("orderId"), downloadToken(c))
	if err != nil {
		return h.downloadError(c, err)
	}
	return c.JSON(models.SuccessResponse(links, ""))
}

func (h *DownloadHandler) downloadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrOrderNotFound):
		return notFound(c, "Order not found", "")
	case errors.Is(err, service.ErrInvalidPassword):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(InvalidPasswordMessage))
	case errors.Is(err, service.ErrDownloadLocked):
		return c.Status(fiber.StatusForbidden).JSON(models.RedirectResponse("Download is locked", controller.DownloadRoute(c.Params("orderId"))))
	case errors.Is(err, service.ErrPhotoNotInOrder), errors.Is(err, service.ErrPhotoNotFound):
		return notFound(c, "Photo not found", "")
	}
	return internalError(c, err.Error())
}

func downloadToken(c *fiber.Ctx) string {
	if token := c.Get(DownloadTokenHeader); token != "" {
		return token
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	return strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
}
