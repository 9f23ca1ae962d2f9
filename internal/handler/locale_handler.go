package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/locale"
	"github.com/koaestudio/koa-photos-backend/internal/middleware"
	"github.com/koaestudio/koa-photos-backend/internal/models"
	"github.com/koaestudio/koa-photos-backend/pkg/utils"
)

type LocaleHandler struct {
	locales   *locale.Provider
	validator *utils.Validator
}

func NewLocaleHandler(locales *locale.Provider, validator *utils.Validator) *LocaleHandler {
	return &LocaleHandler{
		locales:   locales,
		validator: validator,
	}
}

func (h *LocaleHandler) GetLocale(c *fiber.Ctx) error {
	store, err := h.locales.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load language")
	}
	return c.JSON(models.SuccessResponse(localeView(store), ""))
}

func (h *LocaleHandler) SetLocale(c *fiber.Ctx) error {
	var req models.SetLanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validator.Struct(req); err != nil {
		return validationError(c, err)
	}

	store, err := h.locales.For(c.UserContext(), middleware.VisitorID(c))
	if err != nil {
		return internalError(c, "Failed to load language")
	}

	lang, err := store.SetLanguage(c.UserContext(), req.Language)
	if errors.Is(err, locale.ErrUnsupportedLanguage) {
		return badRequest(c, "Unsupported language")
	}
	if err != nil {
		return internalError(c, "Failed to save language")
	}

	c.Set(fiber.HeaderContentLanguage, string(lang))
	return c.JSON(models.SuccessResponse(localeView(store), "Language updated"))
}

func localeView(store *locale.Store) models.LocaleView {
	return models.LocaleView{
		Language: string(store.Language()),
		Strings:  store.Strings(),
	}
}
