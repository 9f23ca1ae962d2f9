package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/koaestudio/koa-photos-backend/internal/models"
)

// notFound answers with 404 and, when redirect is set, the route the client
// should fall back to.
func notFound(c *fiber.Ctx, msg, redirect string) error {
	if redirect == "" {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(msg))
	}
	return c.Status(fiber.StatusNotFound).JSON(models.RedirectResponse(msg, redirect))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(msg))
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(msg))
}

// validationError turns validator output into one readable line.
func validationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return badRequest(c, fe.Field()+" is required")
		case "email":
			return badRequest(c, "Invalid email address")
		case "uuid":
			return badRequest(c, "Invalid photo id")
		case "payment_method":
			return badRequest(c, "Payment method must be online or offline")
		}
		return badRequest(c, "Invalid "+fe.Field())
	}
	return badRequest(c, err.Error())
}
