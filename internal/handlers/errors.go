package handlers

import (
	"errors"

	"catalog/internal/errs"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog/log"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgProductNotFound  = "Product not found"
	msgCategoryNotFound = "Category not found"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// respondError writes the response for a service error. Server-side
// failures are logged and answered with the bare status text.
func respondError(c *fiber.Ctx, err error) error {
	status := errs.Status(err)
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		return errorJSON(c, status, msgCategoryNotFound)
	case errors.Is(err, services.ErrProductNotFound):
		return errorJSON(c, status, msgProductNotFound)
	}

	if status >= fiber.StatusInternalServerError {
		log.Ctx(c.UserContext()).Error().Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Msg("request failed")
	}
	return errorJSON(c, status, utils.StatusMessage(status))
}
