package handlers

import (
	"errors"
	"strings"

	"catalog/internal/errs"
	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes registers the category routes. Creation runs behind
// guards, if any.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:categoryId", h.HandleGetCategory)
	categoryRoutes.Post("/", withGuards(guards, h.HandleCreateCategory)...)
}

// CategoryRequest is the body accepted by HandleCreateCategory.
type CategoryRequest struct {
	Name string `json:"name"`
}

// HandleListCategories returns every category.
func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	response := make([]*models.CategoryResponse, 0, len(categories))
	for i := range categories {
		response = append(response, categories[i].Transform())
	}
	return c.JSON(response)
}

// HandleGetCategory returns a single category.
func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	id := c.Params("categoryId")
	if !validation.IsValidID(id) {
		return errorJSON(c, fiber.StatusBadRequest, "categoryId is invalid")
	}

	category, err := h.service.GetCategory(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category.Transform())
}

// HandleCreateCategory creates a category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req CategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"name": "name is required"})
	}

	category, err := h.service.CreateCategory(c.UserContext(), name)
	if errors.Is(err, errs.ErrConstraint) {
		return errorJSON(c, fiber.StatusConflict, "Category already exists")
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category.Transform())
}
