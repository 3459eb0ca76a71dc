package handlers

import (
	"catalog/internal/models"
	"catalog/internal/services"
	"catalog/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes. The write routes run
// behind guards, if any.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:productId", h.HandleGetProduct)
	productRoutes.Post("/", withGuards(guards, h.HandleCreateProduct)...)
	productRoutes.Put("/:productId", withGuards(guards, h.HandleUpdateProduct)...)
	productRoutes.Delete("/:productId", withGuards(guards, h.HandleDeleteProduct)...)
}

func withGuards(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	chain := make([]fiber.Handler, 0, len(guards)+1)
	chain = append(chain, guards...)
	return append(chain, h)
}

// HandleListProducts returns a page of products.
// Query: pageSize, pageIndex (positive integers) and category (substring
// of the category name, any case).
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	limit, skip := validation.Page(c.Query("pageSize"), c.Query("pageIndex"))
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Limit:    limit,
		Skip:     skip,
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}

	response := make([]models.ProductResponse, 0, len(products))
	for i := range products {
		response = append(response, products[i].Transform())
	}
	return c.JSON(response)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id := c.Params("productId")
	if !validation.IsValidID(id) {
		return errorJSON(c, fiber.StatusBadRequest, "productId is invalid")
	}

	product, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product.Transform())
}

// parseProduct validates the request body. It writes the 400 response
// itself and returns nil input when the body is rejected.
func parseProduct(c *fiber.Ctx) (*models.ProductInput, error) {
	in, fieldErrs, err := validation.ParseProduct(c.Body())
	if err != nil {
		log.Ctx(c.UserContext()).Debug().Err(err).Msg("rejected product body")
		return nil, errorJSON(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if !fieldErrs.Empty() {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fieldErrs.Map())
	}
	return in, nil
}

// HandleCreateProduct creates a product in an existing category.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	in, err := parseProduct(c)
	if in == nil {
		return err
	}

	product, err := h.service.CreateProduct(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}

	log.Ctx(c.UserContext()).Info().Str("product_id", product.ID).Msg("product created")
	return c.Status(fiber.StatusCreated).JSON(product.Transform())
}

// HandleUpdateProduct replaces a product and returns the stored result.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("productId")
	if !validation.IsValidID(id) {
		return errorJSON(c, fiber.StatusBadRequest, "productId is invalid")
	}

	in, err := parseProduct(c)
	if in == nil {
		return err
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err)
	}

	log.Ctx(c.UserContext()).Info().Str("product_id", id).Msg("product updated")
	return c.Status(fiber.StatusCreated).JSON(product.Transform())
}

// HandleDeleteProduct deletes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("productId")
	if !validation.IsValidID(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"productId": "productId is invalid"})
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	log.Ctx(c.UserContext()).Info().Str("product_id", id).Msg("product deleted")
	return c.JSON(fiber.Map{"message": "Deleted successfully"})
}
