package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/search"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

var (
	clientSearchFields  = []string{"name", "email", "phone"}
	productSearchFields = []string{"name", "description", "category"}
)

// CatalogHandler serves the saved client and product lists
type CatalogHandler struct {
	store *services.Store
}

func NewCatalogHandler(store *services.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// writeResult answers with the saved entity. Persistence failures keep the
// in-memory change, so they are reported in a header instead of failing.
func writeResult(c *fiber.Ctx, status int, body interface{}, err error) error {
	if err != nil {
		if !ierr.IsPersistence(err) {
			return respondError(c, err)
		}
		c.Set("X-Persistence-Warning", ierr.UserMessage(err))
	}
	return c.Status(status).JSON(body)
}

// ListClients godoc
// @Summary List saved clients
// @Tags Clients
// @Produce json
// @Param q query string false "Search text"
// @Success 200 {array} models.Client
// @Router /clients [get]
func (h *CatalogHandler) ListClients(c *fiber.Ctx) error {
	return c.JSON(search.Filter(h.store.Clients(), clientSearchFields, c.Query("q")))
}

// CreateClient godoc
// @Summary Add a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param client body models.Client true "Client"
// @Success 201 {object} models.Client
// @Failure 400 {object} ErrorResponse
// @Router /clients [post]
func (h *CatalogHandler) CreateClient(c *fiber.Ctx) error {
	var req models.Client
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	client, err := h.store.AddClient(c.UserContext(), req)
	return writeResult(c, fiber.StatusCreated, client, err)
}

// UpdateClient godoc
// @Summary Replace a client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param client body models.Client true "Client"
// @Success 200 {object} models.Client
// @Failure 404 {object} ErrorResponse
// @Router /clients/{id} [put]
func (h *CatalogHandler) UpdateClient(c *fiber.Ctx) error {
	var req models.Client
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	client, err := h.store.EditClient(c.UserContext(), c.Params("id"), req)
	return writeResult(c, fiber.StatusOK, client, err)
}

// DeleteClient godoc
// @Summary Delete a client
// @Tags Clients
// @Param id path string true "Client ID"
// @Success 204
// @Router /clients/{id} [delete]
func (h *CatalogHandler) DeleteClient(c *fiber.Ctx) error {
	err := h.store.DeleteClient(c.UserContext(), c.Params("id"))
	if err != nil && !ierr.IsPersistence(err) {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListProducts godoc
// @Summary List catalog products
// @Tags Products
// @Produce json
// @Param q query string false "Search text"
// @Param category query string false "Exact category"
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products := h.store.Products()
	if category := c.Query("category"); category != "" {
		products = lo.Filter(products, func(p models.Product, _ int) bool { return p.Category == category })
	}
	return c.JSON(search.Filter(products, productSearchFields, c.Query("q")))
}

// ListCategories godoc
// @Summary List product categories
// @Tags Products
// @Produce json
// @Success 200 {array} string
// @Router /products/categories [get]
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(h.store.ProductCategories())
}

// CreateProduct godoc
// @Summary Add a product
// @Tags Products
// @Accept json
// @Produce json
// @Param product body models.ProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} ErrorResponse
// @Router /products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.store.AddProduct(c.UserContext(), productFromRequest(req))
	return writeResult(c, fiber.StatusCreated, product, err)
}

// UpdateProduct godoc
// @Summary Replace a product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.ProductRequest true "Product"
// @Success 200 {object} models.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [put]
func (h *CatalogHandler) UpdateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, err)
	}
	product, err := h.store.EditProduct(c.UserContext(), c.Params("id"), productFromRequest(req))
	return writeResult(c, fiber.StatusOK, product, err)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204
// @Router /products/{id} [delete]
func (h *CatalogHandler) DeleteProduct(c *fiber.Ctx) error {
	err := h.store.DeleteProduct(c.UserContext(), c.Params("id"))
	if err != nil && !ierr.IsPersistence(err) {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func productFromRequest(req models.ProductRequest) models.Product {
	return models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       models.Number(req.Price),
		Category:    req.Category,
	}
}
