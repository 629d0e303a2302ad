package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/storefront/gateway/internal/core/ports"
)

// CatalogHandler serves the profile, order, user and product routes.
type CatalogHandler struct {
	service ports.CatalogService
}

func NewCatalogHandler(service ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

type createProductRequest struct {
	Name        string   `json:"name" validate:"notblank"`
	Description string   `json:"description"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	ImageKey    string   `json:"image_key"`
}

// Profile returns the calling customer's record without its password hash.
//
// @Summary      Current customer profile
// @Tags         front
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SuccessResponse{data=domain.FrontUser}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/front/profile [get]
func (h *CatalogHandler) Profile(c echo.Context) error {
	p, err := frontPrincipal(c)
	if err != nil {
		return err
	}
	user, err := h.service.Profile(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, user)
}

// FrontOrders lists the calling customer's orders.
//
// @Summary      Current customer orders
// @Tags         front
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SuccessResponse{data=[]domain.Order}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/front/orders [get]
func (h *CatalogHandler) FrontOrders(c echo.Context) error {
	p, err := frontPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.UserOrders(c.Request().Context(), p.UserID)
	if err != nil {
		return err
	}
	return ok(c, orders)
}

// AdminUsers lists every storefront customer.
//
// @Summary      List customers
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SuccessResponse{data=[]domain.FrontUser}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/admin/users [get]
func (h *CatalogHandler) AdminUsers(c echo.Context) error {
	users, err := h.service.FrontUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, users)
}

// AdminOrders lists every order.
//
// @Summary      List orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  SuccessResponse{data=[]domain.Order}
// @Failure      401  {object}  ErrorResponse
// @Router       /api/admin/orders [get]
func (h *CatalogHandler) AdminOrders(c echo.Context) error {
	orders, err := h.service.AllOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, orders)
}

// Products lists the active catalog. No authentication is required.
//
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  SuccessResponse{data=[]domain.Product}
// @Router       /api/products [get]
func (h *CatalogHandler) Products(c echo.Context) error {
	products, err := h.service.Products(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, products)
}

// CreateProduct adds a catalog entry on behalf of an admin.
//
// @Summary      Create a product
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product"
// @Success      200   {object}  SuccessResponse{data=domain.Product}
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /api/admin/products [post]
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	creator, err := adminPrincipal(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	product, err := h.service.CreateProduct(c.Request().Context(), creator, ports.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		ImageKey:    req.ImageKey,
	})
	if err != nil {
		return err
	}
	return ok(c, product)
}
