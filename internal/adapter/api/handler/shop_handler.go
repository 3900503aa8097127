package handler

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/domain/entity"
	"greenloop/internal/usecase"
	"greenloop/pkg/response"
)

type ShopHandler struct {
	shopUseCase *usecase.ShopUseCase
}

func NewShopHandler(shopUseCase *usecase.ShopUseCase) *ShopHandler {
	return &ShopHandler{
		shopUseCase: shopUseCase,
	}
}

type createShopRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type addProductRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	Materials   []string `json:"materials"`
	EcoBadges   []string `json:"eco_badges"`
	Images      []struct {
		URL          string `json:"url" validate:"required,url"`
		DisplayOrder int    `json:"display_order"`
	} `json:"images"`
}

type setShopStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive pending suspended"`
}

func (h *ShopHandler) CreateShop(c echo.Context) error {
	var req createShopRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	shop, err := h.shopUseCase.CreateShop(c.Request().Context(), userID, req.Name, req.Description)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, shop)
}

func (h *ShopHandler) GetShop(c echo.Context) error {
	shop, err := h.shopUseCase.GetShop(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shop)
}

// AddProduct creates a product in the caller's shop. This is the activity
// that wakes a dormant or inactive shop.
func (h *ShopHandler) AddProduct(c echo.Context) error {
	var req addProductRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	images := make([]entity.ProductImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, entity.ProductImage{
			URL:          img.URL,
			DisplayOrder: img.DisplayOrder,
		})
	}

	product, err := h.shopUseCase.AddProduct(c.Request().Context(), userID, usecase.AddProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Materials:   req.Materials,
		EcoBadges:   req.EcoBadges,
		Images:      images,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

// SetStatus is the admin override for a shop's lifecycle status.
func (h *ShopHandler) SetStatus(c echo.Context) error {
	shopID := c.Param("id")

	var req setShopStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	shop, err := h.shopUseCase.AdminSetStatus(c.Request().Context(), shopID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, shop)
}
