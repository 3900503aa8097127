package handler

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/usecase"
	"greenloop/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

type checkoutItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkoutRequest struct {
	Items     []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
	AddressID string                `json:"address_id"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=shipped"`
}

// Checkout creates one order per cart item, each with its own seller chat.
func (h *OrderHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	items := make([]usecase.CheckoutItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	orders, err := h.orderUseCase.Checkout(c.Request().Context(), userID, usecase.CheckoutInput{
		Items:     items,
		AddressID: req.AddressID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, orders)
}

// UpdateStatus lets the seller move a confirmed order to shipped.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	orderID := c.Param("id")
	userID := c.Get("uid").(string)

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	order, err := h.orderUseCase.UpdateOrderStatus(c.Request().Context(), userID, orderID, req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID := c.Param("id")
	userID := c.Get("uid").(string)

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

// ListOrders returns the caller's orders, as buyer by default or as seller
// with ?role=seller.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID := c.Get("uid").(string)

	role := c.QueryParam("role")
	if role == "" {
		role = "buyer"
	}

	orders, err := h.orderUseCase.ListOrders(c.Request().Context(), userID, role)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}
