package handler

import (
	"github.com/labstack/echo/v4"

	"greenloop/internal/usecase"
	"greenloop/pkg/response"
	"greenloop/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Content   string `json:"content"`
}

type declinePromptRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), userID, usecase.CreateReviewInput{
		ProductID: req.ProductID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Content:   req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	reviewID := c.Param("id")
	userID := c.Get("uid").(string)

	if err := h.reviewUseCase.DeleteReview(c.Request().Context(), userID, reviewID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Review deleted"})
}

// PendingPrompts returns the caller's open review invitations.
func (h *ReviewHandler) PendingPrompts(c echo.Context) error {
	userID := c.Get("uid").(string)

	prompts, err := h.reviewUseCase.PendingPrompts(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, prompts)
}

// DeclinePrompt dismisses a review invitation without consuming eligibility.
func (h *ReviewHandler) DeclinePrompt(c echo.Context) error {
	var req declinePromptRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.reviewUseCase.DeclinePrompt(c.Request().Context(), userID, req.ProductID, req.OrderID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"message": "Prompt declined"})
}

func (h *ReviewHandler) ListProductReviews(c echo.Context) error {
	productID := c.Param("id")

	p := utils.GetPaginationParams(c, 20)

	reviews, total, err := h.reviewUseCase.ListProductReviews(c.Request().Context(), productID, p.PageSize, p.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, p.Page, p.PageSize)
}
