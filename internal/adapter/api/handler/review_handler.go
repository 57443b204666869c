package handler

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/domain/entity"
	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{reviewUseCase: reviewUseCase}
}

type sellerRatingResponse struct {
	SellerID string   `json:"seller_id"`
	Average  *float64 `json:"average"`
	Count    int      `json:"count"`
}

// CreateReview takes the stored review shape as its body; the use case
// checks every field.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req entity.Review
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	review, err := h.reviewUseCase.Add(c.Request().Context(), sessionOf(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, review)
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	review, err := h.reviewUseCase.Get(c.Request().Context(), sessionOf(c), c.Param("listing"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, review)
}

func (h *ReviewHandler) ListReviews(c echo.Context) error {
	reviews, err := h.reviewUseCase.List(c.Request().Context(), sessionOf(c), c.QueryParam("seller"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reviews)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	if err := h.reviewUseCase.Delete(c.Request().Context(), sessionOf(c), c.Param("listing")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"message": "Review deleted"})
}

func (h *ReviewHandler) SellerRating(c echo.Context) error {
	sellerID := c.Param("id")
	avg, count, err := h.reviewUseCase.SellerRating(c.Request().Context(), sessionOf(c), sellerID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, sellerRatingResponse{SellerID: sellerID, Average: avg, Count: count})
}
