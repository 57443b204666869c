package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupReviewRouter(api *echo.Group, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	reviews := api.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate)

	reviews.GET("", reviewHandler.ListReviews)
	reviews.POST("", reviewHandler.CreateReview)
	reviews.GET("/seller/:id/rating", reviewHandler.SellerRating)
	reviews.GET("/:listing", reviewHandler.GetReview)
	reviews.DELETE("/:listing", reviewHandler.DeleteReview)
}
