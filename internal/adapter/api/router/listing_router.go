package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupListingRouter(api *echo.Group, listingHandler *handler.ListingHandler, adminHandler *handler.AdminHandler, authMiddleware *middleware.AuthMiddleware) {
	listings := api.Group("/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.GET("", listingHandler.ListListings)
	listings.POST("", listingHandler.CreateListing)
	listings.GET("/:id", listingHandler.GetListing)
	listings.PUT("/:id", listingHandler.UpdateListing)
	listings.DELETE("/:id", listingHandler.DeleteListing)
	listings.POST("/:id/images", listingHandler.AddImages)
	listings.GET("/:id/images/:n", listingHandler.GetImage)

	listings.POST("/report/:id", adminHandler.ReportListing)
	api.POST("/report/listing/:id", adminHandler.ReportListing, authMiddleware.Authenticate)
}
