package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupAdminRouter(api *echo.Group, adminHandler *handler.AdminHandler, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	admin := api.Group("/admin/report")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/all", adminHandler.ListReports)
	admin.GET("/audit", adminHandler.ListAudit)
	admin.POST("/delete", adminHandler.DeleteReportAndListing)
	admin.DELETE("/:id", adminHandler.DismissReport)
}
