package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, h *handler.Handlers, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupHealthRouter(e, h.Health)

	api := e.Group("/api")
	SetupAccountRouter(api, h.Account, authMiddleware)
	SetupListingRouter(api, h.Listing, h.Report, authMiddleware)
	SetupReviewRouter(api, h.Review, authMiddleware)
	SetupChatRouter(api, h.Chat, authMiddleware)
	SetupTransactionRouter(api, h.Transaction, authMiddleware)
	SetupPriceRouter(api, h.Price, authMiddleware)
	SetupAdminRouter(api, h.Report, authMiddleware, adminMiddleware)

	if h.WebSocket != nil {
		SetupWebSocketRouter(e, h.WebSocket)
	}
}
