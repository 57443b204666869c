package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupChatRouter(api *echo.Group, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := api.Group("/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.GET("/:listing/messages", chatHandler.GetMessages)
	chats.POST("/:listing/messages", chatHandler.SendMessage)
}
