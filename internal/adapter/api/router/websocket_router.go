package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
)

// SetupWebSocketRouter mounts /ws. The handler authenticates from the query
// string, so no auth middleware runs here.
func SetupWebSocketRouter(e *echo.Echo, wsHandler *handler.WebSocketHandler) {
	e.GET("/ws", wsHandler.HandleWebSocket)
}
