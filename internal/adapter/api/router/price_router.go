package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupPriceRouter(api *echo.Group, priceHandler *handler.PriceHandler, authMiddleware *middleware.AuthMiddleware) {
	api.POST("/ai_price_fill", priceHandler.SuggestPrice, authMiddleware.Authenticate)
}
