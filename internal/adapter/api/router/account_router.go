package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupAccountRouter(api *echo.Group, accountHandler *handler.AccountHandler, authMiddleware *middleware.AuthMiddleware) {
	// Public
	api.GET("/accounts/:id/pfp", accountHandler.GetProfilePicture)

	// The account does not exist yet when it is created.
	api.POST("/accounts", accountHandler.CreateAccount, authMiddleware.Onboarding)

	accounts := api.Group("/accounts")
	accounts.Use(authMiddleware.Authenticate)
	accounts.GET("/:id", accountHandler.GetAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)
	accounts.GET("/:id/favorites", accountHandler.GetFavorites)
	accounts.PUT("/:id/favorites", accountHandler.SetFavorites)
	accounts.PUT("/:id/pfp", accountHandler.SetProfilePicture)
}
