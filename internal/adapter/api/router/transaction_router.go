package router

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/handler"
	"reuseu/internal/adapter/api/middleware"
)

func SetupTransactionRouter(api *echo.Group, transactionHandler *handler.TransactionHandler, authMiddleware *middleware.AuthMiddleware) {
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate)

	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
}
