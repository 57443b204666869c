package handler

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/adapter/api/middleware"
	"reuseu/internal/domain/entity"
	"reuseu/internal/usecase"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Account     *AccountHandler
	Listing     *ListingHandler
	Review      *ReviewHandler
	Report      *AdminHandler
	Chat        *ChatHandler
	Transaction *TransactionHandler
	Price       *PriceHandler
	WebSocket   *WebSocketHandler
}

type UseCases struct {
	Accounts     *usecase.AccountUseCase
	Listings     *usecase.ListingUseCase
	Reviews      *usecase.ReviewUseCase
	Reports      *usecase.ReportUseCase
	Chats        *usecase.ChatUseCase
	Transactions *usecase.TransactionUseCase
	Prices       *usecase.PriceUseCase
}

func Setup(uc UseCases, ws *WebSocketHandler) *Handlers {
	return &Handlers{
		Health:      NewHealthHandler(),
		Account:     NewAccountHandler(uc.Accounts),
		Listing:     NewListingHandler(uc.Listings),
		Review:      NewReviewHandler(uc.Reviews),
		Report:      NewAdminHandler(uc.Reports),
		Chat:        NewChatHandler(uc.Chats),
		Transaction: NewTransactionHandler(uc.Transactions),
		Price:       NewPriceHandler(uc.Prices),
		WebSocket:   ws,
	}
}

func sessionOf(c echo.Context) entity.Session {
	return middleware.SessionFrom(c)
}
