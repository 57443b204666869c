package handler

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type TransactionHandler struct {
	transactionUseCase *usecase.TransactionUseCase
}

func NewTransactionHandler(transactionUseCase *usecase.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{transactionUseCase: transactionUseCase}
}

type createTransactionRequest struct {
	ListingID string `json:"ListingID" validate:"required"`
}

func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	tx, err := h.transactionUseCase.Create(c.Request().Context(), sessionOf(c), req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, tx)
}

func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	tx, err := h.transactionUseCase.Get(c.Request().Context(), sessionOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, tx)
}

func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	txs, err := h.transactionUseCase.List(c.Request().Context(), sessionOf(c), c.QueryParam("listing"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, txs)
}
