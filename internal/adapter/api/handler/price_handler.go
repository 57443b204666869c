package handler

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type PriceHandler struct {
	priceUseCase *usecase.PriceUseCase
}

func NewPriceHandler(priceUseCase *usecase.PriceUseCase) *PriceHandler {
	return &PriceHandler{priceUseCase: priceUseCase}
}

func (h *PriceHandler) SuggestPrice(c echo.Context) error {
	var req usecase.PriceInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	r, err := h.priceUseCase.Suggest(c.Request().Context(), sessionOf(c), req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, r)
}
