package handler

import (
	"github.com/labstack/echo/v4"

	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUseCase: chatUseCase}
}

type sendMessageRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), sessionOf(c), c.Param("listing"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}
	msg, err := h.chatUseCase.PostMessage(c.Request().Context(), sessionOf(c), c.Param("listing"), req.Message)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, msg)
}
