package handler

import (
	"net/http"
	"strings"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	ws "reuseu/internal/infrastructure/websocket"
	"reuseu/internal/usecase"
	"reuseu/pkg/response"
)

type WebSocketHandler struct {
	sessions   *usecase.SessionUseCase
	manager    *ws.Manager
	dispatcher *ws.Dispatcher
	upgrader   gorillaws.Upgrader
	log        *zap.Logger
}

// NewWebSocketHandler accepts upgrades from the given origins. An empty
// list, or "*", allows any origin.
func NewWebSocketHandler(sessions *usecase.SessionUseCase, manager *ws.Manager, dispatcher *ws.Dispatcher, origins []string, log *zap.Logger) *WebSocketHandler {
	if log == nil {
		log = zap.NewNop()
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}
	return &WebSocketHandler{
		sessions:   sessions,
		manager:    manager,
		dispatcher: dispatcher,
		log:        log,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed["*"] || allowed[origin]
			},
		},
	}
}

// HandleWebSocket authenticates the ?token= query value before upgrading.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	s, err := h.sessions.BuildFromToken(c.Request().Context(), c.QueryParam("token"))
	if err != nil {
		return response.Error(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.String("uid", s.SubjectID), zap.Error(err))
		return nil
	}

	client := ws.NewClient(conn, s.SubjectID, s.MarketplaceID)
	h.manager.Register(client)
	h.log.Info("websocket connected", zap.String("uid", s.SubjectID), zap.String("client", client.ID))

	go client.WritePump()
	go client.ReadPump(h.manager, h.dispatcher.Handle)
	return nil
}
