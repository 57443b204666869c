package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"reuseu/internal/domain/entity"
	"reuseu/internal/infrastructure/ratelimit"
	"reuseu/pkg/errors"
)

const (
	EventJoin           = "join"
	EventLeave          = "leave"
	EventSendMessage    = "send_message"
	EventUserJoined     = "user_joined"
	EventUserLeft       = "user_left"
	EventReceiveMessage = "receive_message"
	EventError          = "error"

	maxChatMessage = 2000
)

type RoomData struct {
	Room string `json:"room"`
}

type SendMessageData struct {
	Room    string `json:"room"`
	Message string `json:"message"`
}

type PresenceData struct {
	Room string `json:"room"`
	User string `json:"user"`
}

type ReceiveMessageData struct {
	Room      string `json:"room"`
	Message   string `json:"message"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RoomAuthorizer decides whether a session may join a listing's room.
type RoomAuthorizer interface {
	AuthorizeRoom(ctx context.Context, session entity.Session, listingID string) error
}

// Dispatcher handles inbound events of connected clients.
type Dispatcher struct {
	manager *Manager
	rooms   RoomAuthorizer
	limiter *ratelimit.RateLimiter
	log     *zap.Logger
	timeout time.Duration
}

func NewDispatcher(manager *Manager, rooms RoomAuthorizer, limiter *ratelimit.RateLimiter, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		manager: manager,
		rooms:   rooms,
		limiter: limiter,
		log:     log,
		timeout: 5 * time.Second,
	}
}

func (d *Dispatcher) Handle(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		d.fail(c, errors.Validation("Frame is not valid JSON"))
		return
	}

	var err error
	switch env.Event {
	case EventJoin:
		err = d.join(c, env.Data)
	case EventLeave:
		err = d.leave(c, env.Data)
	case EventSendMessage:
		err = d.send(c, env.Data)
	default:
		err = errors.Validation("Unknown event " + env.Event)
	}
	if err != nil {
		d.fail(c, err)
	}
}

func (d *Dispatcher) join(c *Client, data json.RawMessage) error {
	var in RoomData
	if err := decodeRoom(data, &in); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	session := entity.Session{SubjectID: c.UserID, MarketplaceID: c.MarketplaceID}
	if err := d.rooms.AuthorizeRoom(ctx, session, in.Room); err != nil {
		return err
	}

	d.manager.Join(c, in.Room)
	return d.manager.Broadcast(in.Room, EventUserJoined, PresenceData{Room: in.Room, User: c.UserID})
}

func (d *Dispatcher) leave(c *Client, data json.RawMessage) error {
	var in RoomData
	if err := decodeRoom(data, &in); err != nil {
		return err
	}
	if !d.manager.Leave(c, in.Room) {
		return nil
	}
	if err := d.manager.SendTo(c, EventUserLeft, PresenceData{Room: in.Room, User: c.UserID}); err != nil {
		return err
	}
	return d.manager.Broadcast(in.Room, EventUserLeft, PresenceData{Room: in.Room, User: c.UserID})
}

func (d *Dispatcher) send(c *Client, data json.RawMessage) error {
	var in SendMessageData
	if len(data) == 0 || json.Unmarshal(data, &in) != nil {
		return errors.Validation("send_message needs room and message")
	}
	in.Room = strings.TrimSpace(in.Room)
	if in.Room == "" || strings.TrimSpace(in.Message) == "" {
		return errors.Validation("send_message needs room and message")
	}
	if len(in.Message) > maxChatMessage {
		return errors.Validation("Message is too long")
	}
	if !d.manager.InRoom(c, in.Room) {
		return errors.Forbidden("Join the room before sending to it", nil)
	}
	if d.limiter != nil {
		if ok, _ := d.limiter.Allow(c.UserID); !ok {
			return errors.TooManyRequests("Slow down")
		}
	}

	return d.manager.Broadcast(in.Room, EventReceiveMessage, ReceiveMessageData{
		Room:      in.Room,
		Message:   in.Message,
		Sender:    c.UserID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (d *Dispatcher) fail(c *Client, err error) {
	code := errors.KindOf(err)
	msg := "An unexpected error occurred"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && code != errors.CodeUpstreamFailure {
		msg = appErr.Message
	} else {
		d.log.Error("websocket event failed", zap.String("uid", c.UserID), zap.Error(err))
	}
	_ = d.manager.SendTo(c, EventError, ErrorData{Code: code, Message: msg})
}

func decodeRoom(data json.RawMessage, in *RoomData) error {
	if len(data) == 0 || json.Unmarshal(data, in) != nil {
		return errors.Validation("Event needs a room")
	}
	in.Room = strings.TrimSpace(in.Room)
	if in.Room == "" {
		return errors.Validation("Event needs a room")
	}
	return nil
}
