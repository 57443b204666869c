package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 64
)

// Client is one websocket connection of an authenticated session.
type Client struct {
	ID            string
	UserID        string
	MarketplaceID string
	Conn          *websocket.Conn
	Send          chan []byte

	closeOnce sync.Once
}

func NewClient(conn *websocket.Conn, userID, marketplaceID string) *Client {
	return &Client{
		ID:            uuid.New().String(),
		UserID:        userID,
		MarketplaceID: marketplaceID,
		Conn:          conn,
		Send:          make(chan []byte, sendBuffer),
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Manager tracks connected clients and the rooms they joined. Rooms are
// keyed by listing id.
type Manager struct {
	mu      sync.RWMutex
	clients map[*Client]map[string]struct{}
	rooms   map[string]map[*Client]struct{}
	log     *zap.Logger
}

func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		clients: make(map[*Client]map[string]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		log:     log,
	}
}

func (m *Manager) Register(c *Client) {
	m.mu.Lock()
	m.clients[c] = make(map[string]struct{})
	m.mu.Unlock()
	m.log.Debug("client registered", zap.String("client", c.ID), zap.String("uid", c.UserID))
}

// Unregister removes c from every room and closes its send channel.
func (m *Manager) Unregister(c *Client) {
	m.mu.Lock()
	joined, ok := m.clients[c]
	if ok {
		for room := range joined {
			m.removeFromRoom(c, room)
		}
		delete(m.clients, c)
	}
	m.mu.Unlock()

	if ok {
		c.close()
		m.log.Debug("client unregistered", zap.String("client", c.ID), zap.String("uid", c.UserID))
	}
}

// Join reports false if c is not registered.
func (m *Manager) Join(c *Client, room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	joined, ok := m.clients[c]
	if !ok {
		return false
	}
	joined[room] = struct{}{}
	members, ok := m.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		m.rooms[room] = members
	}
	members[c] = struct{}{}
	return true
}

// Leave reports whether c was in room.
func (m *Manager) Leave(c *Client, room string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	joined, ok := m.clients[c]
	if !ok {
		return false
	}
	if _, in := joined[room]; !in {
		return false
	}
	delete(joined, room)
	m.removeFromRoom(c, room)
	return true
}

func (m *Manager) InRoom(c *Client, room string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.clients[c][room]
	return ok
}

func (m *Manager) RoomSize(room string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[room])
}

// must hold mu
func (m *Manager) removeFromRoom(c *Client, room string) {
	members := m.rooms[room]
	delete(members, c)
	if len(members) == 0 {
		delete(m.rooms, room)
	}
}

// Broadcast sends an event to every member of room. Members whose send
// buffer is full are disconnected.
func (m *Manager) Broadcast(room, event string, data interface{}) error {
	frame, err := Encode(event, data)
	if err != nil {
		return err
	}

	var slow []*Client
	m.mu.RLock()
	for c := range m.rooms[room] {
		select {
		case c.Send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range slow {
		m.log.Warn("dropping slow websocket client", zap.String("client", c.ID), zap.String("room", room))
		m.Unregister(c)
	}
	return nil
}

// SendTo queues an event for one client.
func (m *Manager) SendTo(c *Client, event string, data interface{}) error {
	frame, err := Encode(event, data)
	if err != nil {
		return err
	}
	m.mu.RLock()
	_, ok := m.clients[c]
	if ok {
		select {
		case c.Send <- frame:
		default:
		}
	}
	m.mu.RUnlock()
	return nil
}

func Encode(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// ReadPump feeds inbound frames to handle until the connection closes, then
// unregisters the client.
func (c *Client) ReadPump(m *Manager, handle func(*Client, []byte)) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				m.log.Info("websocket closed", zap.String("client", c.ID), zap.Error(err))
			}
			return
		}
		handle(c, message)
	}
}

// WritePump drains Send to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
