package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"esekoir/internal/infrastructure/metrics"
	"esekoir/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Client is one WebSocket connection. A user may hold several (tabs, devices).
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan []byte, sendBuffer)}
}

// Manager tracks live connections and fans events out to them.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
	metrics    *metrics.Metrics
	// done is closed once the registration loop has stopped.
	done chan struct{}
}

func NewManager(m *metrics.Metrics) *Manager {
	if m == nil {
		m = metrics.Nop()
	}
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		metrics:    m,
		done:       make(chan struct{}),
	}
}

// Start runs the registration loop until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.add(client)
				logger.Debug("[ws] client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Debug("[ws] client unregistered: %s", client.UserID)

			case <-ctx.Done():
				m.closeAll()
				close(m.done)
				return
			}
		}
	}()
}

func (m *Manager) add(c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	set, ok := m.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[c.UserID] = set
	}
	set[c] = struct{}{}
}

func (m *Manager) remove(c *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	set, ok := m.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; ok {
		delete(set, c)
		close(c.Send)
	}
	if len(set) == 0 {
		delete(m.clients, c.UserID)
	}
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for userID, set := range m.clients {
		for c := range set {
			close(c.Send)
		}
		delete(m.clients, userID)
	}
}

// Join registers c, or reports false once the manager has stopped.
func (m *Manager) Join(c *Client) bool {
	select {
	case m.Register <- c:
		return true
	case <-m.done:
		return false
	}
}

// Leave unregisters c. It returns at once after shutdown, when closeAll
// has already dropped every client.
func (m *Manager) Leave(c *Client) {
	select {
	case m.Unregister <- c:
	case <-m.done:
	}
}

// reply queues payload for c only while c is still registered, so a
// client removed by Leave or shutdown never sees a send on its closed channel.
func (m *Manager) reply(c *Client, payload []byte) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if _, ok := m.clients[c.UserID][c]; !ok {
		return
	}
	select {
	case c.Send <- payload:
	default:
	}
}

// Connections returns how many sockets userID has open.
func (m *Manager) Connections(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

// Publish sends an event to every connection of userID. Slow clients whose
// buffer is full miss the event; they re-fetch on the next one.
func (m *Manager) Publish(userID string, event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("[ws] encode %s: %v", event.Type, err)
		return
	}
	m.metrics.EventsPublished.WithLabelValues(event.Type).Inc()

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	for c := range m.clients[userID] {
		select {
		case c.Send <- payload:
		default:
			logger.Warn("[ws] dropping %s for %s: send buffer full", event.Type, userID)
		}
	}
}

// ReadPump consumes client frames until the connection fails.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("[ws] read error for %s: %v", c.UserID, err)
			}
			return
		}
		if reply, ok := HandleClientFrame(message); ok {
			m.reply(c, reply)
		}
	}
}

// WritePump drains Send and keeps the connection alive with pings.
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
				logger.Warn("[ws] write error for %s: %v", c.UserID, err)
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
