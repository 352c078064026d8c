package ws

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// ClientConnection wraps a WebSocket connection with health metadata. The
// write mutex serializes frames from the read loop, the bridge and the ping
// routine, which all write concurrently.
type ClientConnection struct {
	Conn       *websocket.Conn
	UserID     uint
	LastPong   time.Time
	PingTicker *time.Ticker
	CloseChan  chan struct{}

	writeMux sync.Mutex
}

func (c *ClientConnection) write(data []byte) error {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages the WebSocket connections of this process and which chat
// rooms each of them has joined. Room membership here is local delivery
// state only; cross-process fan-out happens on the message bus.
type Hub struct {
	clients    map[uint]*ClientConnection
	rooms      map[uint]map[uint]struct{}
	clientsMux sync.RWMutex

	pingInterval time.Duration
	pongTimeout  time.Duration
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	hub := &Hub{
		clients:      make(map[uint]*ClientConnection),
		rooms:        make(map[uint]map[uint]struct{}),
		pingInterval: 30 * time.Second,
		pongTimeout:  90 * time.Second,
	}

	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring. A second
// connection for the same user replaces the first.
func (h *Hub) Register(userID uint, conn *websocket.Conn) {
	clientConn := &ClientConnection{
		Conn:       conn,
		UserID:     userID,
		LastPong:   time.Now(),
		PingTicker: time.NewTicker(h.pingInterval),
		CloseChan:  make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.clientsMux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		conn.SetReadDeadline(time.Now().Add(h.pongTimeout))
		return nil
	})
	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	if previous, exists := h.clients[userID]; exists {
		previous.PingTicker.Stop()
		close(previous.CloseChan)
	}
	h.clients[userID] = clientConn
	total := len(h.clients)
	h.clientsMux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %d connected to hub (total: %d)", userID, total)
}

// Unregister removes a client connection and its room subscriptions.
func (h *Hub) Unregister(userID uint) {
	h.clientsMux.Lock()
	if client, exists := h.clients[userID]; exists {
		client.PingTicker.Stop()
		close(client.CloseChan)
	}
	delete(h.clients, userID)
	for chatID, members := range h.rooms {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, chatID)
		}
	}
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %d disconnected from hub (total: %d)", userID, count)
}

// JoinRoom subscribes a connected user to a chat room's local deliveries.
func (h *Hub) JoinRoom(userID, chatID uint) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	if _, exists := h.clients[userID]; !exists {
		return
	}
	if h.rooms[chatID] == nil {
		h.rooms[chatID] = make(map[uint]struct{})
	}
	h.rooms[chatID][userID] = struct{}{}
}

// IsOnline checks if a user is connected to this process.
func (h *Hub) IsOnline(userID uint) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	_, exists := h.clients[userID]
	return exists
}

// SendToUser delivers raw frame data to one locally connected user.
func (h *Hub) SendToUser(userID uint, data []byte) {
	h.clientsMux.RLock()
	clientConn, exists := h.clients[userID]
	h.clientsMux.RUnlock()
	if !exists {
		return
	}

	if err := clientConn.write(data); err != nil {
		log.Printf("Error sending to user %d: %v", userID, err)
		h.Unregister(userID)
	}
}

// SendToRoom delivers raw frame data to every local member of a chat room.
func (h *Hub) SendToRoom(chatID uint, data []byte) {
	h.clientsMux.RLock()
	conns := make([]*ClientConnection, 0, len(h.rooms[chatID]))
	for userID := range h.rooms[chatID] {
		if clientConn, exists := h.clients[userID]; exists {
			conns = append(conns, clientConn)
		}
	}
	h.clientsMux.RUnlock()

	for _, clientConn := range conns {
		if err := clientConn.write(data); err != nil {
			log.Printf("Error sending to user %d: %v", clientConn.UserID, err)
			h.Unregister(clientConn.UserID)
		}
	}
}

// RoomMembers returns the user IDs subscribed to a room on this process.
func (h *Hub) RoomMembers(chatID uint) []uint {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	members := make([]uint, 0, len(h.rooms[chatID]))
	for userID := range h.rooms[chatID] {
		members = append(members, userID)
	}
	return members
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// pingRoutine sends periodic ping frames to keep the connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			client.writeMux.Lock()
			err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second))
			client.writeMux.Unlock()
			if err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker removes connections that stopped answering pings
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.clientsMux.RLock()
		deadConnections := make([]uint, 0)
		now := time.Now()
		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.clientsMux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %d (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}
