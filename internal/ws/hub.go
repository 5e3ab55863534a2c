package ws

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type registration struct {
	conn   *websocket.Conn
	userID string
}

// Hub tracks websocket connections per user so schedule notifications can be
// pushed only to the staff member they concern.
type Hub struct {
	clients    map[*websocket.Conn]string // conn -> user id
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte

	register chan registration
	logger   *zap.Logger
	mutex    sync.Mutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]string),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		register:   make(chan registration),
		logger:     logger,
	}
}

// RegisterUser associates a connection with a user id.
func (h *Hub) RegisterUser(conn *websocket.Conn, userID string) {
	h.register <- registration{conn: conn, userID: userID}
}

func (h *Hub) Run() {
	for {
		select {
		case reg := <-h.register:
			h.mutex.Lock()
			h.clients[reg.conn] = reg.userID
			h.mutex.Unlock()
			h.logger.Info("ws client connected", zap.String("user_id", reg.userID))

		case conn := <-h.Register:
			h.mutex.Lock()
			h.clients[conn] = ""
			h.mutex.Unlock()

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// SendToUsers delivers a message to every connection of the given users.
func (h *Hub) SendToUsers(userIDs []string, message []byte) {
	targets := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		targets[id] = true
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	for conn, userID := range h.clients {
		if !targets[userID] {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
