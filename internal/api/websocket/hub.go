package websocket

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/openrobotcore/OpenRobotCore/internal/auth"
)

// CellStatusProvider interface for getting current cell status
type CellStatusProvider interface {
	GetStatus() any
}

// Hub maintains active WebSocket clients and broadcasts messages
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Inbound messages to broadcast
	broadcast chan Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Logger
	logger *zap.Logger

	//Auth Service
	authService *auth.AuthService

	// Cell status provider (optional)
	cellStatusProvider CellStatusProvider
}

// NewHub creates a new Hub instance
func NewHub(logger *zap.Logger, authService *auth.AuthService) *Hub {
	return &Hub{
		broadcast:   make(chan Message, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		clients:     make(map[*Client]bool),
		logger:      logger,
		authService: authService,
	}
}

// SetCellStatusProvider sets the cell status provider
func (h *Hub) SetCellStatusProvider(provider CellStatusProvider) {
	h.cellStatusProvider = provider
}

// Run starts the hub's main event loop
func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Info("WebSocket client registered",
				zap.String("remote_addr", client.conn.RemoteAddr().String()),
				zap.Int("total_clients", len(h.clients)))

			// New clients start with a cell status snapshot
			if h.cellStatusProvider != nil {
				msg := NewMessage(MessageTypeCellState, h.cellStatusProvider.GetStatus())
				if data, err := json.Marshal(msg); err == nil {
					select {
					case client.send <- data:
					default:
					}
				}
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Info("WebSocket client unregistered",
					zap.String("remote_addr", client.conn.RemoteAddr().String()),
					zap.Int("total_clients", len(h.clients)))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message)
			if err != nil {
				h.logger.Error("Failed to marshal broadcast message",
					zap.Error(err))
				continue
			}

			// Deliver under the read lock; evicting a stalled client
			// mutates the map and needs the write lock.
			var stalled []*Client
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- data:
					// Message sent successfully
				default:
					stalled = append(stalled, client)
				}
			}
			h.mu.RUnlock()

			if len(stalled) == 0 {
				continue
			}
			h.mu.Lock()
			for _, client := range stalled {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					close(client.send)
					h.logger.Warn("Client send buffer full, unregistering",
						zap.String("remote_addr", client.conn.RemoteAddr().String()))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(msg Message) {
	select {
	case h.broadcast <- msg:
		// Message queued for broadcast
	default:
		h.logger.Warn("Hub broadcast channel full, message dropped",
			zap.String("message_type", string(msg.Type)))
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
