package http

import (
	"context"
	"sync"

	"github.com/fredcamaral/vidspot/internal/domain/entities"
)

// Connection represents a WebSocket connection
type Connection struct {
	ID   string
	Send chan entities.SessionEvent
}

// ConnectionManager fans session events out to the connected editor tabs
type ConnectionManager struct {
	connections map[string]*Connection
	broadcast   chan entities.SessionEvent
	register    chan *Connection
	unregister  chan string
	mu          sync.RWMutex
	done        chan struct{}
	closeOnce   sync.Once
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*Connection),
		broadcast:   make(chan entities.SessionEvent, 256),
		register:    make(chan *Connection),
		unregister:  make(chan string),
		done:        make(chan struct{}),
	}
}

// Run starts the connection manager main loop
func (cm *ConnectionManager) Run(ctx context.Context) {
	defer cm.closeOnce.Do(func() { close(cm.done) })

	for {
		select {
		case <-ctx.Done():
			cm.CloseAll()
			return

		case conn := <-cm.register:
			cm.mu.Lock()
			if old, ok := cm.connections[conn.ID]; ok {
				close(old.Send)
			}
			cm.connections[conn.ID] = conn
			cm.mu.Unlock()

		case id := <-cm.unregister:
			cm.mu.Lock()
			if conn, ok := cm.connections[id]; ok {
				delete(cm.connections, id)
				close(conn.Send)
			}
			cm.mu.Unlock()

		case event := <-cm.broadcast:
			cm.mu.Lock()
			for id, conn := range cm.connections {
				select {
				case conn.Send <- event:
				default:
					// Client too slow, close connection
					close(conn.Send)
					delete(cm.connections, id)
				}
			}
			// Tabs of a closed session are disconnected once they got the notice
			if event.Type == entities.EventTypeSessionClosed {
				cm.closeAllLocked()
			}
			cm.mu.Unlock()
		}
	}
}

// RegisterConnection adds a new connection
func (cm *ConnectionManager) RegisterConnection(conn *Connection) {
	select {
	case cm.register <- conn:
	case <-cm.done:
		close(conn.Send)
	}
}

// Unregister removes a connection
func (cm *ConnectionManager) Unregister(connID string) {
	select {
	case cm.unregister <- connID:
	case <-cm.done:
	}
}

// Broadcast sends an event to all connections
func (cm *ConnectionManager) Broadcast(event entities.SessionEvent) {
	select {
	case cm.broadcast <- event:
	case <-cm.done:
		// Manager is shutting down
	}
}

// Count returns the number of registered connections
func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}

// CloseAll closes all connections
func (cm *ConnectionManager) CloseAll() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.closeAllLocked()
}

func (cm *ConnectionManager) closeAllLocked() {
	for id, conn := range cm.connections {
		close(conn.Send)
		delete(cm.connections, id)
	}
}
