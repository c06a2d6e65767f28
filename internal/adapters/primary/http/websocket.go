package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fredcamaral/vidspot/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/vidspot/internal/domain/entities"
	"github.com/fredcamaral/vidspot/internal/domain/ports"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outgoing events buffered per client
	sendBuffer = 256
)

// Client message types sent by the editing UI
const (
	MessageTimeUpdate      = "timeupdate"
	MessageDurationChange  = "durationchange"
	MessagePlay            = "play"
	MessagePause           = "pause"
	MessageResizeContainer = "resize_container"
	MessageOverlayClick    = "overlay_click"
	MessageDrag            = "drag"
	MessageResizeStart     = "resize_start"
	MessageResize          = "resize"
	MessageResizeEnd       = "resize_end"
	MessageCTAClick        = "cta_click"
)

// createUpgrader creates a WebSocket upgrader with proper origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return s.isValidOrigin(r)
		},
	}
}

// WebSocketClient represents one editor tab
type WebSocketClient struct {
	id      string
	conn    *websocket.Conn
	send    chan entities.SessionEvent
	manager *ConnectionManager
	session ports.EditorSession
	monitor *monitoring.ActivityMonitor
	logger  *HTTPLogger
}

// ClientMessage represents a message received from the client
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type timeUpdatePayload struct {
	CurrentTime float64 `json:"currentTime"`
}

type durationPayload struct {
	Duration float64 `json:"duration"`
}

type containerPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type pointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type dragPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type resizePayload struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type hotspotRefPayload struct {
	ID string `json:"id"`
}

type ctaClickPayload struct {
	HotspotID string `json:"hotspotId"`
	CTAID     string `json:"ctaId"`
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("WebSocket upgrade failed: %v", err)
		return
	}

	client := &WebSocketClient{
		id:      uuid.New().String(),
		conn:    conn,
		send:    make(chan entities.SessionEvent, sendBuffer),
		manager: s.connMgr,
		session: s.session,
		monitor: s.monitor,
		logger:  s.logger.WithComponent("ws"),
	}

	// Queue the current state before the manager can close the channel
	client.send <- entities.NewSessionEvent(entities.EventTypeState, sanitizeView(s.session.View()))

	s.connMgr.RegisterConnection(&Connection{
		ID:   client.id,
		Send: client.send,
	})

	s.monitor.RecordWebSocketConnection()

	go client.writePump()
	go client.readPump()

	client.logger.Debug("Editor tab %s connected", client.id)
}

// readPump feeds UI events into the session, one message at a time
func (c *WebSocketClient) readPump() {
	defer func() {
		c.manager.Unregister(c.id)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket connection error: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn("Failed to parse client message: %v", err)
			c.monitor.RecordUIMessage(true)
			continue
		}

		err = c.handleMessage(msg)
		c.monitor.RecordUIMessage(err != nil)
		if err != nil {
			c.logger.Warn("Ignoring %s message from %s: %v", msg.Type, c.id, err)
		}
	}
}

// writePump pumps events to the WebSocket connection
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The channel has been closed
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage routes one UI event to the session
func (c *WebSocketClient) handleMessage(msg ClientMessage) error {
	switch msg.Type {
	case MessageTimeUpdate:
		var p timeUpdatePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.TimeUpdate(p.CurrentTime)

	case MessageDurationChange:
		var p durationPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.ObserveDuration(p.Duration)

	case MessagePlay:
		c.session.ObservePlay()

	case MessagePause:
		c.session.ObservePause()

	case MessageResizeContainer:
		var p containerPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.SetContainerSize(p.Width, p.Height)

	case MessageOverlayClick:
		var p pointPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.ClickOverlay(entities.Point{X: p.X, Y: p.Y})

	case MessageDrag:
		var p dragPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.Drag(p.ID, entities.Point{X: p.X, Y: p.Y})

	case MessageResizeStart:
		var p hotspotRefPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.BeginResize(p.ID)

	case MessageResize:
		var p resizePayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.Resize(p.ID, p.Width, p.Height)

	case MessageResizeEnd:
		var p hotspotRefPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.EndResize(p.ID)

	case MessageCTAClick:
		var p ctaClickPayload
		if err := decodePayload(msg, &p); err != nil {
			return err
		}
		c.session.ClickCTA(p.HotspotID, p.CTAID)

	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}

	return nil
}

// decodePayload unmarshals msg.Data, treating a missing payload as empty
func decodePayload(msg ClientMessage, dst interface{}) error {
	if len(msg.Data) == 0 || string(msg.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(msg.Data, dst); err != nil {
		return fmt.Errorf("decoding %s payload: %w", msg.Type, err)
	}
	return nil
}

// isValidOrigin accepts same-origin requests, loopback origins and the configured CORS origins
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Allow empty origin (same-origin requests)
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid origin URL %q: %v", origin, err)
		return false
	}

	if isLoopbackHost(originURL.Hostname()) {
		return true
	}

	for _, allowedOrigin := range s.config.GetCORSOrigins() {
		if allowedOrigin == "*" || originURL.String() == allowedOrigin {
			return true
		}

		// Support wildcard subdomains (*.example.com)
		if strings.HasPrefix(allowedOrigin, "*.") {
			domain := strings.TrimPrefix(allowedOrigin, "*")
			if strings.HasSuffix(originURL.Hostname(), domain) {
				return true
			}
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %s not in %v", originURL.String(), s.config.GetCORSOrigins())
	return false
}

func isLoopbackHost(hostname string) bool {
	switch hostname {
	case "localhost", "127.0.0.1", "::1":
		return true
	default:
		return false
	}
}
