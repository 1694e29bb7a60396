package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// Websocket message types sent by the server.
const (
	MessageStage  = "stage"
	MessageLayout = "layout"
	MessageError  = "error"
)

const writeWait = 10 * time.Second

// StreamMessage is one server-to-client websocket frame.
type StreamMessage struct {
	Type   string              `json:"type"`
	Stage  *dungeon.StageEvent `json:"stage,omitempty"`
	Layout *export.LayoutJSON  `json:"layout,omitempty"`
	Error  string              `json:"error,omitempty"`
}

// handleWebSocketUpgrade upgrades GET /ws after the origin and connection checks.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	clientIP := getRealIP(r)

	if !s.connLimiter.TryAcquire(clientIP) {
		logger.Warning("WebSocket connection rejected - limit exceeded",
			"remote_addr", r.RemoteAddr,
			"client_ip", clientIP)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		logger.Warning("WebSocket upgrade failed", "client_ip", clientIP, "error", err)
		s.connLimiter.Release(clientIP)
		return
	}

	s.sessions.Add(1)
	go s.handleWebSocketConnection(conn, clientIP)
}

// handleWebSocketConnection serves one session: every text frame is a
// GenerateRequest answered by a stage frame per pipeline stage and a layout
// frame, or by a single error frame.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn, clientIP string) {
	done := make(chan struct{})
	defer func() {
		close(done)
		conn.Close()
		s.connLimiter.Release(clientIP)
		s.sessions.Done()
		logger.Info("WebSocket client disconnected", "client_ip", clientIP)
	}()

	logger.Info("WebSocket client connected", "client_ip", clientIP)
	conn.SetReadLimit(s.maxMessageSize())

	// Unblock ReadMessage when the server shuts down.
	go func() {
		select {
		case <-s.shutdown:
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warning("WebSocket read failed", "client_ip", clientIP, "error", err)
			}
			return
		}

		message = bytes.TrimSpace(message)
		if len(message) == 0 {
			continue
		}

		if err := s.serveStreamRequest(conn, message); err != nil {
			logger.Warning("WebSocket write failed", "client_ip", clientIP, "error", err)
			return
		}
	}
}

// serveStreamRequest answers one request frame. The returned error is a
// transport failure; request problems are reported to the client.
func (s *Server) serveStreamRequest(conn *websocket.Conn, message []byte) error {
	req := s.newRequest()
	if err := json.Unmarshal(message, &req); err != nil {
		return writeFrame(conn, StreamMessage{Type: MessageError, Error: "invalid request: " + err.Error()})
	}

	var writeErr error
	out, err := s.generate(req, func(ev dungeon.StageEvent) {
		if writeErr != nil {
			return
		}
		writeErr = writeFrame(conn, StreamMessage{Type: MessageStage, Stage: &ev})
	})
	if writeErr != nil {
		return writeErr
	}
	if err != nil {
		msg := err.Error()
		if !isClientError(err) {
			logger.Error("Layout generation failed", "error", err)
			msg = "failed to generate layout"
		}
		return writeFrame(conn, StreamMessage{Type: MessageError, Error: msg})
	}

	return writeFrame(conn, StreamMessage{Type: MessageLayout, Layout: &out})
}

func writeFrame(conn *websocket.Conn, msg StreamMessage) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
