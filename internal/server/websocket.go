package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketExtractRequest is an extraction request via WebSocket. Data
// is base64 in the JSON encoding.
type WebSocketExtractRequest struct {
	Filename string `json:"filename"`
	Data     []byte `json:"data"`
}

// WebSocketExtractResponse is a streamed extraction update. Status is
// "processing", "completed" or "error"; processing updates carry the
// per-page progress, the final message carries the result.
type WebSocketExtractResponse struct {
	Type       string           `json:"type"`
	Status     string           `json:"status"`
	Page       int              `json:"page,omitempty"`
	TotalPages int              `json:"total_pages,omitempty"`
	Found      int              `json:"found"`
	Result     *ExtractResponse `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
	RequestID  string           `json:"request_id,omitempty"`
}

// extractWebSocketHandler streams per-page extraction progress to the
// client as each page is scanned.
func (s *Server) extractWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(r, conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(r *http.Request, conn *websocket.Conn) {
	// Read deadline prevents hanging connections.
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping to keep the connection alive across long scans.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(r, conn, data)
		}
	}
}

// handleWebSocketMessage runs one extraction request over the connection.
func (s *Server) handleWebSocketMessage(r *http.Request, conn *websocket.Conn, data []byte) {
	var req WebSocketExtractRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "", fmt.Sprintf("failed to parse request: %v", err))
		return
	}
	if len(req.Data) == 0 {
		s.sendWebSocketError(conn, "", "no file data provided")
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "processing",
		RequestID: requestID,
	})

	start := time.Now()
	session, err := s.pl.ExtractWithProgress(r.Context(), req.Filename, req.Data,
		func(page, totalPages, found int) {
			s.sendWebSocketResponse(conn, WebSocketExtractResponse{
				Type:       "extract_response",
				Status:     "processing",
				Page:       page,
				TotalPages: totalPages,
				Found:      found,
				RequestID:  requestID,
			})
		})
	if err != nil {
		extractRequests.WithLabelValues("error").Inc()
		s.sendWebSocketError(conn, requestID, fmt.Sprintf("extraction failed: %v", err))
		return
	}
	extractRequests.WithLabelValues("ok").Inc()
	extractDuration.Observe(time.Since(start).Seconds())
	markersDetected.Observe(float64(len(session.Markers)))

	result := toExtractResponse(session)
	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "extract_response",
		Status:    "completed",
		Found:     len(session.Markers),
		Result:    &result,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn *websocket.Conn, response WebSocketExtractResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn *websocket.Conn, requestID, message string) {
	s.sendWebSocketResponse(conn, WebSocketExtractResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		RequestID: requestID,
	})
}
