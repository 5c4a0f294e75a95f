package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/pkg/core/logging"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 * 1024
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`              // "balance", "parse", "ping"
	ID      string          `json:"id,omitempty"`      // echoed in the response
	Payload json.RawMessage `json:"payload,omitempty"` // Message-specific payload
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"` // "result", "parsed", "error", "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WebSocketHandler balances equations sent over a WebSocket connection.
// Messages of one connection are answered in order.
type WebSocketHandler struct {
	svc      *service.Service
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a WebSocket handler. An empty allowed list
// accepts same-origin requests only, "*" accepts any origin.
func NewWebSocketHandler(svc *service.Service, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		svc:    svc,
		logger: logging.New("lavoisier-websocket"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	if len(allowedOrigins) > 0 {
		h.upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || originAllowed(allowedOrigins, origin)
		}
	}
	return h
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn, RequestIDFromContext(r.Context()))
}

func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn, requestID string) {
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	logger := h.logger.WithRequestID(requestID)
	logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadLimit(wsMaxMessage)
	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("WebSocket read error", "error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, WSResponse{Type: "pong", ID: msg.ID})

		case "balance", "parse":
			var payload EquationRequest
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, msg.ID, string(mdwerror.CodeInvalidInput), "Invalid payload", nil)
				continue
			}
			h.handleEquation(ctx, conn, msg, payload.Equation, requestID)

		default:
			h.sendError(conn, msg.ID, string(mdwerror.CodeInvalidInput), "Unknown message type: "+msg.Type, nil)
		}
	}
}

func (h *WebSocketHandler) handleEquation(ctx context.Context, conn *websocket.Conn, msg WSMessage, equation, requestID string) {
	var (
		result interface{}
		kind   string
		err    error
	)
	if msg.Type == "parse" {
		kind = "parsed"
		result, err = h.svc.Parse(ctx, equation)
	} else {
		kind = "result"
		result, err = h.svc.Balance(ctx, service.BalanceRequest{
			Equation:  equation,
			Source:    "ws",
			RequestID: requestID,
		})
	}

	if err != nil {
		var e *mdwerror.Error
		if errors.As(err, &e) {
			h.sendError(conn, msg.ID, e.Code().String(), err.Error(), e.Details())
		} else {
			h.sendError(conn, msg.ID, string(mdwerror.CodeInternal), err.Error(), nil)
		}
		return
	}
	h.sendResponse(conn, WSResponse{Type: kind, ID: msg.ID, Payload: result})
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, id, code, message string, details map[string]interface{}) {
	if len(details) == 0 {
		details = nil
	}
	h.sendResponse(conn, WSResponse{
		Type: "error",
		ID:   id,
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
