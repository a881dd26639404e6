package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/api/middleware"
	"github.com/themobileprof/fitzone-bot/internal/chat"
	"github.com/themobileprof/fitzone-bot/internal/privacy"
)

const (
	// Frame types sent to the client.
	TypeMessage = "message"
	TypeError   = "error"

	maxFrameBytes     = 8 << 10
	messagesPerMinute = 30
	writeWait         = 10 * time.Second
)

// Dispatcher answers one chat message; chat.Engine satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) chat.Reply
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Message string `json:"message"`
}

// OutgoingMessage represents a message to the client
type OutgoingMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// ChatHandler handles WebSocket chat connections
type ChatHandler struct {
	dispatcher Dispatcher
	timeout    time.Duration
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

// NewChatHandler creates a WebSocket chat handler. allowedOrigins follows
// the same rules as the CORS middleware: empty or "*" accepts any origin.
func NewChatHandler(d Dispatcher, timeout time.Duration, allowedOrigins []string, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		dispatcher: d,
		timeout:    timeout,
		logger:     logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		if o != "" {
			set[o] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// HandleChat upgrades the connection and answers each frame in order until
// the client goes away.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxFrameBytes)
	limiter := middleware.NewMessageLimiter(messagesPerMinute)
	requestID := middleware.GetRequestID(c)

	h.logger.Debug("websocket connected", zap.String("request_id", requestID))

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", zap.String("request_id", requestID), zap.Error(err))
			}
			return
		}

		if !limiter.Allow() {
			if err := h.send(conn, TypeError, "Too many messages. Please slow down."); err != nil {
				return
			}
			continue
		}

		if err := h.processMessage(c.Request.Context(), conn, msg.Message); err != nil {
			h.logger.Warn("websocket write failed", zap.String("request_id", requestID), zap.Error(err))
			return
		}
	}
}

// processMessage processes a single chat message
func (h *ChatHandler) processMessage(ctx context.Context, conn *websocket.Conn, content string) error {
	if strings.TrimSpace(content) == "" {
		return h.send(conn, TypeError, "Message is required")
	}

	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	reply := h.dispatcher.Dispatch(ctx, content)
	h.logger.Debug("websocket reply",
		zap.String("message", privacy.SanitizeForLogging(content)),
		zap.String("intent", string(reply.Intent)),
		zap.String("source", string(reply.Source)))

	return h.send(conn, TypeMessage, reply.Text)
}

func (h *ChatHandler) send(conn *websocket.Conn, kind, content string) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(OutgoingMessage{Type: kind, Content: content})
}
