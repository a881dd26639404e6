package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/themobileprof/fitzone-bot/internal/api/middleware"
	"github.com/themobileprof/fitzone-bot/internal/chat"
	"github.com/themobileprof/fitzone-bot/internal/privacy"
)

// Dispatcher answers one chat message; chat.Engine satisfies it.
type Dispatcher interface {
	Dispatch(ctx context.Context, raw string) chat.Reply
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message *string `json:"message"`
}

// ChatHandler serves the REST chat endpoint
type ChatHandler struct {
	dispatcher Dispatcher
	timeout    time.Duration
	logger     *zap.Logger
}

// NewChatHandler creates a chat handler. timeout bounds each request's
// fallback call; zero means no extra deadline.
func NewChatHandler(d Dispatcher, timeout time.Duration, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{dispatcher: d, timeout: timeout, logger: logger}
}

// Chat answers a single question
// POST /chat {"message": "..."}
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "status": "error"})
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required", "status": "error"})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	reply := h.dispatcher.Dispatch(ctx, *req.Message)

	h.logger.Debug("chat reply",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("message", privacy.SanitizeForLogging(*req.Message)),
		zap.String("intent", string(reply.Intent)),
		zap.String("source", string(reply.Source)))

	c.JSON(http.StatusOK, gin.H{
		"response": reply.Text,
		"status":   "success",
	})
}
