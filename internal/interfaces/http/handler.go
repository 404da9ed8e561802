package http

import (
	"log/slog"
	"net/http"

	"greeterbot/internal/entities"
	"greeterbot/internal/infrastructure"
	"greeterbot/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid/v5"
)

// Handler hosts greeter sessions over a JSON API. Each request's outbound
// messages are returned in its response.
type Handler struct {
	lifecycle *usecases.Lifecycle
	tokens    *SessionTokens
	logger    *slog.Logger
}

func NewHandler(lifecycle *usecases.Lifecycle, tokens *SessionTokens, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		lifecycle: lifecycle,
		tokens:    tokens,
		logger:    logger.With("component", "web"),
	}
}

func SetupRoutes(r *gin.Engine, h *Handler, admin *AdminHandler, middleware *Middleware, metrics http.Handler) {
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(64 << 10))
	r.Use(middleware.CORSMiddleware())

	r.GET("/healthz", h.Health)
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	api := r.Group("/api")
	api.Use(middleware.RateLimitPerClient())
	{
		api.POST("/sessions", h.StartSession)
		api.POST("/sessions/messages", middleware.SessionRequired(), h.PostMessage)
	}

	if admin != nil && middleware.AdminEnabled() {
		protected := api.Group("")
		protected.Use(middleware.AdminRequired())
		{
			protected.GET("/admin/usage", admin.GetUsage)
			protected.GET("/whatsapp/qr", admin.GetWhatsAppQR)
			protected.GET("/whatsapp/status", admin.GetWhatsAppStatus)
		}
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StartSession opens a web session and returns the greeting
func (h *Handler) StartSession(c *gin.Context) {
	id, err := uuid.NewV4()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}
	sid := id.String()

	token, err := h.tokens.Issue(sid)
	if err != nil {
		h.logger.Error("Failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	rec := &infrastructure.MessageRecorder{}
	s := h.lifecycle.NewSession(sid, entities.PlatformWeb, sid, rec)
	if err := h.lifecycle.StartSession(c.Request.Context(), s); err != nil {
		h.logger.Error("Failed to start session", "session", sid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sid,
		"token":      token,
		"messages":   rec.Messages(),
	})
}

// PostMessage delivers one inbound message to the caller's session
func (h *Handler) PostMessage(c *gin.Context) {
	sid := c.GetString(sessionIDKey)

	var payload struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	msg := entities.Message{
		From:    sid,
		Content: TruncateString(SanitizeString(payload.Content), MaxContentLength),
	}

	rec := &infrastructure.MessageRecorder{}
	s := h.lifecycle.NewSession(sid, entities.PlatformWeb, sid, rec)
	if err := h.lifecycle.Deliver(c.Request.Context(), s, msg); err != nil {
		h.logger.Error("Failed to handle message", "session", sid, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sid,
		"messages":   rec.Messages(),
	})
}
