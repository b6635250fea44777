package filter

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/sms-guard/internal/audit"
	"github.com/mikey/sms-guard/internal/core"
	"go.uber.org/zap"
)

// checkRequest is the request body for the check endpoint
type checkRequest struct {
	Message  string `json:"message"`
	SenderID string `json:"sender_id"`
}

// HTTPFilter exposes the filter pipeline over an HTTP API
type HTTPFilter struct {
	service     *core.FilterService
	recorder    *audit.Recorder
	logger      *zap.Logger
	server      *http.Server
	recentLimit int
}

// NewHTTPFilter creates a new HTTP filter listening on listenAddr
func NewHTTPFilter(
	service *core.FilterService,
	recorder *audit.Recorder,
	logger *zap.Logger,
	listenAddr string,
	recentLimit int,
) *HTTPFilter {
	gin.SetMode(gin.ReleaseMode)

	f := &HTTPFilter{
		service:     service,
		recorder:    recorder,
		logger:      logger,
		recentLimit: recentLimit,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/", f.handleHealth)
	engine.POST("/check_sms", f.handleCheck)
	engine.GET("/recent_logs", f.handleRecentLogs)

	f.server = &http.Server{
		Addr:    listenAddr,
		Handler: engine,
	}

	return f
}

// Check runs a single message through the filter pipeline, recording the
// verdict in the audit trail.
func (f *HTTPFilter) Check(ctx context.Context, msg *core.Message) (*core.Verdict, error) {
	verdict, err := f.service.CheckMessage(ctx, msg)
	if err != nil {
		return nil, err
	}
	f.recorder.Record(verdict, msg.Text)
	return verdict, nil
}

// Start starts the HTTP listener
func (f *HTTPFilter) Start() error {
	f.logger.Info("Starting HTTP filter", zap.String("address", f.server.Addr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts the HTTP listener down gracefully
func (f *HTTPFilter) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// Handler returns the HTTP handler, used in tests
func (f *HTTPFilter) Handler() http.Handler {
	return f.server.Handler
}

// handleHealth reports service liveness
func (f *HTTPFilter) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"timestamp":   time.Now().Format(time.RFC3339),
		"model_ready": true,
	})
}

// handleCheck evaluates one message and returns its verdict. Validation
// rejections keep HTTP 400 semantics: an empty message still carries its
// verdict body, an over-length message is refused outright.
func (f *HTTPFilter) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	verdict, err := f.Check(c.Request.Context(), &core.Message{Text: req.Message, SenderID: req.SenderID})
	if err != nil {
		if errors.Is(err, core.ErrMessageTooLong) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Message too long"})
			return
		}
		f.logger.Error("Failed to check message", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"detail": "classification service unavailable"})
		return
	}

	if verdict.Reason == core.ReasonEmptyMessage {
		c.JSON(http.StatusBadRequest, verdict)
		return
	}

	c.JSON(http.StatusOK, verdict)
}

// handleRecentLogs returns the most recent audit lines
func (f *HTTPFilter) handleRecentLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"logs": f.recorder.Recent(f.recentLimit)})
}
