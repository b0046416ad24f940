// Package proxy serves the blueprint generation API in front of a language
// model.
package proxy

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noder-app/noder-backend/internal/auth"
	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/ingest/extract"
	"github.com/noder-app/noder-backend/internal/platform/logging"
	"github.com/noder-app/noder-backend/internal/platform/metrics"
)

const (
	msgModelInit   = "Model failed to initialize. Check API Key and configuration."
	msgNotJSON     = "Request must be JSON"
	msgBadQuery    = `Missing or invalid "query" in request body.`
	msgBadFormat   = "Failed to generate blueprint: Invalid format from generation service."
	msgServerError = "Failed to generate blueprint: Server error"
	previewLen     = 200
)

type Handler struct {
	llm     Completer
	repair  bool
	limiter *Limiter
}

// NewHandler builds the proxy. llm may be nil when no API key is
// configured; requests then fail with the model-initialization error.
func NewHandler(llm Completer, repair bool, limiter *Limiter) *Handler {
	return &Handler{llm: llm, repair: repair, limiter: limiter}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.POST("/api/generateBlueprint", h.Generate)
	r.GET("/api/health", h.Health)
}

func (h *Handler) Generate(c *gin.Context) {
	logger := logging.FromContext(c.Request.Context())

	if h.llm == nil {
		logger.LogErrorf("generate_blueprint", "model not initialized")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgModelInit})
		return
	}
	if c.ContentType() != gin.MIMEJSON {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNotJSON})
		return
	}

	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNotJSON})
		return
	}
	query, ok := body["query"].(string)
	if !ok || strings.TrimSpace(query) == "" {
		logger.LogWarnf("generate_blueprint", "invalid query", "query", body["query"])
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBadQuery})
		return
	}

	if !h.limiter.Allow(limitKey(c)) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	ctx := c.Request.Context()
	logger.LogInfof("generate_blueprint", "sending prompt", "query", truncate(query, 50))
	text, err := h.llm.Complete(ctx, SystemPrompt(), userPrompt(query))
	if err != nil {
		metrics.LLMCalls.WithLabelValues("generate", "error").Inc()
		logger.LogError("generate_blueprint", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
		return
	}
	metrics.LLMCalls.WithLabelValues("generate", "ok").Inc()

	obj, err := extract.ExtractObject(text)
	if err != nil {
		var me *domain.MalformedResponseError
		if !errors.As(err, &me) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgServerError})
			return
		}
		logger.LogErrorf("generate_blueprint", "model response is not JSON", "error", me.ParseErr, "preview", me.Preview(1000))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":            msgBadFormat,
			"raw_error":        me.ParseErr,
			"error_type":       "json_parse_error",
			"response_preview": me.Preview(previewLen),
		})
		return
	}

	if verr := ValidateOutput(obj); verr != nil && h.repair {
		logger.LogWarnf("generate_blueprint", "model output failed schema validation, repairing", "error", verr)
		if fixed, ok := h.repairOutput(c, obj, verr); ok {
			obj = fixed
		}
	}

	c.JSON(http.StatusOK, obj)
}

// repairOutput asks the model once to fix a schema violation. The repaired
// object is used only if it parses and validates.
func (h *Handler) repairOutput(c *gin.Context, bad map[string]any, verr error) (map[string]any, bool) {
	logger := logging.FromContext(c.Request.Context())

	b, err := json.Marshal(bad)
	if err != nil {
		return nil, false
	}
	text, err := h.llm.Complete(c.Request.Context(), repairInstructions, repairPrompt(string(b), verr.Error()))
	if err != nil {
		metrics.LLMCalls.WithLabelValues("repair", "error").Inc()
		logger.LogError("repair_blueprint", err)
		return nil, false
	}
	metrics.LLMCalls.WithLabelValues("repair", "ok").Inc()

	fixed, err := extract.ExtractObject(text)
	if err != nil {
		logger.LogWarnf("repair_blueprint", "repair response is not JSON", "error", err)
		return nil, false
	}
	if err := ValidateOutput(fixed); err != nil {
		logger.LogWarnf("repair_blueprint", "repair still invalid", "error", err)
		return nil, false
	}
	return fixed, true
}

func (h *Handler) Health(c *gin.Context) {
	if h.llm == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "ERROR: Missing LLM API key"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// limitKey buckets requests by user. The uid header is only trusted on
// loopback, where the editor's own generation client calls in.
func limitKey(c *gin.Context) string {
	if uid := auth.UserID(c); uid != "" {
		return "user:" + uid
	}
	if uid := strings.TrimSpace(c.GetHeader(auth.HeaderUserID)); uid != "" {
		if ip := net.ParseIP(c.RemoteIP()); ip != nil && ip.IsLoopback() {
			return "user:" + uid
		}
	}
	return "ip:" + c.ClientIP()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
