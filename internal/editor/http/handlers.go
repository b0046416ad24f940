package http

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noder-app/noder-backend/internal/auth"
	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/export"
	"github.com/noder-app/noder-backend/internal/editor/service"
	"github.com/noder-app/noder-backend/internal/platform/logging"
)

type Handler struct {
	svc *service.EditorService
}

func New(svc *service.EditorService) *Handler {
	return &Handler{svc: svc}
}

func userID(c *gin.Context) string {
	return auth.UserID(c)
}

func (h *Handler) CreateSession(c *gin.Context) {
	sess, err := h.svc.Create(c.Request.Context(), userID(c))
	if err != nil {
		logging.FromContext(c.Request.Context()).LogError("create_session", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": sess})
}

func (h *Handler) ListSessions(c *gin.Context) {
	ids, err := h.svc.List(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": ids})
}

func (h *Handler) GetSession(c *gin.Context) {
	sess, err := h.svc.Get(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type generateRequest struct {
	Query string `json:"query" binding:"required"`
}

func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "query is required"})
		return
	}

	sess, err := h.svc.Generate(c.Request.Context(), c.Param("id"), userID(c), req.Query)
	if err != nil {
		logging.FromContext(c.Request.Context()).LogWarnf("editor_generate", "generation failed", "session_id", c.Param("id"), "error", err)
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

type loadRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) Load(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "content is required"})
		return
	}
	sess, err := h.svc.Load(c.Request.Context(), c.Param("id"), userID(c), req.Content)
	if err != nil {
		writeInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) SaveGraph(c *gin.Context) {
	var g bp.Graph
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid graph body"})
		return
	}
	sess, err := h.svc.SaveGraph(c.Request.Context(), c.Param("id"), userID(c), &g)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) ClearGraph(c *gin.Context) {
	sess, err := h.svc.Clear(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) Arrange(c *gin.Context) {
	mode := service.ArrangeMode(c.DefaultQuery("mode", string(service.ArrangeAuto)))
	if mode != service.ArrangeAuto && mode != service.ArrangeGrid {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "mode must be auto or grid"})
		return
	}
	sess, err := h.svc.Rearrange(c.Request.Context(), c.Param("id"), userID(c), mode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": sess})
}

func (h *Handler) Export(c *gin.Context) {
	payload, g, err := h.svc.Export(c.Request.Context(), c.Param("id"), userID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	writeExport(c, c.DefaultQuery("format", "json"), payload, g)
}

func writeExport(c *gin.Context, format string, payload *bp.RawGraphPayload, g *bp.Graph) {
	switch format {
	case "json":
		c.JSON(http.StatusOK, payload)
	case "yaml":
		var buf bytes.Buffer
		if err := export.WriteYAML(&buf, payload); err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", buf.Bytes())
	case "dot":
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", []byte(export.ToDOT(g, g.Name)))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "format must be json, yaml or dot"})
	}
}
