package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/export"
	"github.com/noder-app/noder-backend/internal/editor/service"
)

const maxIngestBytes = 4 << 20

// BlueprintHandler exposes ingestion and export without a session.
type BlueprintHandler struct {
	ingest service.Ingester
}

func NewBlueprintHandler(ingest service.Ingester) *BlueprintHandler {
	return &BlueprintHandler{ingest: ingest}
}

// Ingest takes raw generator text as the request body.
func (h *BlueprintHandler) Ingest(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxIngestBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"ok": false, "error": "body exceeds 4 MiB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "failed to read body"})
		return
	}
	res, err := h.ingest.Ingest(c.Request.Context(), string(body))
	if err != nil {
		writeInputError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "graph": res.Graph, "warnings": res.Warnings})
}

// Export takes a graph and returns it in the requested format.
func (h *BlueprintHandler) Export(c *gin.Context) {
	var g bp.Graph
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid graph body"})
		return
	}
	if g.Name == "" {
		g.Name = bp.DefaultBlueprintName
	}
	writeExport(c, c.DefaultQuery("format", "json"), export.ToPayload(&g), &g)
}
