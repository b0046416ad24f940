package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/editor/domain"
	"github.com/noder-app/noder-backend/internal/editor/service"
	"github.com/noder-app/noder-backend/internal/generation/client"
)

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var upstream *client.UpstreamStatusError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "session not found"})
	case errors.Is(err, domain.ErrGenerationInFlight):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, service.ErrEmptyQuery), errors.Is(err, client.ErrEmptyQuery):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "query is required"})
	case errors.Is(err, bp.ErrInvalidGraphStructure):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, bp.ErrMalformedResponse):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, bp.ErrNetworkFailure):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": "generation service unreachable"})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": upstream.Message, "upstream_status": upstream.Status})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}

// writeInputError is writeError for text the caller supplied: unparseable
// input is the caller's fault, not the generator's.
func writeInputError(c *gin.Context, err error) {
	if errors.Is(err, bp.ErrMalformedResponse) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
		return
	}
	writeError(c, err)
}
