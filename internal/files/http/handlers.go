package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noder-app/noder-backend/internal/auth"
	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/files/domain"
	"github.com/noder-app/noder-backend/internal/files/service"
	"github.com/noder-app/noder-backend/internal/platform/logging"
)

type Handler struct {
	svc *service.FileService
}

func New(svc *service.FileService) *Handler {
	return &Handler{svc: svc}
}

// Register mounts file routes below a projects group.
func (h *Handler) Register(projects *gin.RouterGroup) {
	g := projects.Group("/:public_id/files")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/graph", h.graph)
}

type createReq struct {
	Name     string          `json:"name"`
	Type     domain.ItemType `json:"type"`
	ParentID *string         `json:"parent_id"`
	Content  string          `json:"content"`
}

type updateReq struct {
	Name     *string `json:"name"`
	Content  *string `json:"content"`
	ParentID *string `json:"parent_id"`
	ToRoot   bool    `json:"to_root"`
}

// list returns the flat item list, or the folder tree with ?view=tree.
func (h *Handler) list(c *gin.Context) {
	ctx := c.Request.Context()
	if c.Query("view") == "tree" {
		tree, err := h.svc.Tree(ctx, auth.UserID(c), c.Param("public_id"))
		if err != nil {
			writeError(c, "list_files", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "tree": tree})
		return
	}

	items, err := h.svc.List(ctx, auth.UserID(c), c.Param("public_id"))
	if err != nil {
		writeError(c, "list_files", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "files": items})
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	it, err := h.svc.Create(c.Request.Context(), auth.UserID(c), c.Param("public_id"), service.CreateInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		writeError(c, "create_file", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "file": it})
}

func (h *Handler) get(c *gin.Context) {
	it, err := h.svc.Get(c.Request.Context(), auth.UserID(c), c.Param("public_id"), c.Param("id"))
	if err != nil {
		writeError(c, "get_file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "file": it})
}

func (h *Handler) update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	it, err := h.svc.Update(c.Request.Context(), auth.UserID(c), c.Param("public_id"), c.Param("id"), domain.Patch{
		Name:     req.Name,
		Content:  req.Content,
		ParentID: req.ParentID,
		ToRoot:   req.ToRoot,
	})
	if err != nil {
		writeError(c, "update_file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "file": it})
}

func (h *Handler) delete(c *gin.Context) {
	n, err := h.svc.Delete(c.Request.Context(), auth.UserID(c), c.Param("public_id"), c.Param("id"))
	if err != nil {
		writeError(c, "delete_file", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "removed": n})
}

func (h *Handler) graph(c *gin.Context) {
	res, err := h.svc.Graph(c.Request.Context(), auth.UserID(c), c.Param("public_id"), c.Param("id"))
	if err != nil {
		writeError(c, "file_graph", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "graph": res.Graph, "warnings": res.Warnings})
}

func writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrInvalidParent), errors.Is(err, domain.ErrNotAFile):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, bp.ErrInvalidGraphStructure), errors.Is(err, bp.ErrMalformedResponse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	default:
		logging.FromContext(c.Request.Context()).LogError(op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
