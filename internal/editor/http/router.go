package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sessions", h.CreateSession)
	rg.GET("/sessions", h.ListSessions)
	rg.GET("/sessions/:id", h.GetSession)
	rg.DELETE("/sessions/:id", h.DeleteSession)
	rg.POST("/sessions/:id/generate", h.Generate)
	rg.POST("/sessions/:id/load", h.Load)
	rg.PUT("/sessions/:id/graph", h.SaveGraph)
	rg.DELETE("/sessions/:id/graph", h.ClearGraph)
	rg.POST("/sessions/:id/arrange", h.Arrange)
	rg.GET("/sessions/:id/export", h.Export)
}

func (h *BlueprintHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/ingest", h.Ingest)
	rg.POST("/export", h.Export)
}
