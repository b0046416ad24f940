package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/noder-app/noder-backend/internal/api/http"
	bpservice "github.com/noder-app/noder-backend/internal/blueprint/service"
	editorhttp "github.com/noder-app/noder-backend/internal/editor/http"
	editorsvc "github.com/noder-app/noder-backend/internal/editor/service"
	fileshttp "github.com/noder-app/noder-backend/internal/files/http"
	filesvc "github.com/noder-app/noder-backend/internal/files/service"
	"github.com/noder-app/noder-backend/internal/generation/proxy"
	"github.com/noder-app/noder-backend/internal/platform/logging"
	"github.com/noder-app/noder-backend/internal/platform/metrics"
	projecthttp "github.com/noder-app/noder-backend/internal/projects/http"
	projectsvc "github.com/noder-app/noder-backend/internal/projects/service"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string

	// optional; nil reports "disabled" on /health
	DBPing    httpapi.Pinger
	RedisPing httpapi.Pinger

	Auth     gin.HandlerFunc
	Proxy    *proxy.Handler
	Pipeline *bpservice.Pipeline
	Editor   *editorsvc.EditorService

	// nil without a database
	Projects *projectsvc.ProjectService
	Files    *filesvc.FileService
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-Id", logging.HeaderRequestID},
		ExposeHeaders:    []string{logging.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/metrics", metrics.Handler())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DBPing, dep.RedisPing)
	healthHandler.RegisterRoutes(r)

	// generation API is unversioned and unauthenticated
	if dep.Proxy != nil {
		dep.Proxy.RegisterRoutes(r)
	}

	api := r.Group("/api/v1")
	if dep.Auth != nil {
		api.Use(dep.Auth)
	}

	if dep.Editor != nil {
		editorhttp.New(dep.Editor).Register(api.Group("/editor"))
	}
	if dep.Pipeline != nil {
		editorhttp.NewBlueprintHandler(dep.Pipeline).Register(api.Group("/blueprints"))
	}

	if dep.Projects != nil {
		projectsGroup := api.Group("/projects")
		projecthttp.New(dep.Projects).Register(projectsGroup)
		if dep.Files != nil {
			fileshttp.New(dep.Files).Register(projectsGroup)
		}
	}

	return r
}
