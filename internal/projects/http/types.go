package http

import "github.com/noder-app/noder-backend/internal/projects/service"

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name string `json:"name"`
}

type renameReq struct {
	Name string `json:"name"`
}
