package service

import (
	"context"
	"strings"

	"github.com/noder-app/noder-backend/internal/projects/domain"
)

// Store is implemented by repository.Repo.
type Store interface {
	Create(ctx context.Context, userID, name string) (*domain.Project, error)
	List(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, userID, publicID string) (*domain.Project, error)
	Rename(ctx context.Context, userID, publicID, newName string) (*domain.Project, error)
	SoftDelete(ctx context.Context, userID, publicID string) (bool, error)
}

// ProjectService handles project-related business logic
type ProjectService struct {
	repo Store
}

func NewProjectService(repo Store) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) Create(ctx context.Context, userID, name string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	return s.repo.Create(ctx, userID, name)
}

func (s *ProjectService) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return s.repo.List(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, userID, publicID string) (*domain.Project, error) {
	if !domain.ValidPublicID(publicID) {
		return nil, domain.ErrNotFound
	}
	return s.repo.Get(ctx, userID, publicID)
}

func (s *ProjectService) Rename(ctx context.Context, userID, publicID, newName string) (*domain.Project, error) {
	if !domain.ValidPublicID(publicID) {
		return nil, domain.ErrNotFound
	}
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domain.ErrInvalidName
	}
	return s.repo.Rename(ctx, userID, publicID, newName)
}

// Delete soft-deletes a project
func (s *ProjectService) Delete(ctx context.Context, userID, publicID string) error {
	if !domain.ValidPublicID(publicID) {
		return domain.ErrNotFound
	}
	ok, err := s.repo.SoftDelete(ctx, userID, publicID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
