package service

import (
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/export"
	"github.com/noder-app/noder-backend/internal/files/domain"
	"github.com/noder-app/noder-backend/internal/platform/logging"
)

// Store is implemented by repository.Repo.
type Store interface {
	Create(ctx context.Context, it *domain.Item) (*domain.Item, error)
	List(ctx context.Context, userID, projectID string) ([]domain.Item, error)
	Get(ctx context.Context, userID, projectID, id string) (*domain.Item, error)
	Update(ctx context.Context, userID, projectID, id string, patch domain.Patch) (*domain.Item, error)
	Delete(ctx context.Context, userID, projectID, id string) (int64, error)
}

// Ingester turns stored file content into a graph.
type Ingester interface {
	Ingest(ctx context.Context, text string) (*bp.IngestResult, error)
}

type CreateInput struct {
	Name     string
	Type     domain.ItemType
	ParentID *string
	Content  string
}

type FileService struct {
	repo   Store
	ingest Ingester
}

func NewFileService(repo Store, ingest Ingester) *FileService {
	return &FileService{repo: repo, ingest: ingest}
}

// EmptyContent is the content of a blueprint file created without any: an
// exported payload with no nodes.
func EmptyContent() string {
	var buf bytes.Buffer
	_ = export.WriteJSON(&buf, export.ToPayload(bp.NewGraph(bp.DefaultBlueprintName, "")))
	return buf.String()
}

func (s *FileService) Create(ctx context.Context, userID, projectID string, in CreateInput) (*domain.Item, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if in.Type == "" {
		in.Type = domain.TypeFile
	}
	if !in.Type.Valid() {
		return nil, domain.ErrInvalidType
	}

	if in.ParentID != nil {
		items, err := s.repo.List(ctx, userID, projectID)
		if err != nil {
			return nil, err
		}
		if !isFolder(items, *in.ParentID) {
			return nil, domain.ErrInvalidParent
		}
	}

	content := in.Content
	if in.Type == domain.TypeFolder {
		content = ""
	} else if strings.TrimSpace(content) == "" {
		content = EmptyContent()
	}

	it, err := s.repo.Create(ctx, &domain.Item{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		UserID:    userID,
		ParentID:  in.ParentID,
		Name:      name,
		Type:      in.Type,
		Content:   content,
	})
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).LogInfof("create_file", "file created", "project_id", projectID, "file_id", it.ID, "type", it.Type)
	return it, nil
}

func (s *FileService) List(ctx context.Context, userID, projectID string) ([]domain.Item, error) {
	return s.repo.List(ctx, userID, projectID)
}

func (s *FileService) Tree(ctx context.Context, userID, projectID string) ([]*domain.TreeNode, error) {
	items, err := s.repo.List(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}
	return domain.BuildTree(items), nil
}

func (s *FileService) Get(ctx context.Context, userID, projectID, id string) (*domain.Item, error) {
	return s.repo.Get(ctx, userID, projectID, id)
}

// Update renames, rewrites or moves an item. A move may not put an item
// under a file, itself, or one of its own descendants.
func (s *FileService) Update(ctx context.Context, userID, projectID, id string, patch domain.Patch) (*domain.Item, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		patch.Name = &name
	}

	if patch.ParentID != nil && !patch.ToRoot {
		items, err := s.repo.List(ctx, userID, projectID)
		if err != nil {
			return nil, err
		}
		target := *patch.ParentID
		if target == id || !isFolder(items, target) || domain.Descendants(items, id)[target] {
			return nil, domain.ErrInvalidParent
		}
	}

	if patch.Content != nil {
		cur, err := s.repo.Get(ctx, userID, projectID, id)
		if err != nil {
			return nil, err
		}
		if cur.Type == domain.TypeFolder {
			return nil, domain.ErrNotAFile
		}
	}

	return s.repo.Update(ctx, userID, projectID, id, patch)
}

// Delete removes the item; deleting a folder removes everything below it.
func (s *FileService) Delete(ctx context.Context, userID, projectID, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, userID, projectID, id)
	if err != nil {
		return 0, err
	}
	logging.FromContext(ctx).LogInfof("delete_file", "file deleted", "project_id", projectID, "file_id", id, "removed", n)
	return n, nil
}

// Graph loads a blueprint file: its content goes through ingestion exactly
// as generator output does.
func (s *FileService) Graph(ctx context.Context, userID, projectID, id string) (*bp.IngestResult, error) {
	it, err := s.repo.Get(ctx, userID, projectID, id)
	if err != nil {
		return nil, err
	}
	if it.Type != domain.TypeFile {
		return nil, domain.ErrNotAFile
	}
	return s.ingest.Ingest(ctx, it.Content)
}

func isFolder(items []domain.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return it.Type == domain.TypeFolder
		}
	}
	return false
}
