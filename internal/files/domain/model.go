package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("file not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidName     = errors.New("file name required")
	ErrInvalidType     = errors.New("type must be file or folder")
	ErrInvalidParent   = errors.New("parent must be a folder in the same project")
	ErrNotAFile        = errors.New("item is a folder")
)

type ItemType string

const (
	TypeFile   ItemType = "file"
	TypeFolder ItemType = "folder"
)

func (t ItemType) Valid() bool { return t == TypeFile || t == TypeFolder }

// Item is one entry of a project's file tree. Content is opaque text; for
// blueprint files it holds the exported payload JSON.
type Item struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	UserID    string    `json:"-"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	Type      ItemType  `json:"type"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch lists the fields an update changes. A nil pointer leaves the field
// alone; ToRoot clears the parent.
type Patch struct {
	Name     *string
	Content  *string
	ParentID *string
	ToRoot   bool
}

// TreeNode is an Item with its children, for the hierarchical view.
type TreeNode struct {
	Item
	Children []*TreeNode `json:"children"`
}
