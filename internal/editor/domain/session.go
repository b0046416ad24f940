package domain

import (
	"errors"
	"time"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
)

var (
	ErrSessionNotFound    = errors.New("editor session not found")
	ErrGenerationInFlight = errors.New("a generation is already running for this editor")
)

// ClearedName is the graph name of a freshly cleared editor.
const ClearedName = "New Blueprint"

// Session is one user's editor state: the current graph and the warnings
// from the ingestion that produced it.
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Graph     *bp.Graph    `json:"graph"`
	Warnings  []bp.Warning `json:"warnings"`
	LastQuery string       `json:"last_query,omitempty"`
	LastError string       `json:"last_error,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSession returns a session holding an empty graph.
func NewSession(id, userID string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		UserID:    userID,
		Graph:     bp.NewGraph(ClearedName, ""),
		Warnings:  []bp.Warning{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset replaces the graph with an empty one.
func (s *Session) Reset() {
	s.Graph = bp.NewGraph(ClearedName, "")
	s.Warnings = []bp.Warning{}
	s.LastError = ""
}
