package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noder-app/noder-backend/internal/auth"
	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/export"
	"github.com/noder-app/noder-backend/internal/blueprint/ingest/mapper"
	"github.com/noder-app/noder-backend/internal/blueprint/layout"
	"github.com/noder-app/noder-backend/internal/blueprint/pinkey"
	"github.com/noder-app/noder-backend/internal/editor/domain"
	"github.com/noder-app/noder-backend/internal/editor/repository"
	"github.com/noder-app/noder-backend/internal/platform/logging"
)

const DefaultLockTTL = 3 * time.Minute

var ErrEmptyQuery = errors.New("query is required")

// Generator returns raw generator output for a natural-language query.
type Generator interface {
	Generate(ctx context.Context, query string) (string, error)
}

// Ingester builds graphs from generator text or stored payloads.
type Ingester interface {
	Ingest(ctx context.Context, text string) (*bp.IngestResult, error)
}

// ArrangeMode selects how Rearrange repositions nodes.
type ArrangeMode string

const (
	ArrangeAuto ArrangeMode = "auto"
	ArrangeGrid ArrangeMode = "grid"
)

// EditorService owns editor sessions. All graph replacement goes through
// it; a session's graph is only ever swapped wholesale.
type EditorService struct {
	store   repository.Store
	gen     Generator
	ingest  Ingester
	lockTTL time.Duration
}

func NewEditorService(store repository.Store, gen Generator, ingest Ingester, lockTTL time.Duration) *EditorService {
	if lockTTL <= 0 {
		lockTTL = DefaultLockTTL
	}
	return &EditorService{store: store, gen: gen, ingest: ingest, lockTTL: lockTTL}
}

func (s *EditorService) Create(ctx context.Context, userID string) (*domain.Session, error) {
	sess := domain.NewSession(uuid.NewString(), userID)
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session if it belongs to userID. Sessions of other users
// are reported as not found.
func (s *EditorService) Get(ctx context.Context, id, userID string) (*domain.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return sess, nil
}

func (s *EditorService) List(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *EditorService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *EditorService) Clear(ctx context.Context, id, userID string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	return sess, s.save(ctx, sess)
}

// Generate asks the generator for a graph and replaces the session graph
// with the result. Only one generation may run per session; an overlapping
// call fails with ErrGenerationInFlight. On failure the previous graph is
// kept and the error is recorded on the session.
func (s *EditorService) Generate(ctx context.Context, id, userID, query string) (*domain.Session, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}

	ok, err := s.store.AcquireLock(ctx, id, s.lockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrGenerationInFlight
	}
	defer func() {
		// release even if the request context is gone
		if err := s.store.ReleaseLock(context.WithoutCancel(ctx), id); err != nil {
			logging.FromContext(ctx).LogError("editor_generate", err)
		}
	}()

	logger := logging.FromContext(ctx)
	logger.LogInfof("editor_generate", "generating blueprint", "session_id", id)

	res, genErr := s.generate(auth.WithUser(ctx, userID), query)

	// reload: the session may have been edited while the generator ran
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	sess.LastQuery = query
	if genErr != nil {
		sess.LastError = genErr.Error()
		if err := s.save(ctx, sess); err != nil {
			logger.LogError("editor_generate", err)
		}
		return nil, genErr
	}

	sess.Graph = res.Graph
	sess.Warnings = res.Warnings
	sess.LastError = ""
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *EditorService) generate(ctx context.Context, query string) (*bp.IngestResult, error) {
	text, err := s.gen.Generate(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("generate blueprint: %w", err)
	}
	return s.ingest.Ingest(ctx, text)
}

// Load replaces the session graph with the graph stored in content, which
// uses the same payload shape the generator and exporter produce.
func (s *EditorService) Load(ctx context.Context, id, userID, content string) (*domain.Session, error) {
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	res, err := s.ingest.Ingest(ctx, content)
	if err != nil {
		return nil, err
	}
	sess.Graph = res.Graph
	sess.Warnings = res.Warnings
	sess.LastError = ""
	return sess, s.save(ctx, sess)
}

func (s *EditorService) Export(ctx context.Context, id, userID string) (*bp.RawGraphPayload, *bp.Graph, error) {
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	return export.ToPayload(sess.Graph), sess.Graph, nil
}

// SaveGraph stores an edited graph. Every edge must join an output pin to a
// compatible input pin of nodes in the graph; its pin type and control-flow
// flag are recomputed from those pins. Nodes left at the origin are
// auto-arranged.
func (s *EditorService) SaveGraph(ctx context.Context, id, userID string, g *bp.Graph) (*domain.Session, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if locked, err := s.store.Locked(ctx, id); err != nil {
		return nil, err
	} else if locked {
		return nil, domain.ErrGenerationInFlight
	}

	layout.AutoArrange(g.Nodes)
	sess.Graph = g
	return sess, s.save(ctx, sess)
}

// Rearrange repositions nodes of the current graph. It is refused while a
// generation is running, since that graph is about to be replaced.
func (s *EditorService) Rearrange(ctx context.Context, id, userID string, mode ArrangeMode) (*domain.Session, error) {
	sess, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if locked, err := s.store.Locked(ctx, id); err != nil {
		return nil, err
	} else if locked {
		return nil, domain.ErrGenerationInFlight
	}

	switch mode {
	case ArrangeGrid:
		layout.AssignGrid(sess.Graph.Nodes)
	default:
		layout.AutoArrange(sess.Graph.Nodes)
	}
	return sess, s.save(ctx, sess)
}

func (s *EditorService) save(ctx context.Context, sess *domain.Session) error {
	sess.UpdatedAt = time.Now().UTC()
	return s.store.Save(ctx, sess)
}

func checkGraph(g *bp.Graph) error {
	if g == nil {
		return &bp.InvalidGraphStructureError{Field: "graph", Reason: "is missing"}
	}
	if g.Name == "" {
		g.Name = bp.DefaultBlueprintName
	}
	if g.Nodes == nil {
		g.Nodes = []bp.GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []bp.GraphEdge{}
	}

	nodes := make(map[string]*bp.GraphNode, len(g.Nodes))
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.ID == "" || nodes[n.ID] != nil {
			return nodeErr(i, "id", "must be unique and non-empty")
		}
		if strings.TrimSpace(n.Title) == "" {
			return nodeErr(i, "title", "must be a non-empty string")
		}
		if strings.TrimSpace(string(n.NodeType)) == "" {
			return nodeErr(i, "nodeType", "must be a non-empty string")
		}
		if n.Inputs == nil {
			n.Inputs = []bp.PinSpec{}
		}
		if n.Outputs == nil {
			n.Outputs = []bp.PinSpec{}
		}
		nodes[n.ID] = n
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for i := range g.Edges {
		e := &g.Edges[i]
		if e.ID == "" || edgeIDs[e.ID] {
			return edgeErr(i, "id", "must be unique and non-empty")
		}
		edgeIDs[e.ID] = true

		src, tgt := nodes[e.SourceNodeID], nodes[e.TargetNodeID]
		if src == nil || tgt == nil {
			return edgeErr(i, "source/target", "must reference nodes of the graph")
		}
		sp := pinByKey(src.Outputs, e.SourcePinKey)
		if sp == nil {
			return edgeErr(i, "sourceHandle", fmt.Sprintf("%q is not an output of node %s", e.SourcePinKey, src.ID))
		}
		tp := pinByKey(tgt.Inputs, e.TargetPinKey)
		if tp == nil {
			return edgeErr(i, "targetHandle", fmt.Sprintf("%q is not an input of node %s", e.TargetPinKey, tgt.ID))
		}
		if !mapper.Compatible(sp.Type, tp.Type) {
			return edgeErr(i, "targetHandle", fmt.Sprintf("cannot connect %s to %s", sp.Type, tp.Type))
		}
		e.PinType = sp.Type
		e.ControlFlow = sp.Type.IsExec() && tp.Type.IsExec()
	}
	return nil
}

func pinByKey(pins []bp.PinSpec, key string) *bp.PinSpec {
	for i := range pins {
		if pinkey.Key(pins[i].Type, pins[i].Name) == key {
			return &pins[i]
		}
	}
	return nil
}

func nodeErr(i int, field, reason string) error {
	return &bp.InvalidGraphStructureError{Field: field, Kind: "node", Index: i, Reason: reason}
}

func edgeErr(i int, field, reason string) error {
	return &bp.InvalidGraphStructureError{Field: field, Kind: "edge", Index: i, Reason: reason}
}
