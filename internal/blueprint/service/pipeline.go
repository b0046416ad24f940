package service

import (
	"context"
	"errors"

	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/ingest/extract"
	"github.com/noder-app/noder-backend/internal/blueprint/ingest/mapper"
	"github.com/noder-app/noder-backend/internal/blueprint/ingest/validator"
	"github.com/noder-app/noder-backend/internal/blueprint/layout"
	"github.com/noder-app/noder-backend/internal/platform/logging"
	"github.com/noder-app/noder-backend/internal/platform/metrics"
)

const previewLen = 200

// Pipeline turns generator output into a laid-out graph. It holds no
// per-call state and is safe for concurrent use.
type Pipeline struct {
	mapper *mapper.Mapper
}

type Option func(*Pipeline)

// WithIDGenerator replaces the uuid generator used for node and edge ids.
func WithIDGenerator(fn func() string) Option {
	return func(p *Pipeline) { p.mapper = mapper.NewWithIDs(fn) }
}

func NewPipeline(opts ...Option) *Pipeline {
	p := &Pipeline{mapper: mapper.New()}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Ingest extracts, validates, maps and lays out the graph held in text.
// Structural problems abort with an error; bad connections are dropped and
// reported in the result's warnings.
func (p *Pipeline) Ingest(ctx context.Context, text string) (*domain.IngestResult, error) {
	logger := logging.FromContext(ctx)

	v, err := extract.Extract(text)
	if err != nil {
		var me *domain.MalformedResponseError
		if errors.As(err, &me) {
			logger.LogWarnf("ingest", "malformed generator response", "error", me.ParseErr, "preview", me.Preview(previewLen))
		}
		metrics.IngestTotal.WithLabelValues("malformed").Inc()
		return nil, err
	}
	return p.IngestValue(ctx, v)
}

// IngestValue runs the pipeline on an already parsed JSON value.
func (p *Pipeline) IngestValue(ctx context.Context, v any) (*domain.IngestResult, error) {
	payload, err := validator.Decode(v)
	if err != nil {
		logging.FromContext(ctx).LogWarnf("ingest", "rejected graph payload", "error", err)
		metrics.IngestTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}
	return p.IngestPayload(ctx, payload), nil
}

// IngestPayload maps and lays out a typed payload. It cannot fail.
func (p *Pipeline) IngestPayload(ctx context.Context, payload *domain.RawGraphPayload) *domain.IngestResult {
	logger := logging.FromContext(ctx)

	res := p.mapper.Map(payload)
	layout.Place(res.Graph.Nodes)

	for _, w := range res.Warnings {
		logger.LogWarnf("ingest", "graph warning", "kind", w.Kind, "index", w.Index, "message", w.Message)
		switch w.Kind {
		case domain.WarnUnknownNode, domain.WarnUnknownPin, domain.WarnTypeMismatch:
			metrics.DroppedConnections.WithLabelValues(string(w.Kind)).Inc()
		}
	}

	metrics.IngestTotal.WithLabelValues("ok").Inc()
	metrics.IngestNodes.Observe(float64(len(res.Graph.Nodes)))
	logger.LogInfof("ingest", "graph built", "nodes", len(res.Graph.Nodes), "edges", len(res.Graph.Edges), "warnings", len(res.Warnings))
	return res
}
