package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noder-app/noder-backend/internal/auth"
	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	bpservice "github.com/noder-app/noder-backend/internal/blueprint/service"
	"github.com/noder-app/noder-backend/internal/editor/repository"
	"github.com/noder-app/noder-backend/internal/editor/service"
	"github.com/noder-app/noder-backend/internal/generation/client"
)

const payload = `{"blueprintName":"Greeter","nodes":[
	{"id":"a","title":"Event BeginPlay","nodeType":"event","inputs":[],"outputs":[{"name":"Event","type":"exec"}]},
	{"id":"b","title":"Print String","nodeType":"function","inputs":[{"name":"Execute","type":"exec"}],"outputs":[]}
],"connections":[{"sourceNodeId":"a","sourcePinName":"Event","targetNodeId":"b","targetPinName":"Execute"}]}`

type stubGen struct {
	text string
	err  error
}

func (s stubGen) Generate(context.Context, string) (string, error) { return s.text, s.err }

func setup(gen service.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	pipeline := bpservice.NewPipeline()
	svc := service.NewEditorService(repository.NewMemoryStore(), gen, pipeline, time.Minute)

	r := gin.New()
	r.Use(auth.OptionalUser())
	New(svc).Register(r.Group("/api/v1/editor"))
	NewBlueprintHandler(pipeline).Register(r.Group("/api/v1/blueprints"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/v1/editor/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Session struct {
			ID string `json:"id"`
		} `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Session.ID
}

func TestGenerateFlow(t *testing.T) {
	r := setup(stubGen{text: payload})
	id := createSession(t, r)

	w := do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/generate", `{"query":"print hello"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"controlFlow":true`)

	w = do(r, http.MethodGet, "/api/v1/editor/sessions/"+id+"/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	var p bp.RawGraphPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Greeter", p.Name)
	assert.Len(t, p.Connections, 1)

	w = do(r, http.MethodGet, "/api/v1/editor/sessions/"+id+"/export?format=yaml", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blueprintName: Greeter")

	w = do(r, http.MethodGet, "/api/v1/editor/sessions/"+id+"/export?format=dot", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "digraph G")

	w = do(r, http.MethodGet, "/api/v1/editor/sessions/"+id+"/export?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerate_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		gen    stubGen
		status int
	}{
		{"malformed", stubGen{text: "sorry"}, http.StatusBadGateway},
		{"invalid structure", stubGen{text: `{"nodes":[]}`}, http.StatusUnprocessableEntity},
		{"network", stubGen{err: &bp.NetworkFailureError{Op: "generate", Err: errors.New("refused")}}, http.StatusBadGateway},
		{"upstream", stubGen{err: &client.UpstreamStatusError{Status: 500, Message: "Server error"}}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := setup(tc.gen)
			id := createSession(t, r)
			w := do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/generate", `{"query":"x"}`)
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), `"ok":false`)
		})
	}
}

func TestGenerate_MissingQuery(t *testing.T) {
	r := setup(stubGen{text: payload})
	id := createSession(t, r)
	w := do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/generate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionNotFound(t *testing.T) {
	r := setup(stubGen{})
	w := do(r, http.MethodGet, "/api/v1/editor/sessions/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionsAreScopedToUser(t *testing.T) {
	r := setup(stubGen{})
	id := createSession(t, r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/editor/sessions/"+id, nil)
	req.Header.Set("X-User-Id", "mallory")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoadClearArrange(t *testing.T) {
	r := setup(stubGen{})
	id := createSession(t, r)

	body, _ := json.Marshal(map[string]string{"content": payload})
	w := do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/load", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/arrange?mode=grid", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/arrange?mode=spiral", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodDelete, "/api/v1/editor/sessions/"+id+"/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"New Blueprint"`)
}

func TestSaveGraph_RejectsDanglingEdge(t *testing.T) {
	r := setup(stubGen{})
	id := createSession(t, r)

	g := `{"name":"x","nodes":[{"id":"n1","title":"A","nodeType":"event","inputs":[],"outputs":[],"position":{"x":0,"y":0}}],
		"edges":[{"id":"e1","source":"n1","sourceHandle":"exec-then","target":"n2","targetHandle":"exec-execute","pinType":"exec","controlFlow":true}]}`
	w := do(r, http.MethodPut, "/api/v1/editor/sessions/"+id+"/graph", g)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStatelessIngestAndExport(t *testing.T) {
	r := setup(stubGen{})

	w := do(r, http.MethodPost, "/api/v1/blueprints/ingest", "Model says:\n"+payload+"\nbye")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Graph    bp.Graph     `json:"graph"`
		Warnings []bp.Warning `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Graph.Nodes, 2)
	assert.Empty(t, resp.Warnings)

	graphJSON, _ := json.Marshal(resp.Graph)
	w = do(r, http.MethodPost, "/api/v1/blueprints/export", string(graphJSON))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sourcePinName":"event"`)

	w = do(r, http.MethodPost, "/api/v1/blueprints/ingest", "nothing useful")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIngest_OversizedBody(t *testing.T) {
	r := setup(stubGen{})

	big := `{"nodes":[],"connections":[],"pad":"` + strings.Repeat("x", maxIngestBytes) + `"}`
	w := do(r, http.MethodPost, "/api/v1/blueprints/ingest", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestLoad_MalformedContent(t *testing.T) {
	r := setup(stubGen{})
	id := createSession(t, r)

	body, _ := json.Marshal(map[string]string{"content": "not a blueprint"})
	w := do(r, http.MethodPost, "/api/v1/editor/sessions/"+id+"/load", string(body))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
