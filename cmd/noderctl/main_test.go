package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
)

const sample = "```json\n" + `{"blueprintName":"Greeter","nodes":[
	{"id":"a","title":"Event BeginPlay","nodeType":"event","inputs":[],"outputs":[{"name":"Event","type":"exec"}]},
	{"id":"b","title":"Print String","nodeType":"function","inputs":[{"name":"Execute","type":"exec"}],"outputs":[]}
],"connections":[
	{"sourceNodeId":"a","sourcePinName":"Event","targetNodeId":"b","targetPinName":"Execute"},
	{"sourceNodeId":"a","sourcePinName":"Event","targetNodeId":"ghost","targetPinName":"Execute"}
]}` + "\n```"

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestIngestCommand(t *testing.T) {
	out, errOut, err := run(t, "", "ingest", writeSample(t))
	require.NoError(t, err)
	assert.Contains(t, out, `"controlFlow": true`)
	assert.Contains(t, errOut, "unresolved connection")
}

func TestIngestCommand_Stdin(t *testing.T) {
	out, _, err := run(t, sample, "ingest", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Greeter"`)
}

func TestIngestCommand_Rejected(t *testing.T) {
	_, _, err := run(t, "no json at all", "ingest", "-")
	require.Error(t, err)
	assert.Equal(t, exitRejected, exitCode(err))
}

func TestExportCommand_YAML(t *testing.T) {
	out, _, err := run(t, "", "export", "--format", "yaml", writeSample(t))
	require.NoError(t, err)

	var p bp.RawGraphPayload
	require.NoError(t, yaml.Unmarshal([]byte(out), &p))
	assert.Equal(t, "Greeter", p.Name)
	assert.Len(t, p.Connections, 1)
}

func TestExportCommand_DotToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "g.dot")
	_, _, err := run(t, "", "export", "-f", "dot", "-o", target, writeSample(t))
	require.NoError(t, err)

	b, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "digraph G {"))
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	_, _, err := run(t, "", "export", "-f", "png", writeSample(t))
	require.Error(t, err)
	assert.Equal(t, exitError, exitCode(err))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestWatchDir(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() { done <- watchDir(ctx, dir, &out, ready) }()
	<-ready

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(sample), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"nodes":[]}`), 0o644))

	assert.Eventually(t, func() bool {
		s := out.String()
		return strings.Contains(s, "good.json: ok, 2 nodes, 1 edges, 1 warnings") &&
			strings.Contains(s, "bad.json: rejected")
	}, 5*time.Second, 20*time.Millisecond)
	assert.NotContains(t, out.String(), "notes.txt")

	cancel()
	require.NoError(t, <-done)
}
