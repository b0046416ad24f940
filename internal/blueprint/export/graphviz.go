package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Render pipes a DOT document through the GraphViz binary and returns the
// rendered bytes in the requested format (svg by default).
func Render(ctx context.Context, dot, format, dotBin string) ([]byte, error) {
	if format == "" {
		format = "svg"
	}
	if dotBin == "" {
		dotBin = "dot"
	}

	if _, err := exec.LookPath(dotBin); err != nil {
		return nil, fmt.Errorf("graphviz: dot binary not found (%q): %w", dotBin, err)
	}

	var out, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, dotBin, "-T"+format)
	cmd.Stdin = strings.NewReader(dot)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz render: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
