package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	bpservice "github.com/noder-app/noder-backend/internal/blueprint/service"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <dir>",
		Short: "Re-ingest *.json files in a directory whenever they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return watchDir(ctx, args[0], cmd.OutOrStdout(), nil)
		},
	}
}

// watchDir reports on every write to a *.json file under dir until ctx is
// done. ready, if set, is closed once the watcher is registered.
func watchDir(ctx context.Context, dir string, out io.Writer, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	fmt.Fprintf(out, "watching %s\n", dir)
	if ready != nil {
		close(ready)
	}

	pipeline := bpservice.NewPipeline()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			report(ctx, out, pipeline, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "watch error: %v\n", err)
		}
	}
}

func report(ctx context.Context, out io.Writer, p *bpservice.Pipeline, path string) {
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", path, err)
		return
	}
	res, err := p.Ingest(ctx, string(b))
	if err != nil {
		fmt.Fprintf(out, "%s: rejected: %v\n", path, err)
		return
	}
	fmt.Fprintf(out, "%s: ok, %d nodes, %d edges, %d warnings\n",
		path, len(res.Graph.Nodes), len(res.Graph.Edges), len(res.Warnings))
	for _, w := range res.Warnings {
		fmt.Fprintf(out, "  %s\n", w.Err())
	}
}
