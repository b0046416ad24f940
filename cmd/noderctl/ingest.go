package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	bp "github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/blueprint/export"
	bpservice "github.com/noder-app/noder-backend/internal/blueprint/service"
)

func newIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|->",
		Short: "Ingest generator output and print the resulting graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingestFile(cmd, args[0])
			if err != nil {
				return err
			}
			reportWarnings(cmd.ErrOrStderr(), res.Warnings)
			return export.WriteJSON(cmd.OutOrStdout(), res)
		},
	}
}

func ingestFile(cmd *cobra.Command, path string) (*bp.IngestResult, error) {
	text, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	return bpservice.NewPipeline().Ingest(cmd.Context(), text)
}

func readInput(stdin io.Reader, path string) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}

func reportWarnings(w io.Writer, warnings []bp.Warning) {
	for _, warn := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warn.Err())
	}
}

// exitCode separates rejected input from other failures.
func exitCode(err error) int {
	if errors.Is(err, bp.ErrMalformedResponse) || errors.Is(err, bp.ErrInvalidGraphStructure) {
		return exitRejected
	}
	return exitError
}
