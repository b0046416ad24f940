package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noder-app/noder-backend/internal/blueprint/export"
)

func newExportCmd() *cobra.Command {
	var (
		format string
		out    string
		dotBin string
	)

	cmd := &cobra.Command{
		Use:   "export <file|->",
		Short: "Ingest a file and write it as a payload (json, yaml) or a diagram (dot, svg)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := ingestFile(cmd, args[0])
			if err != nil {
				return err
			}
			reportWarnings(cmd.ErrOrStderr(), res.Warnings)

			var buf bytes.Buffer
			switch format {
			case "json":
				err = export.WriteJSON(&buf, export.ToPayload(res.Graph))
			case "yaml":
				err = export.WriteYAML(&buf, export.ToPayload(res.Graph))
			case "dot":
				buf.WriteString(export.ToDOT(res.Graph, res.Graph.Name))
			case "svg":
				var svg []byte
				svg, err = export.Render(cmd.Context(), export.ToDOT(res.Graph, res.Graph.Name), "svg", dotBin)
				buf.Write(svg)
			default:
				return fmt.Errorf("unknown format %q (want json, yaml, dot or svg)", format)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			return os.WriteFile(out, buf.Bytes(), 0o644)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, yaml, dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to this file instead of stdout")
	cmd.Flags().StringVar(&dotBin, "dot-bin", os.Getenv("DOT_BIN"), "GraphViz dot binary used for svg")
	return cmd
}
