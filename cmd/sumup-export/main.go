// Command sumup-export renders stored summaries to files without running the
// HTTP server.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sumup-export",
		Short:         "Render SumUp summaries to PDF, PNG, text, Markdown, JSON or DOCX",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRenderCmd(), newPreviewCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
