package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ductam7415vn/SumUp-sub002/internal/extractor"
)

func newPreviewCmd() *cobra.Command {
	var (
		width int
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "preview <export-file>",
		Short: "Print the text of an exported file; Markdown is rendered for the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()

			if strings.EqualFold(filepath.Ext(path), ".md") && !plain {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", path, err)
				}
				rendered, err := renderMarkdown(string(data), width)
				if err != nil {
					return err
				}
				fmt.Fprint(out, rendered)
				return nil
			}

			text, err := extractor.ExtractFile(path)
			if err != nil {
				return err
			}

			color.New(color.FgCyan, color.Bold).Fprintln(out, filepath.Base(path))
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "word wrap width for Markdown")
	cmd.Flags().BoolVar(&plain, "plain", false, "print Markdown source instead of rendering it")
	return cmd
}

func renderMarkdown(md string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render(md)
}
