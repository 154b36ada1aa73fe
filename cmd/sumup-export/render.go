package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ductam7415vn/SumUp-sub002/internal/exporter"
	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/render"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

type renderOptions struct {
	input      string
	formats    []string
	outDir     string
	persona    string
	stylePath  string
	columns    int
	noValidate bool
	logLevel   string
}

func newRenderCmd() *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Export a summary file in one or more formats",
		Example: `  sumup-export render -i summary.json -f pdf,markdown
  cat summary.yaml | sumup-export render -i - -f image -o ./out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runRender(ctx, cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "summary JSON or YAML file, - for stdin")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", []string{"pdf"}, "formats to export ("+formatList()+")")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "exports", "output directory")
	cmd.Flags().StringVar(&opts.persona, "persona", "", "persona label, defaults to the summary's own")
	cmd.Flags().StringVar(&opts.stylePath, "style", "", "TOML style preset")
	cmd.Flags().IntVar(&opts.columns, "columns", 0, "wrap plain text at this many columns")
	cmd.Flags().BoolVar(&opts.noValidate, "no-validate", false, "skip PDF validation")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "emit JSON logs at this level")

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, opts renderOptions) error {
	s, err := readSummary(opts.input, cmd.InOrStdin())
	if err != nil {
		return err
	}

	formats := make([]models.ExportFormat, 0, len(opts.formats))
	for _, name := range opts.formats {
		f, err := models.ParseExportFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}

	style, err := render.LoadStyle(opts.stylePath)
	if err != nil {
		return err
	}
	if opts.columns > 0 {
		style.TextColumns = opts.columns
	}

	logger := utils.NewNopLogger()
	if opts.logLevel != "" {
		logger = utils.NewLogger(opts.logLevel, "")
	}

	exp := exporter.New(render.NewRegistry(style), exporter.Options{
		BaseDir:     opts.outDir,
		ValidatePDF: !opts.noValidate,
	}, logger)

	persona := ""
	if opts.persona != "" {
		persona = models.ParsePersona(opts.persona).DisplayName()
	}

	results, err := exp.ExportAll(ctx, s, persona, formats)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	ok := color.New(color.FgGreen, color.Bold)
	dim := color.New(color.Faint)
	for _, res := range results {
		ok.Fprintf(out, "✓ %-8s ", res.Format)
		fmt.Fprint(out, res.Path)
		detail := humanize.Bytes(uint64(res.Size))
		if res.Pages > 0 {
			detail += fmt.Sprintf(", %d pages", res.Pages)
		}
		dim.Fprintf(out, " (%s)\n", detail)
	}
	return nil
}

func formatList() string {
	names := make([]string, len(models.ExportFormats))
	for i, f := range models.ExportFormats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
