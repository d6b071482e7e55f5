package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/capture"
	"github.com/verustcode/doctest/internal/cli"
	"github.com/verustcode/doctest/internal/config"
	"github.com/verustcode/doctest/internal/files"
	"github.com/verustcode/doctest/internal/jsonutil"
	"github.com/verustcode/doctest/internal/report/exporter"
	"github.com/verustcode/doctest/internal/report/html"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/idgen"
	"github.com/verustcode/doctest/pkg/logger"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render [capture files...]",
	Short: "Render capture files into HTML reports",
	Long: `Render one HTML report per capture file and refresh the index page.

Without arguments the capture globs of output.captures are rendered:
  doctest render
  doctest render target/doctest/captures/users.yaml --pdf`,
	RunE: runRender,
}

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rewrite the index page from the reports in the output directory",
	Args:  cobra.NoArgs,
	RunE:  runIndex,
}

func init() {
	renderCmd.Flags().StringP("out", "o", "", "output directory (overrides config)")
	renderCmd.Flags().Bool("pdf", false, "also export every report to PDF")
	renderCmd.Flags().String("introduction", "", "introduction used when a capture has none (overrides config)")

	indexCmd.Flags().StringP("out", "o", "", "output directory (overrides config)")
	indexCmd.Flags().String("introduction", "", "introduction shown on the index (overrides config)")
}

// pipeline wires the renderer and its collaborators for one output directory
type pipeline struct {
	cfg      *config.Config
	files    *files.Helper
	index    *html.IndexFileRenderer
	renderer *html.Renderer
	exports  *exporter.ExportManager
}

// newPipeline builds the render pipeline described by cfg.
// PDF export is only registered when enabled.
func newPipeline(cfg *config.Config) *pipeline {
	fileHelper := files.NewHelper(cfg.Output.Dir)
	templates := html.NewItems()
	index := html.NewIndexFileRenderer(templates, fileHelper)

	p := &pipeline{
		cfg:      cfg,
		files:    fileHelper,
		index:    index,
		renderer: html.NewRenderer(index, templates, fileHelper, jsonutil.NewHelper()),
	}

	if cfg.PDF.Enabled {
		opts := exporter.DefaultPDFOptions()
		opts.Timeout = cfg.PDF.TimeoutDuration()
		opts.PaperWidth = cfg.PDF.PaperWidth
		opts.PaperHeight = cfg.PDF.PaperHeight
		opts.PrintBackground = cfg.PDF.PrintBackground
		opts.ChromePath = cfg.PDF.ChromePath

		p.exports = exporter.NewExportManager()
		p.exports.Register(exporter.ExportFormatPDF, exporter.NewPDFExporterWithOptions(opts))
	}

	return p
}

// renderCapture renders the capture at path and exports it when PDF is enabled
func (p *pipeline) renderCapture(ctx context.Context, path string) cli.Outcome {
	outcome := cli.Outcome{
		Source: path,
		Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	c, err := capture.Load(path)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	outcome.Name = c.Name
	outcome.Items = len(c.Items)

	introduction := c.Introduction
	if introduction == "" {
		introduction = p.cfg.Report.Introduction
	}

	result, err := p.renderer.Render(ctx, c.Items, c.Name, introduction)
	if err != nil {
		outcome.Err = err
		return outcome
	}
	if result == nil {
		return outcome
	}
	outcome.Path = result.Path
	outcome.Sections = len(result.Anchors)

	if p.exports != nil {
		pdfPath, err := p.exports.Export(ctx, result.Path, exporter.ExportFormatPDF)
		if err != nil {
			outcome.Err = err
			return outcome
		}
		outcome.PDF = pdfPath
	}

	return outcome
}

// run renders every capture in order. Captures are rendered one at a time
// so each index rewrite sees every report written before it.
func (p *pipeline) run(ctx context.Context, paths []string, summary *cli.Summary) {
	log := logger.WithRunContext(summary.RunID)
	log.Info("Rendering captures",
		zap.Int("captures", len(paths)),
		zap.String("output_dir", p.cfg.Output.Dir),
	)

	start := time.Now()
	for _, path := range paths {
		if ctx.Err() != nil {
			summary.Add(cli.Outcome{Source: path, Err: ctx.Err()})
			continue
		}
		outcome := p.renderCapture(ctx, path)
		if outcome.Err != nil {
			log.Error("Failed to render capture",
				zap.String("capture", path),
				zap.Error(outcome.Err),
			)
		}
		summary.Add(outcome)
	}
	summary.Duration = time.Since(start)
}

// applyOutputFlags overrides the output settings shared by render and index
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) error {
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		cfg.Output.Dir = out
	}
	if intro, _ := cmd.Flags().GetString("introduction"); intro != "" {
		cfg.Report.Introduction = intro
	}
	return cfg.Validate()
}

// capturePaths returns the captures named on the command line, or those
// matched by the configured globs when none are given
func capturePaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		return capture.Expand(cfg.Output.Captures), nil
	}
	for _, arg := range args {
		if _, err := os.Stat(arg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileRead, "capture file not found: "+arg, err)
		}
	}
	return args, nil
}

// runRender renders capture files into reports
func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if pdf, _ := cmd.Flags().GetBool("pdf"); pdf {
		cfg.PDF.Enabled = true
	}
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return err
	}

	shutdown, err := setup(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	paths, err := capturePaths(args, cfg)
	if err != nil {
		return err
	}

	summary := cli.NewSummary(idgen.NewRunID(), cfg.Output.Dir)
	newPipeline(cfg).run(cmd.Context(), paths, summary)
	summary.Print(cmd.OutOrStdout())

	return summary.FirstError()
}

// runIndex rewrites the index page without rendering any capture
func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applyOutputFlags(cmd, cfg); err != nil {
		return err
	}

	shutdown, err := setup(cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	p := newPipeline(cfg)
	if err := p.index.Render(cmd.Context(), nil, consts.IndexName, cfg.Report.Introduction); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Index written to %s\n", p.files.IndexFileName(consts.IndexName, consts.HTMLExtension))
	return nil
}
