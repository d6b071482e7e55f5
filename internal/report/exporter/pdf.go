package exporter

import (
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
	"github.com/verustcode/doctest/pkg/telemetry"
)

// PDFOptions contains configuration for PDF generation
type PDFOptions struct {
	// Paper dimensions in inches (A4: 8.27 x 11.69)
	PaperWidth  float64
	PaperHeight float64

	// Margins in inches
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64

	// Header and footer
	DisplayHeaderFooter bool

	// Print background colors and images
	PrintBackground bool

	// Scale of the webpage rendering (1.0 = 100%)
	Scale float64

	// Timeout for PDF generation
	Timeout time.Duration

	// ChromePath overrides the browser binary. CHROME_PATH is used when empty.
	ChromePath string
}

// DefaultPDFOptions returns default PDF options for A4 paper
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PaperWidth:  8.27,
		PaperHeight: 11.69,

		MarginTop:    0.59, // ~15mm
		MarginBottom: 0.59,
		MarginLeft:   0.79, // ~20mm
		MarginRight:  0.79,

		DisplayHeaderFooter: true,
		PrintBackground:     true,
		Scale:               1.0,
		Timeout:             120 * time.Second,
	}
}

// PDFExporter prints report pages to PDF using Chrome headless
type PDFExporter struct {
	options PDFOptions
}

// NewPDFExporter creates a new PDF exporter with default options
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{
		options: DefaultPDFOptions(),
	}
}

// NewPDFExporterWithOptions creates a new PDF exporter with custom options
func NewPDFExporterWithOptions(opts PDFOptions) *PDFExporter {
	return &PDFExporter{
		options: opts,
	}
}

// Options returns the options the exporter prints with
func (e *PDFExporter) Options() PDFOptions {
	return e.options
}

// Name returns the human-readable name of this exporter
func (e *PDFExporter) Name() string {
	return "PDF"
}

// FileExtension returns the file extension for PDF files
func (e *PDFExporter) FileExtension() string {
	return consts.PDFExtension
}

// ExportFile prints the page at htmlPath to a PDF written at pdfPath
func (e *PDFExporter) ExportFile(ctx context.Context, htmlPath, pdfPath string) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "report.export_pdf")
	defer span.End()
	defer func() {
		telemetry.GetMetrics().RecordPDFExport(ctx, err == nil)
		if err != nil {
			telemetry.SetSpanError(span, err)
		}
	}()

	absPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodePDFExport, "failed to resolve report path", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return errors.Wrap(errors.ErrCodeFileRead, "report page not found", err).WithDetails(htmlPath)
	}

	title := strings.TrimSuffix(filepath.Base(htmlPath), filepath.Ext(htmlPath))
	pdfData, err := e.print(ctx, "file://"+filepath.ToSlash(absPath), title)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(pdfPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to create PDF directory", err)
	}
	if err := os.WriteFile(pdfPath, pdfData, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to write PDF", err).WithDetails(pdfPath)
	}

	logger.Info("PDF exported",
		zap.String("path", pdfPath),
		zap.String("size", formatBytes(len(pdfData))),
	)
	return nil
}

// print loads url in a fresh headless browser and prints it
func (e *PDFExporter) print(ctx context.Context, url, title string) ([]byte, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.options.Timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, e.allocatorOptions()...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			logger.Debug(fmt.Sprintf("chromedp: "+format, args...))
		}),
	)
	defer browserCancel()

	header, footer := headerFooter(title)

	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfData, _, err = page.PrintToPDF().
				WithPaperWidth(e.options.PaperWidth).
				WithPaperHeight(e.options.PaperHeight).
				WithMarginTop(e.options.MarginTop).
				WithMarginBottom(e.options.MarginBottom).
				WithMarginLeft(e.options.MarginLeft).
				WithMarginRight(e.options.MarginRight).
				WithDisplayHeaderFooter(e.options.DisplayHeaderFooter).
				WithHeaderTemplate(header).
				WithFooterTemplate(footer).
				WithPrintBackground(e.options.PrintBackground).
				WithScale(e.options.Scale).
				WithPreferCSSPageSize(false).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		logger.Error("Failed to generate PDF",
			zap.String("url", url),
			zap.Error(err),
			zap.Duration("duration", time.Since(startTime)),
		)
		return nil, errors.Wrap(errors.ErrCodePDFExport, "failed to generate PDF", err)
	}

	logger.Debug("Chrome PrintToPDF completed",
		zap.String("url", url),
		zap.Int("pdf_size", len(pdfData)),
		zap.Duration("duration", time.Since(startTime)),
	)
	return pdfData, nil
}

func (e *PDFExporter) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
		// The default of 20s is too short on slow CI machines
		chromedp.WSURLReadTimeout(60*time.Second),
	)
	if path := e.chromePath(); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
	}
	return opts
}

func (e *PDFExporter) chromePath() string {
	if e.options.ChromePath != "" {
		return e.options.ChromePath
	}
	return os.Getenv("CHROME_PATH")
}

// headerFooter creates the page header and footer templates.
// Chrome fills elements with the pageNumber and totalPages classes.
func headerFooter(title string) (header, footer string) {
	header = fmt.Sprintf(`<div style="width:100%%; padding:0 20px; font-size:10px; font-family:system-ui,-apple-system,sans-serif; color:#666;">%s</div>`,
		html.EscapeString(title))

	footer = fmt.Sprintf(`<div style="width:100%%; padding:0 20px; font-size:9px; font-family:system-ui,-apple-system,sans-serif; color:#666; display:flex; justify-content:space-between;">
	<span>Generated by %s</span>
	<span>Page <span class="pageNumber"></span> of <span class="totalPages"></span></span>
</div>`, consts.ProjectName)

	return header, footer
}

// formatBytes converts bytes to human-readable format
func formatBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := int64(bytes) / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
