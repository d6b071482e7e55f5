// Package exporter converts written report pages into other formats.
package exporter

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
)

// ExportFormat represents the export format type
type ExportFormat string

const (
	// ExportFormatPDF represents PDF format
	ExportFormatPDF ExportFormat = "pdf"
)

// ReportExporter converts one HTML report page into another format
type ReportExporter interface {
	// ExportFile reads the page at htmlPath and writes the converted document to outputPath
	ExportFile(ctx context.Context, htmlPath, outputPath string) error
	// Name returns the human-readable name of the exporter (e.g., "PDF")
	Name() string
	// FileExtension returns the file extension for this format (e.g., ".pdf")
	FileExtension() string
}

// ExportManager manages all registered exporters
type ExportManager struct {
	exporters map[ExportFormat]ReportExporter
	mu        sync.RWMutex
}

// NewExportManager creates a new export manager
func NewExportManager() *ExportManager {
	return &ExportManager{
		exporters: make(map[ExportFormat]ReportExporter),
	}
}

// Register registers an exporter for a specific format
func (m *ExportManager) Register(format ExportFormat, exporter ReportExporter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.exporters[format] = exporter
	logger.Debug("Registered report exporter",
		zap.String("format", string(format)),
		zap.String("name", exporter.Name()),
	)
}

// Export converts the page at htmlPath next to itself, swapping the extension,
// and returns the path of the converted file
func (m *ExportManager) Export(ctx context.Context, htmlPath string, format ExportFormat) (string, error) {
	exporter, err := m.GetExporter(format)
	if err != nil {
		return "", err
	}

	outputPath := OutputPath(htmlPath, exporter.FileExtension())
	if err := exporter.ExportFile(ctx, htmlPath, outputPath); err != nil {
		return "", err
	}
	return outputPath, nil
}

// SupportedFormats returns the registered formats, sorted
func (m *ExportManager) SupportedFormats() []ExportFormat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	formats := make([]ExportFormat, 0, len(m.exporters))
	for format := range m.exporters {
		formats = append(formats, format)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// GetExporter returns the exporter for a specific format
func (m *ExportManager) GetExporter(format ExportFormat) (ReportExporter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exporter, ok := m.exporters[format]
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, "no exporter registered for format").
			WithDetails(string(format))
	}
	return exporter, nil
}

// OutputPath replaces the extension of htmlPath with ext
func OutputPath(htmlPath, ext string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ext
}
