// Package files resolves report file names and writes rendered pages to the output directory.
package files

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
)

// maxNameLength limits sanitized file stems, in characters
const maxNameLength = 100

// reservedSuffix renames reports whose stem would be the index page's
const reservedSuffix = "_report"

// Helper owns the output directory of one doctest run
type Helper struct {
	outputDir string

	mu sync.Mutex
	// stems maps each report stem handed out to the report name that claimed it
	stems map[string]string
}

// NewHelper creates a file helper rooted at outputDir
func NewHelper(outputDir string) *Helper {
	if outputDir == "" {
		outputDir = consts.DefaultOutputDir
	}
	return &Helper{
		outputDir: outputDir,
		stems:     make(map[string]string),
	}
}

// OutputDir returns the directory reports are written to
func (h *Helper) OutputDir() string {
	return h.outputDir
}

// CompleteFileName resolves a report name to its path inside the output directory.
// A report named like the index page gets the stem "index_report".
func (h *Helper) CompleteFileName(name, extension string) string {
	stem := ReportStem(name)
	h.claim(stem, name)
	return filepath.Join(h.outputDir, stem+extension)
}

// IndexFileName resolves the path of the index page
func (h *Helper) IndexFileName(name, extension string) string {
	return filepath.Join(h.outputDir, SanitizeName(name)+extension)
}

// claim records that name writes to stem and reports whether a different
// report name already claimed it, in which case that report is overwritten.
func (h *Helper) claim(stem, name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	previous, ok := h.stems[stem]
	h.stems[stem] = name
	if !ok || previous == name {
		return false
	}

	logger.Warn("Report names map to the same file, the earlier report is overwritten",
		zap.String("stem", stem),
		zap.String(logger.FieldReport, name),
		zap.String("previous", previous),
	)
	return true
}

// WriteFile writes content to path, creating parent directories as needed
func (h *Helper) WriteFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to create output directory", err)
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to write file", err).WithDetails(path)
	}

	logger.Debug("File written",
		zap.String("path", path),
		zap.Int("bytes", len(content)),
	)
	return nil
}

// ListReports returns the stems of report files with the given extension, sorted by name.
// The index page itself is not a report and is skipped.
// A missing output directory yields an empty list.
func (h *Helper) ListReports(extension string) ([]string, error) {
	entries, err := os.ReadDir(h.outputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.ErrCodeFileRead, "failed to list output directory", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != extension {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), extension)
		if stem == consts.IndexName {
			continue
		}
		names = append(names, stem)
	}
	sort.Strings(names)
	return names, nil
}

// SanitizeName removes characters that are unsafe in file names
func SanitizeName(name string) string {
	unsafe := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|", " "}
	result := name
	for _, char := range unsafe {
		result = strings.ReplaceAll(result, char, "_")
	}

	for strings.Contains(result, "__") {
		result = strings.ReplaceAll(result, "__", "_")
	}

	result = strings.Trim(result, "_")

	if runes := []rune(result); len(runes) > maxNameLength {
		result = string(runes[:maxNameLength])
	}
	if result == "" {
		result = "report"
	}
	return result
}

// ReportStem returns the file stem of a report. The index page's stem is
// reserved, matched case-insensitively for case-insensitive filesystems.
func ReportStem(name string) string {
	stem := SanitizeName(name)
	if strings.EqualFold(stem, consts.IndexName) {
		stem += reservedSuffix
	}
	return stem
}
