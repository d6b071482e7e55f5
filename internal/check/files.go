package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/verustcode/doctest/internal/capture"
	"github.com/verustcode/doctest/internal/config"
	"github.com/verustcode/doctest/internal/configfiles"
)

// TemplateType represents the type of template file
type TemplateType int

const (
	TemplateConfig TemplateType = iota
	TemplateCapture
)

// FileConfig represents a file to check
type FileConfig struct {
	Path        string
	Description string
	Template    TemplateType
}

// FileCheckResult represents the result of a file check
type FileCheckResult struct {
	Path        string
	Exists      bool
	Created     bool
	Description string
	Error       error
}

// SampleCaptureName is the file name of the sample capture offered when no capture exists
const SampleCaptureName = "example.yaml"

// checkFiles checks the configuration and offers a sample capture when there is none
func (c *Checker) checkFiles() error {
	result := c.checkFile(FileConfig{
		Path:        c.configPath,
		Description: "DocTest configuration (output, pdf, server, logging)",
		Template:    TemplateConfig,
	})
	c.report.AddFileResult(result)
	if result.Error != nil {
		return result.Error
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		// reported by the validation step
		return nil
	}
	if len(capture.Expand(cfg.Output.Captures)) > 0 || len(cfg.Output.Captures) == 0 {
		return nil
	}

	result = c.checkFile(FileConfig{
		Path:        sampleCapturePath(cfg),
		Description: "Sample capture",
		Template:    TemplateCapture,
	})
	c.report.AddFileResult(result)
	return result.Error
}

// checkFile checks a single file and prompts for creation if missing
func (c *Checker) checkFile(file FileConfig) FileCheckResult {
	result := FileCheckResult{
		Path:        file.Path,
		Description: file.Description,
	}

	if fileExists(file.Path) {
		result.Exists = true
		printFileStatus(file.Path, true, false)
		return result
	}

	printFileStatus(file.Path, false, false)

	confirm, err := c.confirm(file.Path)
	if err != nil {
		result.Error = fmt.Errorf("failed to get user confirmation: %w", err)
		return result
	}
	if !confirm {
		return result
	}

	content, err := getTemplateContent(file.Template)
	if err != nil {
		result.Error = fmt.Errorf("failed to get template: %w", err)
		return result
	}

	if err := ensureDir(file.Path); err != nil {
		result.Error = err
		return result
	}

	if err := os.WriteFile(file.Path, content, 0644); err != nil {
		result.Error = fmt.Errorf("failed to create file %s: %w", file.Path, err)
		return result
	}

	result.Exists = true
	result.Created = true
	printFileCreated(file.Path)

	return result
}

// sampleCapturePath places the sample next to the first capture pattern
func sampleCapturePath(cfg *config.Config) string {
	return filepath.Join(filepath.Dir(cfg.Output.Captures[0]), SampleCaptureName)
}

// getTemplateContent returns the embedded template content
func getTemplateContent(t TemplateType) ([]byte, error) {
	switch t {
	case TemplateConfig:
		return configfiles.GetConfigExample()
	case TemplateCapture:
		return configfiles.GetCaptureExample()
	default:
		return nil, fmt.Errorf("unknown template type: %d", t)
	}
}

// printFileStatus prints the status of a file check
func printFileStatus(path string, exists bool, created bool) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	if exists {
		green.Printf("  ✓ %s\n", path)
	} else if created {
		green.Printf("  ✓ %s (created)\n", path)
	} else {
		yellow.Printf("  ⚠ %s does not exist\n", path)
	}
}

// printFileCreated prints a message when a file is created
func printFileCreated(path string) {
	green := color.New(color.FgGreen)
	green.Printf("  ✓ Created %s\n", path)
}
