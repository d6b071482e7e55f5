package check

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"

	"github.com/verustcode/doctest/internal/capture"
	"github.com/verustcode/doctest/internal/config"
)

// chromeCandidates are looked up on PATH when no browser is configured
var chromeCandidates = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"}

// ValidationResult represents the result of one validation
type ValidationResult struct {
	Path      string
	Valid     bool
	ItemCount int // for capture files
	Error     error
	Warnings  []string
}

// validateAll runs every validation, recording and printing the results
func (c *Checker) validateAll() {
	for _, result := range c.validations() {
		c.report.AddValidationResult(result)
		printValidationResult(result)
	}
}

// validations loads the configuration and, when it is valid, checks what it points at
func (c *Checker) validations() []ValidationResult {
	cfgResult, cfg := c.validateConfig()
	results := []ValidationResult{cfgResult}
	if cfg == nil {
		return results
	}

	results = append(results, validateOutputDir(cfg.Output.Dir))
	results = append(results, validateCaptures(cfg.Output.Captures)...)
	if cfg.PDF.Enabled {
		results = append(results, validateChrome(cfg.PDF.ChromePath))
	}
	return results
}

// validateConfig loads the configuration; a missing file is valid and yields the defaults
func (c *Checker) validateConfig() (ValidationResult, *config.Config) {
	result := ValidationResult{Path: c.configPath}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		result.Error = err
		return result, nil
	}
	if !fileExists(c.configPath) {
		result.Warnings = append(result.Warnings, "configuration file missing, using defaults")
	}
	result.Valid = true
	return result, cfg
}

// validateOutputDir checks that reports can be written to dir
func validateOutputDir(dir string) ValidationResult {
	result := ValidationResult{Path: dir}

	if err := os.MkdirAll(dir, 0755); err != nil {
		result.Error = fmt.Errorf("cannot create output directory: %w", err)
		return result
	}
	tmp, err := os.CreateTemp(dir, ".doctest-tmp-*")
	if err != nil {
		result.Error = fmt.Errorf("output directory is not writable: %w", err)
		return result
	}
	tmp.Close()
	os.Remove(tmp.Name())

	result.Valid = true
	return result
}

// validateCaptures parses every capture file matched by patterns
func validateCaptures(patterns []string) []ValidationResult {
	paths := capture.Expand(patterns)
	if len(paths) == 0 {
		return []ValidationResult{{
			Path:     fmt.Sprintf("%v", patterns),
			Valid:    true,
			Warnings: []string{"no capture files found"},
		}}
	}

	results := make([]ValidationResult, 0, len(paths))
	for _, path := range paths {
		result := ValidationResult{Path: path}
		c, err := capture.Load(path)
		if err != nil {
			result.Error = err
		} else {
			result.Valid = true
			result.ItemCount = len(c.Items)
			if len(c.Items) == 0 {
				result.Warnings = append(result.Warnings, fmt.Sprintf("%s has no items and renders nothing", path))
			}
		}
		results = append(results, result)
	}
	return results
}

// validateChrome checks that a browser for PDF export can be found
func validateChrome(configured string) ValidationResult {
	path, err := findChrome(configured)
	if err != nil {
		return ValidationResult{Path: "chrome", Error: err}
	}
	return ValidationResult{Path: path, Valid: true}
}

// findChrome resolves the browser binary: the configured path, CHROME_PATH, then PATH
func findChrome(configured string) (string, error) {
	for _, p := range []string{configured, os.Getenv("CHROME_PATH")} {
		if p == "" {
			continue
		}
		if fileExists(p) {
			return p, nil
		}
		return "", fmt.Errorf("chrome not found at %s", p)
	}

	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("chrome not found on PATH, set pdf.chrome_path or CHROME_PATH")
}

// printValidationResult prints a single validation result
func printValidationResult(result ValidationResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	switch {
	case !result.Valid:
		red.Printf("  ✗ %s: %v\n", result.Path, result.Error)
	case result.ItemCount > 0:
		green.Printf("  ✓ %s (%d items)\n", result.Path, result.ItemCount)
	default:
		green.Printf("  ✓ %s\n", result.Path)
	}
	for _, w := range result.Warnings {
		yellow.Printf("    ⚠ %s\n", w)
	}
}
