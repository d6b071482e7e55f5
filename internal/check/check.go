// Package check provides interactive environment checking and initialization.
// It helps users set up a DocTest project: configuration, captures and the PDF browser.
package check

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

// CheckResult represents the result of a non-interactive environment check
type CheckResult struct {
	// Success indicates whether all required checks passed
	Success bool
	// Errors contains problems that prevent rendering
	Errors []string
	// Warnings contains non-critical issues
	Warnings []string
	// Suggestions contains helpful tips for fixing issues
	Suggestions []string
}

// ConfirmFunc asks the user whether a missing file should be created
type ConfirmFunc func(path string) (bool, error)

// Checker handles environment checking and initialization
type Checker struct {
	configPath string
	report     *Report
	confirm    ConfirmFunc
}

// NewChecker creates a checker for the configuration at configPath that
// prompts in the terminal before creating files
func NewChecker(configPath string) *Checker {
	return &Checker{
		configPath: configPath,
		report:     NewReport(),
		confirm:    confirmCreate,
	}
}

// WithConfirm replaces the terminal prompt, e.g. to answer yes to everything
func (c *Checker) WithConfirm(confirm ConfirmFunc) *Checker {
	c.confirm = confirm
	return c
}

// Report returns the collected results
func (c *Checker) Report() *Report {
	return c.report
}

// Run executes the full environment check, offering to create missing files
func (c *Checker) Run() error {
	c.printHeader()

	fmt.Println()
	printSection("Checking configuration files")
	if err := c.checkFiles(); err != nil {
		return fmt.Errorf("file check failed: %w", err)
	}

	fmt.Println()
	printSection("Validating configuration and captures")
	c.validateAll()

	fmt.Println()
	c.report.Print()

	return nil
}

// printHeader prints the welcome header
func (c *Checker) printHeader() {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render("🔍 DocTest Environment Check"))
}

// printSection prints a section header
func printSection(title string) {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15"))
	fmt.Println(style.Render(title + "..."))
}

// confirmCreate asks user to confirm file creation
func confirmCreate(path string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Create %s from template?", path)).
		Affirmative("Yes").
		Negative("No").
		Value(&confirm).
		Run()
	if err != nil {
		return false, err
	}
	return confirm, nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensureDir creates the parent directory of path if it doesn't exist
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// RunNonInteractive performs the checks without prompting or creating files
func (c *Checker) RunNonInteractive() *CheckResult {
	result := &CheckResult{
		Success:     true,
		Errors:      make([]string, 0),
		Warnings:    make([]string, 0),
		Suggestions: make([]string, 0),
	}

	for _, v := range c.validations() {
		if !v.Valid {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", v.Path, v.Error))
		}
		result.Warnings = append(result.Warnings, v.Warnings...)
	}

	if !fileExists(c.configPath) {
		result.Suggestions = append(result.Suggestions,
			"Run 'doctest check' to create a starter configuration")
	}

	return result
}

// PrintCheckResult prints the check result in a formatted way
func PrintCheckResult(result *CheckResult) {
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	if len(result.Errors) > 0 {
		fmt.Println()
		red.Println("[ERROR] Environment check failed")
		fmt.Println()
		for _, err := range result.Errors {
			red.Printf("  ✗ %s\n", err)
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Println()
		yellow.Println("[WARNING] Configuration warnings:")
		fmt.Println()
		for _, warn := range result.Warnings {
			yellow.Printf("  ⚠ %s\n", warn)
		}
	}

	if len(result.Suggestions) > 0 {
		cyan.Println("\nTo fix these issues:")
		for _, suggestion := range result.Suggestions {
			fmt.Printf("  → %s\n", suggestion)
		}
	}

	fmt.Println()
}
