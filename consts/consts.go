// Package consts defines cross-module constants used throughout the application.
package consts

// ServiceName is the application service name
const ServiceName = "doctest"

// Report file constants
const (
	// HTMLExtension is the extension of rendered report and index pages
	HTMLExtension = ".html"

	// PDFExtension is the extension of exported PDF reports
	PDFExtension = ".pdf"

	// IndexName is the file stem of the index page
	IndexName = "index"

	// SectionAnchorPrefix prefixes the positional anchor of every section
	SectionAnchorPrefix = "section"

	// DefaultOutputDir is where reports are written when nothing is configured
	DefaultOutputDir = "target/doctest"
)

// Project information constants
const (
	// ProjectName is the display name of the project
	ProjectName = "DocTest"

	// ProjectURL is the GitHub repository URL
	ProjectURL = "https://github.com/verustcode/doctest"
)

// Build information - set via ldflags during build or programmatically
var (
	// Version is the application version
	Version = "dev"

	// BuildTime is the build timestamp
	BuildTime = "unknown"

	// GitCommit is the git commit hash
	GitCommit = "unknown"
)
