// Package configfiles provides the embedded files used to initialise a project:
// a starter configuration and a sample capture.
package configfiles

import (
	"embed"
)

// ConfigExampleName is the embedded starter configuration
const ConfigExampleName = "doctest.example.yaml"

// CaptureExampleName is the embedded sample capture
const CaptureExampleName = "capture.example.yaml"

//go:embed doctest.example.yaml
//go:embed capture.example.yaml
var configFS embed.FS

// GetConfigExample returns the starter configuration file content
func GetConfigExample() ([]byte, error) {
	return configFS.ReadFile(ConfigExampleName)
}

// GetCaptureExample returns the sample capture file content
func GetCaptureExample() ([]byte, error) {
	return configFS.ReadFile(CaptureExampleName)
}
