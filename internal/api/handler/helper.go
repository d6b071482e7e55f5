package handler

import (
	"path/filepath"
	"strings"
)

// validateFilename reports whether name is a single path element that
// cannot escape the directory it is joined to
func validateFilename(name string) bool {
	if name == "" {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	if strings.Contains(name, "/") || strings.Contains(name, "\\") {
		return false
	}
	if strings.Contains(name, "\x00") {
		return false
	}

	// Catches anything Clean would rewrite
	cleaned := filepath.Clean(name)
	if cleaned != name || cleaned == "." || cleaned == ".." {
		return false
	}
	return true
}

// safeJoinPath joins baseDir and name, refusing results outside baseDir
func safeJoinPath(baseDir, name string) (string, bool) {
	if !validateFilename(name) {
		return "", false
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}

	cleanPath := filepath.Clean(filepath.Join(absBase, name))
	if !strings.HasPrefix(cleanPath, absBase+string(filepath.Separator)) && cleanPath != absBase {
		return "", false
	}
	return cleanPath, true
}
