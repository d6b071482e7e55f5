// Package jsonutil classifies and formats JSON payloads shown in reports.
package jsonutil

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// Helper checks and formats JSON text
type Helper struct{}

// NewHelper creates a new JSON helper
func NewHelper() *Helper {
	return &Helper{}
}

// IsJSONValid reports whether s is a JSON document. Blank strings are not JSON.
func (h *Helper) IsJSONValid(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	return gjson.Valid(s)
}

// Pretty indents a JSON payload. Input that is not valid JSON is returned unchanged.
func (h *Helper) Pretty(s string) string {
	if !h.IsJSONValid(s) {
		return s
	}
	return strings.TrimRight(string(pretty.Pretty([]byte(s))), "\n")
}
