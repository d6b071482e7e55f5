// Package capture reads and writes capture files: the documentation items
// recorded by one test, stored as YAML so they can be rendered later.
// JSON capture files are accepted as well since JSON is valid YAML.
package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/verustcode/doctest/internal/report/items"
	"github.com/verustcode/doctest/pkg/errors"
)

// Capture is the content of one capture file
type Capture struct {
	Name         string
	Introduction string
	Items        []items.DocItem
}

// file is the on-disk layout of a capture
type file struct {
	Name         string  `yaml:"name"`
	Introduction string  `yaml:"introduction,omitempty"`
	Items        []entry `yaml:"items"`
}

// entry is one item of a capture file. Only the fields of its type are used.
type entry struct {
	Type     items.ItemType    `yaml:"type"`
	Title    string            `yaml:"title,omitempty"`
	Method   string            `yaml:"method,omitempty"`
	URI      string            `yaml:"uri,omitempty"`
	Status   int               `yaml:"status,omitempty"`
	Payload  payload           `yaml:"payload,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
	Cookies  map[string]string `yaml:"cookies,omitempty"`
	Expected string            `yaml:"expected,omitempty"`
	Actual   string            `yaml:"actual,omitempty"`
	Text     string            `yaml:"text,omitempty"`
	Label    string            `yaml:"label,omitempty"`
	Values   []string          `yaml:"values,omitempty"`
}

// payload accepts either a string or an inline YAML/JSON structure,
// which is stored as compact JSON
type payload string

// UnmarshalYAML implements yaml.Unmarshaler
func (p *payload) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*p = payload(node.Value)
		return nil
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("payload at line %d is not representable as JSON: %w", node.Line, err)
	}
	*p = payload(data)
	return nil
}

// Load reads a capture file
func Load(path string) (*Capture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileRead, "failed to read capture file", err).WithDetails(path)
	}

	capture, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if capture.Name == "" {
		capture.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return capture, nil
}

// Parse decodes capture content
func Parse(data []byte) (*Capture, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCaptureParse, "failed to parse capture", err)
	}

	capture := &Capture{
		Name:         f.Name,
		Introduction: f.Introduction,
		Items:        make([]items.DocItem, 0, len(f.Items)),
	}
	for i, e := range f.Items {
		item, err := e.toItem()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCaptureInvalid, fmt.Sprintf("invalid item %d", i+1), err)
		}
		capture.Items = append(capture.Items, item)
	}
	return capture, nil
}

// Save writes a capture file, creating parent directories as needed
func Save(path string, capture *Capture) error {
	f := file{
		Name:         capture.Name,
		Introduction: capture.Introduction,
		Items:        make([]entry, 0, len(capture.Items)),
	}
	for i, item := range capture.Items {
		e, err := fromItem(item)
		if err != nil {
			return errors.Wrap(errors.ErrCodeCaptureInvalid, fmt.Sprintf("invalid item %d", i+1), err)
		}
		f.Items = append(f.Items, e)
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCaptureInvalid, "failed to marshal capture", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to create capture directory", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFileWrite, "failed to write capture file", err)
	}
	return nil
}

func (e entry) toItem() (items.DocItem, error) {
	switch e.Type {
	case items.TypeSection:
		if e.Title == "" {
			return nil, fmt.Errorf("section requires a title")
		}
		return &items.Section{Title: e.Title}, nil
	case items.TypeRequest:
		if e.Method == "" || e.URI == "" {
			return nil, fmt.Errorf("request requires method and uri")
		}
		return &items.Request{
			Method:  e.Method,
			URI:     e.URI,
			Payload: string(e.Payload),
			Headers: e.Headers,
			Cookies: e.Cookies,
		}, nil
	case items.TypeResponse:
		return &items.Response{
			Status:  e.Status,
			Payload: string(e.Payload),
			Headers: e.Headers,
			Cookies: e.Cookies,
		}, nil
	case items.TypeAssert:
		return &items.Assert{Expected: e.Expected, Actual: e.Actual}, nil
	case items.TypeText:
		return &items.Text{Text: e.Text}, nil
	case items.TypeMultipleText:
		return &items.MultipleText{Label: e.Label, Texts: e.Values}, nil
	case items.TypeJSON:
		return &items.JSON{Payload: string(e.Payload)}, nil
	case items.TypeHighlightedText:
		return &items.HighlightedText{Text: e.Text}, nil
	case "":
		return nil, fmt.Errorf("missing type")
	default:
		return nil, fmt.Errorf("unsupported type %q", e.Type)
	}
}

func fromItem(item items.DocItem) (entry, error) {
	switch v := item.(type) {
	case *items.Section:
		return entry{Type: items.TypeSection, Title: v.Title}, nil
	case *items.Request:
		return entry{Type: items.TypeRequest, Method: v.Method, URI: v.URI, Payload: payload(v.Payload), Headers: v.Headers, Cookies: v.Cookies}, nil
	case *items.Response:
		return entry{Type: items.TypeResponse, Status: v.Status, Payload: payload(v.Payload), Headers: v.Headers, Cookies: v.Cookies}, nil
	case *items.Assert:
		return entry{Type: items.TypeAssert, Expected: v.Expected, Actual: v.Actual}, nil
	case *items.Text:
		return entry{Type: items.TypeText, Text: v.Text}, nil
	case *items.MultipleText:
		return entry{Type: items.TypeMultipleText, Label: v.Label, Values: v.Texts}, nil
	case *items.JSON:
		return entry{Type: items.TypeJSON, Payload: payload(v.Payload)}, nil
	case *items.HighlightedText:
		return entry{Type: items.TypeHighlightedText, Text: v.Text}, nil
	default:
		return entry{}, fmt.Errorf("item %T cannot be captured", item)
	}
}

// Expand resolves glob patterns into a sorted list of capture files.
// A file matched by several patterns is listed once; malformed patterns match nothing.
func Expand(patterns []string) []string {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)
	return paths
}
