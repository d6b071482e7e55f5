// Package recorder collects documentation items while a test runs and hands
// them to the report renderer when the test is done.
//
// A test suite typically keeps one recorder per test:
//
//	rec := recorder.NewFileRecorder("target/doctest", "UserApiTest")
//	rec.Section("Create user")
//	rec.Request("POST", "/users", body, headers, nil)
//	rec.Response(resp.StatusCode, respBody, nil, nil)
//	rec.Assert(201, resp.StatusCode)
//	_, err := rec.Flush(ctx)
package recorder

import (
	"context"
	"fmt"
	"sync"

	"github.com/verustcode/doctest/internal/capture"
	"github.com/verustcode/doctest/internal/files"
	"github.com/verustcode/doctest/internal/jsonutil"
	"github.com/verustcode/doctest/internal/report/html"
	"github.com/verustcode/doctest/internal/report/items"
)

// ReportRenderer renders a list of items as one report
type ReportRenderer interface {
	Render(ctx context.Context, docItems []items.DocItem, name, introduction string) (*html.Result, error)
}

// Recorder accumulates the items of one report. It is safe for concurrent use
// so parallel subtests can record into the same report.
type Recorder struct {
	mu           sync.Mutex
	renderer     ReportRenderer
	name         string
	introduction string
	items        []items.DocItem
}

// New creates a recorder for the report called name
func New(renderer ReportRenderer, name string) *Recorder {
	return &Recorder{
		renderer: renderer,
		name:     name,
	}
}

// NewFileRecorder creates a recorder whose Flush writes the report page and
// refreshes the index in outputDir
func NewFileRecorder(outputDir, name string) *Recorder {
	return New(NewFileRenderer(outputDir), name)
}

// NewFileRenderer creates the HTML renderer writing to outputDir. Recorders
// of one suite may share it.
func NewFileRenderer(outputDir string) ReportRenderer {
	fileHelper := files.NewHelper(outputDir)
	templates := html.NewItems()
	index := html.NewIndexFileRenderer(templates, fileHelper)
	return html.NewRenderer(index, templates, fileHelper, jsonutil.NewHelper())
}

// Name returns the report name
func (r *Recorder) Name() string {
	return r.name
}

// Introduction sets the text shown above the report and on the index page
func (r *Recorder) Introduction(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.introduction = text
}

// Section starts a new section
func (r *Recorder) Section(title string) {
	r.add(&items.Section{Title: title})
}

// Say records Markdown prose
func (r *Recorder) Say(text string) {
	r.add(&items.Text{Text: text})
}

// SayValues records a label followed by values. Each value is shown
// as JSON when it parses as JSON.
func (r *Recorder) SayValues(label string, values ...string) {
	texts := make([]string, len(values))
	copy(texts, values)
	r.add(&items.MultipleText{Label: label, Texts: texts})
}

// Request records an outgoing HTTP request
func (r *Recorder) Request(method, uri, payload string, headers, cookies map[string]string) {
	r.add(&items.Request{
		Method:  method,
		URI:     uri,
		Payload: payload,
		Headers: cloneMap(headers),
		Cookies: cloneMap(cookies),
	})
}

// Response records the HTTP response received
func (r *Recorder) Response(status int, payload string, headers, cookies map[string]string) {
	r.add(&items.Response{
		Status:  status,
		Payload: payload,
		Headers: cloneMap(headers),
		Cookies: cloneMap(cookies),
	})
}

// Assert records an assertion. Values are formatted with their default format.
func (r *Recorder) Assert(expected, actual any) {
	r.add(&items.Assert{
		Expected: format(expected),
		Actual:   format(actual),
	})
}

// Items returns a snapshot of the recorded items
func (r *Recorder) Items() []items.DocItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]items.DocItem, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of recorded items
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Flush renders the recorded items and clears them. The items are kept
// when rendering fails so the caller may retry.
func (r *Recorder) Flush(ctx context.Context) (*html.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.renderer.Render(ctx, r.items, r.name, r.introduction)
	if err != nil {
		return nil, err
	}
	r.items = nil
	return result, nil
}

// Dump saves the recorded items as a capture file for later rendering
func (r *Recorder) Dump(path string) error {
	r.mu.Lock()
	c := &capture.Capture{
		Name:         r.name,
		Introduction: r.introduction,
		Items:        make([]items.DocItem, len(r.items)),
	}
	copy(c.Items, r.items)
	r.mu.Unlock()

	return capture.Save(path, c)
}

func (r *Recorder) add(item items.DocItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, item)
}

func cloneMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func format(v any) string {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprint(v)
}
