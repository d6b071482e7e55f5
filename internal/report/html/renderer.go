package html

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/report/items"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
	"github.com/verustcode/doctest/pkg/telemetry"
)

// Templates looks up the HTML of items, menus and whole pages
type Templates interface {
	TemplateForItem(item items.DocItem) (string, error)
	ReportFileTemplate(report *items.ReportFile) (string, error)
	IndexTemplate(index *items.IndexFile) (string, error)
	ListFilesTemplate(menu *items.Menu) (string, error)
}

// JSONChecker decides whether a text is a JSON payload
type JSONChecker interface {
	IsJSONValid(s string) bool
}

// FileHelper resolves report names to paths and writes pages
type FileHelper interface {
	CompleteFileName(name, extension string) string
	WriteFile(path, content string) error
}

// IndexRenderer rewrites the index page. A nil file list means the
// renderer discovers the reports itself.
type IndexRenderer interface {
	Render(ctx context.Context, files []*items.Link, name, introduction string) error
}

// Result describes a written report
type Result struct {
	// Name is the report name the caller passed in
	Name string
	// Path is where the page was written
	Path string
	// Anchors holds the anchor assigned to each section, in document order
	Anchors []string
	// Menu is the table of contents, nil when the report has no sections
	Menu *items.Menu
}

// Renderer assembles a report page from an ordered list of items in a single pass
type Renderer struct {
	index     IndexRenderer
	templates Templates
	files     FileHelper
	json      JSONChecker
}

// NewRenderer creates a report renderer
func NewRenderer(index IndexRenderer, templates Templates, files FileHelper, json JSONChecker) *Renderer {
	return &Renderer{
		index:     index,
		templates: templates,
		files:     files,
		json:      json,
	}
}

// Render writes the report page for docItems under name and refreshes the index.
// An empty list is not an error: nothing is written and (nil, nil) is returned.
// Sections receive the anchors section1, section2, ... by position; the caller's
// items are not modified. Collaborator errors are returned unchanged.
func (r *Renderer) Render(ctx context.Context, docItems []items.DocItem, name, introduction string) (*Result, error) {
	if len(docItems) == 0 {
		logger.Debug("No items captured, skipping report", zap.String(logger.FieldReport, name))
		return nil, nil
	}

	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "report.render", telemetry.WithReportAttributes(name, len(docItems)))
	defer span.End()

	result, err := r.render(ctx, docItems, name, introduction)
	if err != nil {
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		telemetry.SetSpanError(span, err)
		telemetry.GetMetrics().RecordRenderError(ctx, code)
		logger.Error("Failed to render report",
			zap.String(logger.FieldReport, name),
			zap.Error(err),
		)
		return nil, err
	}

	span.SetAttributes(
		telemetry.AttrReportPath.String(result.Path),
		telemetry.AttrSectionCount.Int(len(result.Anchors)),
	)
	telemetry.SetSpanOK(span)
	telemetry.GetMetrics().RecordRender(ctx, len(docItems), time.Since(start).Seconds())

	logger.Info("Report written",
		zap.String(logger.FieldReport, name),
		zap.String("path", result.Path),
		zap.Int("items", len(docItems)),
		zap.Int("sections", len(result.Anchors)),
		zap.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (r *Renderer) render(ctx context.Context, docItems []items.DocItem, name, introduction string) (*Result, error) {
	var body strings.Builder
	var links []*items.Link
	var anchors []string

	for _, item := range docItems {
		switch v := item.(type) {
		case *items.Section:
			href := sectionAnchor(len(anchors) + 1)
			fragment, err := r.templates.TemplateForItem(v.WithHref(href))
			if err != nil {
				return nil, err
			}
			anchors = append(anchors, href)
			links = append(links, items.NewLink("#"+href, v.Title))
			body.WriteString(fragment)
		case *items.MultipleText:
			if err := r.renderMultipleText(&body, v); err != nil {
				return nil, err
			}
		default:
			fragment, err := r.templates.TemplateForItem(item)
			if err != nil {
				return nil, err
			}
			body.WriteString(fragment)
		}
	}

	content := body.String()

	var menu *items.Menu
	if len(links) > 0 {
		menu = &items.Menu{Files: links}
		// Looked up even when the menu renders empty.
		menuHTML, err := r.templates.ListFilesTemplate(menu)
		if err != nil {
			return nil, err
		}
		content = menuHTML + content
	}

	logger.Debug("Report body assembled",
		zap.String(logger.FieldReport, name),
		zap.Int("items", len(docItems)),
		zap.Int("sections", len(anchors)),
		zap.Int("bytes", len(content)),
	)

	page, err := r.templates.ReportFileTemplate(&items.ReportFile{
		Name:         name,
		Introduction: introduction,
		Items:        content,
	})
	if err != nil {
		return nil, err
	}

	path := r.files.CompleteFileName(name, consts.HTMLExtension)
	if err := r.files.WriteFile(path, page); err != nil {
		return nil, err
	}

	// A nil list makes the index renderer discover the reports on disk.
	if err := r.index.Render(ctx, nil, consts.IndexName, introduction); err != nil {
		return nil, err
	}

	return &Result{
		Name:    name,
		Path:    path,
		Anchors: anchors,
		Menu:    menu,
	}, nil
}

// renderMultipleText writes the label followed by one fragment per value,
// each value shown as JSON when it parses as JSON and as highlighted text otherwise
func (r *Renderer) renderMultipleText(body *strings.Builder, item *items.MultipleText) error {
	label, err := r.templates.TemplateForItem(item)
	if err != nil {
		return err
	}
	body.WriteString(label)

	for _, text := range item.Texts {
		var value items.DocItem
		if r.json.IsJSONValid(text) {
			value = &items.JSON{Payload: text}
		} else {
			value = &items.HighlightedText{Text: text}
		}

		fragment, err := r.templates.TemplateForItem(value)
		if err != nil {
			return err
		}
		body.WriteString(fragment)
	}
	return nil
}
