package html

import (
	"context"

	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/report/items"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
	"github.com/verustcode/doctest/pkg/telemetry"
)

// ReportLister is a FileHelper that can also locate the index page and
// list the reports already written
type ReportLister interface {
	FileHelper
	IndexFileName(name, extension string) string
	ListReports(extension string) ([]string, error)
}

// IndexFileRenderer writes the index page of the output directory
type IndexFileRenderer struct {
	templates Templates
	files     ReportLister
}

// NewIndexFileRenderer creates an index renderer
func NewIndexFileRenderer(templates Templates, files ReportLister) *IndexFileRenderer {
	return &IndexFileRenderer{
		templates: templates,
		files:     files,
	}
}

// Render writes the index page under name. When files is nil every report
// found in the output directory is linked, in file name order.
func (r *IndexFileRenderer) Render(ctx context.Context, files []*items.Link, name, introduction string) error {
	_, span := telemetry.StartSpan(ctx, "report.index")
	defer span.End()

	if files == nil {
		discovered, err := r.discover()
		if err != nil {
			telemetry.SetSpanError(span, err)
			return errors.Wrap(errors.ErrCodeIndexRender, "failed to discover reports", err)
		}
		files = discovered
	}

	page, err := r.templates.IndexTemplate(&items.IndexFile{
		Files:        files,
		Introduction: introduction,
	})
	if err != nil {
		telemetry.SetSpanError(span, err)
		return errors.Wrap(errors.ErrCodeIndexRender, "failed to render index template", err)
	}

	path := r.files.IndexFileName(name, consts.HTMLExtension)
	if err := r.files.WriteFile(path, page); err != nil {
		telemetry.SetSpanError(span, err)
		return errors.Wrap(errors.ErrCodeIndexRender, "failed to write index", err)
	}

	logger.Debug("Index written",
		zap.String("path", path),
		zap.Int("reports", len(files)),
	)
	return nil
}

// discover links every report already present in the output directory
func (r *IndexFileRenderer) discover() ([]*items.Link, error) {
	names, err := r.files.ListReports(consts.HTMLExtension)
	if err != nil {
		return nil, err
	}

	links := make([]*items.Link, 0, len(names))
	for _, stem := range names {
		links = append(links, items.NewLink(stem+consts.HTMLExtension, DisplayName(stem)))
	}
	return links, nil
}
