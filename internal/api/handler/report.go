// Package handler provides the HTTP handlers of the preview server.
package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/report/html"
	"github.com/verustcode/doctest/pkg/errors"
	"github.com/verustcode/doctest/pkg/logger"
)

// ReportStore lists the reports present in the output directory
type ReportStore interface {
	OutputDir() string
	ListReports(extension string) ([]string, error)
}

// ReportSummary describes one rendered report
type ReportSummary struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	URL   string `json:"url"`
	PDF   string `json:"pdf,omitempty"`
}

// ReportHandler serves rendered reports and their listing
type ReportHandler struct {
	store ReportStore
}

// NewReportHandler creates a new report handler
func NewReportHandler(store ReportStore) *ReportHandler {
	return &ReportHandler{store: store}
}

// ListReports handles GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	names, err := h.store.ListReports(consts.HTMLExtension)
	if err != nil {
		_ = c.Error(err)
		return
	}

	reports := make([]ReportSummary, 0, len(names))
	for _, name := range names {
		reports = append(reports, h.summary(name))
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  reports,
		"total": len(reports),
	})
}

// GetReport handles GET /api/v1/reports/:name
func (h *ReportHandler) GetReport(c *gin.Context) {
	name := c.Param("name")
	if _, ok := h.page(name, consts.HTMLExtension); !ok {
		_ = c.Error(errors.ErrNotFound("report").WithDetails(name))
		return
	}
	c.JSON(http.StatusOK, h.summary(name))
}

// ServeIndex handles GET / by serving the index page
func (h *ReportHandler) ServeIndex(c *gin.Context) {
	h.serveFile(c, consts.IndexName+consts.HTMLExtension)
}

// ServeFile handles GET /reports/:file by serving a page or PDF from the output directory
func (h *ReportHandler) ServeFile(c *gin.Context) {
	file := c.Param("file")
	switch filepath.Ext(file) {
	case consts.HTMLExtension, consts.PDFExtension:
	default:
		_ = c.Error(errors.ErrNotFound("file").WithDetails(file))
		return
	}
	h.serveFile(c, file)
}

func (h *ReportHandler) serveFile(c *gin.Context, file string) {
	path, ok := safeJoinPath(h.store.OutputDir(), file)
	if !ok {
		logger.Warn("Rejected unsafe file name", zap.String("file", file))
		_ = c.Error(errors.ErrNotFound("file").WithDetails(file))
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		_ = c.Error(errors.ErrNotFound("file").WithDetails(file))
		return
	}
	c.File(path)
}

// page returns the path of name's file with the given extension, if it exists
func (h *ReportHandler) page(name, extension string) (string, bool) {
	if name == "" || name == consts.IndexName || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	path, ok := safeJoinPath(h.store.OutputDir(), name+extension)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (h *ReportHandler) summary(name string) ReportSummary {
	s := ReportSummary{
		Name:  name,
		Title: html.DisplayName(name),
		URL:   "/reports/" + name + consts.HTMLExtension,
	}
	if _, ok := h.page(name, consts.PDFExtension); ok {
		s.PDF = "/reports/" + name + consts.PDFExtension
	}
	return s
}
