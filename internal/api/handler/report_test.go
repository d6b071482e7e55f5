package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/doctest/internal/api/middleware"
	"github.com/verustcode/doctest/internal/files"
)

func setupReports(t *testing.T) (string, *gin.Engine) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"index.html":      "<h1>index</h1>",
		"user_api.html":   "<h1>users</h1>",
		"order-flow.html": "<h1>orders</h1>",
		"order-flow.pdf":  "%PDF-1.4",
		"notes.txt":       "ignored",
		"captures/x.yaml": "items: []",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(false))
	h := NewReportHandler(files.NewHelper(dir))
	r.GET("/", h.ServeIndex)
	r.GET("/reports/:file", h.ServeFile)
	r.GET("/api/v1/reports", h.ListReports)
	r.GET("/api/v1/reports/:name", h.GetReport)
	return dir, r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReportHandler_ListReports(t *testing.T) {
	_, r := setupReports(t)

	w := get(r, "/api/v1/reports")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data  []ReportSummary `json:"data"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.Equal(t, 2, body.Total)
	assert.Equal(t, []ReportSummary{
		{Name: "order-flow", Title: "Order Flow", URL: "/reports/order-flow.html", PDF: "/reports/order-flow.pdf"},
		{Name: "user_api", Title: "User Api", URL: "/reports/user_api.html"},
	}, body.Data)
}

func TestReportHandler_ListReportsEmptyDir(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(files.NewHelper(filepath.Join(t.TempDir(), "missing")))
	r.GET("/api/v1/reports", h.ListReports)

	w := get(r, "/api/v1/reports")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"total":0}`, w.Body.String())
}

func TestReportHandler_GetReport(t *testing.T) {
	_, r := setupReports(t)

	w := get(r, "/api/v1/reports/user_api")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"user_api","title":"User Api","url":"/reports/user_api.html"}`, w.Body.String())

	for _, name := range []string{"missing", "index", "..", "notes"} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/reports/"+name).Code)
		})
	}
}

func TestReportHandler_ServeIndex(t *testing.T) {
	_, r := setupReports(t)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<h1>index</h1>", w.Body.String())
}

func TestReportHandler_ServeIndexMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler(false))
	r.GET("/", NewReportHandler(files.NewHelper(t.TempDir())).ServeIndex)

	assert.Equal(t, http.StatusNotFound, get(r, "/").Code)
}

func TestReportHandler_ServeFile(t *testing.T) {
	_, r := setupReports(t)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/reports/user_api.html", http.StatusOK, "<h1>users</h1>"},
		{"/reports/order-flow.pdf", http.StatusOK, "%PDF-1.4"},
		{"/reports/notes.txt", http.StatusNotFound, ""},
		{"/reports/absent.html", http.StatusNotFound, ""},
		{"/reports/..%2Fsecret.html", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := get(r, tt.path)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "report.html", true},
		{"empty", "", false},
		{"dot dot", "..", false},
		{"traversal", "../etc/passwd", false},
		{"slash", "a/b.html", false},
		{"backslash", `a\b.html`, false},
		{"null byte", "a\x00.html", false},
		{"dot", ".", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateFilename(tt.input))
		})
	}
}

func TestSafeJoinPath(t *testing.T) {
	base := t.TempDir()

	path, ok := safeJoinPath(base, "users.html")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(base, "users.html"), path)

	_, ok = safeJoinPath(base, "../users.html")
	assert.False(t, ok)
}
