package files

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/pkg/errors"
)

func TestNewHelper_DefaultDir(t *testing.T) {
	h := NewHelper("")
	assert.Equal(t, consts.DefaultOutputDir, h.OutputDir())
}

func TestHelper_CompleteFileName(t *testing.T) {
	h := NewHelper("out")

	tests := []struct {
		name      string
		input     string
		extension string
		expected  string
	}{
		{name: "simple", input: "UserApiTest", extension: ".html", expected: filepath.Join("out", "UserApiTest.html")},
		{name: "spaces", input: "user api test", extension: ".html", expected: filepath.Join("out", "user_api_test.html")},
		{name: "path separators", input: "com/example/Test", extension: ".pdf", expected: filepath.Join("out", "com_example_Test.pdf")},
		{name: "index is reserved", input: "index", extension: ".html", expected: filepath.Join("out", "index_report.html")},
		{name: "index in other case", input: "Index", extension: ".html", expected: filepath.Join("out", "Index_report.html")},
		{name: "index after sanitizing", input: " index ", extension: ".pdf", expected: filepath.Join("out", "index_report.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, h.CompleteFileName(tt.input, tt.extension))
		})
	}
}

func TestHelper_IndexFileName(t *testing.T) {
	h := NewHelper("out")
	assert.Equal(t, filepath.Join("out", "index.html"), h.IndexFileName(consts.IndexName, ".html"))
	assert.NotEqual(t, h.IndexFileName(consts.IndexName, ".html"), h.CompleteFileName(consts.IndexName, ".html"))
}

func TestHelper_Claim(t *testing.T) {
	h := NewHelper("out")

	assert.False(t, h.claim("a_b", "a b"))
	assert.False(t, h.claim("a_b", "a b"), "rendering the same report again is not a collision")
	assert.True(t, h.claim("a_b", "a_b"))
	assert.False(t, h.claim("other", "other"))
}

func TestHelper_CompleteFileNameDetectsCollisions(t *testing.T) {
	h := NewHelper("out")

	first := h.CompleteFileName("a b", ".html")
	second := h.CompleteFileName("a_b", ".html")

	assert.Equal(t, first, second)
	assert.Equal(t, "a_b", h.stems["a_b"])
	assert.True(t, h.claim("a_b", "a b"))
}

func TestHelper_WriteFile(t *testing.T) {
	dir := t.TempDir()
	h := NewHelper(filepath.Join(dir, "nested", "reports"))
	path := h.CompleteFileName("report", ".html")

	require.NoError(t, h.WriteFile(path, "<html></html>"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))
}

func TestHelper_WriteFile_Error(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	h := NewHelper(blocker)
	err := h.WriteFile(filepath.Join(blocker, "report.html"), "content")

	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileWrite))
}

func TestHelper_ListReports(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_test.html", "a_test.html", "index.html", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "assets.html"), 0755))

	h := NewHelper(dir)
	names, err := h.ListReports(".html")

	require.NoError(t, err)
	assert.Equal(t, []string{"a_test", "b_test"}, names)
}

func TestHelper_ListReports_MissingDir(t *testing.T) {
	h := NewHelper(filepath.Join(t.TempDir(), "missing"))
	names, err := h.ListReports(".html")

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "clean", input: "report", expected: "report"},
		{name: "consecutive unsafe", input: "a  //  b", expected: "a_b"},
		{name: "leading and trailing", input: " report ", expected: "report"},
		{name: "all unsafe", input: "///", expected: "report"},
		{name: "long", input: strings.Repeat("a", 150), expected: strings.Repeat("a", 100)},
		{name: "long multi-byte", input: strings.Repeat("é", 150), expected: strings.Repeat("é", 100)},
		{name: "index is not reserved here", input: "index", expected: "index"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeName(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestReportStem(t *testing.T) {
	assert.Equal(t, "users", ReportStem("users"))
	assert.Equal(t, "index_report", ReportStem("index"))
	assert.Equal(t, "INDEX_report", ReportStem("INDEX"))
	assert.Equal(t, "index_page", ReportStem("index page"))
}
