package html

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/verustcode/doctest/internal/report/items"
	"github.com/verustcode/doctest/pkg/errors"
)

type mockLister struct {
	mockFiles
}

func (m *mockLister) IndexFileName(name, extension string) string {
	return m.Called(name, extension).String(0)
}

func (m *mockLister) ListReports(extension string) ([]string, error) {
	args := m.Called(extension)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func TestIndexFileRenderer_DiscoversReports(t *testing.T) {
	templates := &mockTemplates{}
	files := &mockLister{}

	var index *items.IndexFile
	templates.On("IndexTemplate", mock.AnythingOfType("*items.IndexFile")).
		Run(func(args mock.Arguments) { index = args.Get(0).(*items.IndexFile) }).
		Return("index-html", nil)
	files.On("ListReports", ".html").Return([]string{"order_test", "user_test"}, nil)
	files.On("IndexFileName", "index", ".html").Return("out/index.html")
	files.On("WriteFile", "out/index.html", "index-html").Return(nil)

	r := NewIndexFileRenderer(templates, files)
	err := r.Render(context.Background(), nil, "index", "intro")

	require.NoError(t, err)
	require.NotNil(t, index)
	assert.Equal(t, "intro", index.Introduction)
	assert.Equal(t, []*items.Link{
		items.NewLink("order_test.html", "Order Test"),
		items.NewLink("user_test.html", "User Test"),
	}, index.Files)
	files.AssertCalled(t, "WriteFile", "out/index.html", "index-html")
	files.AssertNotCalled(t, "CompleteFileName", mock.Anything, mock.Anything)
}

func TestIndexFileRenderer_UsesGivenFiles(t *testing.T) {
	templates := &mockTemplates{}
	files := &mockLister{}
	given := []*items.Link{items.NewLink("x.html", "X")}

	templates.On("IndexTemplate", &items.IndexFile{Files: given}).Return("page", nil)
	files.On("IndexFileName", "index", ".html").Return("index.html")
	files.On("WriteFile", "index.html", "page").Return(nil)

	r := NewIndexFileRenderer(templates, files)
	err := r.Render(context.Background(), given, "index", "")

	require.NoError(t, err)
	files.AssertNotCalled(t, "ListReports", mock.Anything)
}

func TestIndexFileRenderer_Errors(t *testing.T) {
	cause := stderrors.New("boom")

	t.Run("listing fails", func(t *testing.T) {
		templates := &mockTemplates{}
		files := &mockLister{}
		files.On("ListReports", ".html").Return(nil, cause)

		err := NewIndexFileRenderer(templates, files).Render(context.Background(), nil, "index", "")

		assert.ErrorIs(t, err, cause)
		assert.True(t, errors.HasCode(err, errors.ErrCodeIndexRender))
		templates.AssertNotCalled(t, "IndexTemplate", mock.Anything)
	})

	t.Run("template fails", func(t *testing.T) {
		templates := &mockTemplates{}
		files := &mockLister{}
		templates.On("IndexTemplate", mock.Anything).Return("", cause)

		err := NewIndexFileRenderer(templates, files).Render(context.Background(), []*items.Link{}, "index", "")

		assert.ErrorIs(t, err, cause)
		files.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything)
	})

	t.Run("write fails", func(t *testing.T) {
		templates := &mockTemplates{}
		files := &mockLister{}
		templates.On("IndexTemplate", mock.Anything).Return("page", nil)
		files.On("IndexFileName", "index", ".html").Return("index.html")
		files.On("WriteFile", "index.html", "page").Return(cause)

		err := NewIndexFileRenderer(templates, files).Render(context.Background(), []*items.Link{}, "index", "")

		assert.ErrorIs(t, err, cause)
		assert.True(t, errors.HasCode(err, errors.ErrCodeIndexRender))
	})
}
