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

const (
	reportName   = "name"
	completeName = "complete/name"
	pageHTML     = "html"
	sectionTitle = "title"
	jsonPayload  = "json_payload"
	requestHTML  = "request"
	responseHTML = "response"
	assertHTML   = "assert"
	introduction = ""
)

type mockTemplates struct {
	mock.Mock
}

func (m *mockTemplates) TemplateForItem(item items.DocItem) (string, error) {
	args := m.Called(item)
	return args.String(0), args.Error(1)
}

func (m *mockTemplates) ReportFileTemplate(report *items.ReportFile) (string, error) {
	args := m.Called(report)
	return args.String(0), args.Error(1)
}

func (m *mockTemplates) IndexTemplate(index *items.IndexFile) (string, error) {
	args := m.Called(index)
	return args.String(0), args.Error(1)
}

func (m *mockTemplates) ListFilesTemplate(menu *items.Menu) (string, error) {
	args := m.Called(menu)
	return args.String(0), args.Error(1)
}

type mockFiles struct {
	mock.Mock
}

func (m *mockFiles) CompleteFileName(name, extension string) string {
	return m.Called(name, extension).String(0)
}

func (m *mockFiles) WriteFile(path, content string) error {
	return m.Called(path, content).Error(0)
}

type mockJSON struct {
	mock.Mock
}

func (m *mockJSON) IsJSONValid(s string) bool {
	return m.Called(s).Bool(0)
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) Render(ctx context.Context, files []*items.Link, name, introduction string) error {
	return m.Called(ctx, files, name, introduction).Error(0)
}

// rendererFixture wires a Renderer to mocked collaborators and records what they received
type rendererFixture struct {
	templates *mockTemplates
	files     *mockFiles
	json      *mockJSON
	index     *mockIndex
	renderer  *Renderer

	request    *items.Request
	response   *items.Response
	assertItem *items.Assert
	jsonItem   *items.JSON

	section1 *items.Section
	section2 *items.Section
	section3 *items.Section

	report   *items.ReportFile
	menu     *items.Menu
	sections []*items.Section
}

func newRendererFixture(t *testing.T) *rendererFixture {
	t.Helper()

	f := &rendererFixture{
		templates:  &mockTemplates{},
		files:      &mockFiles{},
		json:       &mockJSON{},
		index:      &mockIndex{},
		request:    &items.Request{Method: "GET", URI: "/users"},
		response:   &items.Response{Status: 200, Payload: `{"id":1}`},
		assertItem: &items.Assert{Expected: "1", Actual: "1"},
		jsonItem:   &items.JSON{Payload: `{"id":1}`},
		section1:   &items.Section{Title: sectionTitle + "1"},
		section2:   &items.Section{Title: sectionTitle + "2"},
		section3:   &items.Section{Title: sectionTitle + "3"},
	}

	f.templates.On("ReportFileTemplate", mock.AnythingOfType("*items.ReportFile")).
		Run(func(args mock.Arguments) { f.report = args.Get(0).(*items.ReportFile) }).
		Return(pageHTML, nil)
	f.templates.On("IndexTemplate", mock.AnythingOfType("*items.IndexFile")).Return(pageHTML, nil)

	f.templates.On("TemplateForItem", f.request).Return(requestHTML, nil)
	f.templates.On("TemplateForItem", f.response).Return(responseHTML, nil)
	f.templates.On("TemplateForItem", f.assertItem).Return(assertHTML, nil)
	f.templates.On("TemplateForItem", f.jsonItem).Return(jsonPayload, nil)
	f.templates.On("TemplateForItem", mock.AnythingOfType("*items.Section")).
		Run(func(args mock.Arguments) { f.sections = append(f.sections, args.Get(0).(*items.Section)) }).
		Return("<section/>", nil)

	f.files.On("CompleteFileName", reportName, ".html").Return(completeName)
	f.files.On("WriteFile", completeName, pageHTML).Return(nil)
	f.index.On("Render", mock.Anything, []*items.Link(nil), "index", introduction).Return(nil)

	f.renderer = NewRenderer(f.index, f.templates, f.files, f.json)
	return f
}

// onMenu stubs the menu template and captures the menu it receives
func (f *rendererFixture) onMenu(html string) {
	f.templates.On("ListFilesTemplate", mock.AnythingOfType("*items.Menu")).
		Run(func(args mock.Arguments) { f.menu = args.Get(0).(*items.Menu) }).
		Return(html, nil)
}

func (f *rendererFixture) assertFilesAreCreated(t *testing.T) {
	t.Helper()
	f.files.AssertCalled(t, "WriteFile", completeName, pageHTML)
	f.files.AssertNumberOfCalls(t, "WriteFile", 1)
	f.index.AssertCalled(t, "Render", mock.Anything, []*items.Link(nil), "index", introduction)
	f.index.AssertNumberOfCalls(t, "Render", 1)
}

func (f *rendererFixture) assertNothingWritten(t *testing.T) {
	t.Helper()
	f.files.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything)
	f.index.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.templates.AssertNotCalled(t, "ListFilesTemplate", mock.Anything)
}

func assertLink(t *testing.T, href, name string, link *items.Link) {
	t.Helper()
	assert.Equal(t, href, link.Href)
	assert.Equal(t, name, link.Name)
}

func TestRenderer_DoNotCreateIndexIfListIsEmpty(t *testing.T) {
	f := newRendererFixture(t)

	result, err := f.renderer.Render(context.Background(), []items.DocItem{}, reportName, introduction)

	require.NoError(t, err)
	assert.Nil(t, result)
	f.assertNothingWritten(t)
}

func TestRenderer_DoNotCreateIndexIfListIsNil(t *testing.T) {
	f := newRendererFixture(t)

	result, err := f.renderer.Render(context.Background(), nil, reportName, introduction)

	require.NoError(t, err)
	assert.Nil(t, result)
	f.assertNothingWritten(t)
}

func TestRenderer_RenderListDocItems(t *testing.T) {
	f := newRendererFixture(t)

	result, err := f.renderer.Render(context.Background(),
		[]items.DocItem{f.request, f.response, f.assertItem}, reportName, introduction)

	require.NoError(t, err)
	require.NotNil(t, f.report)
	assert.Equal(t, reportName, f.report.Name)
	assert.Equal(t, introduction, f.report.Introduction)
	assert.Equal(t, requestHTML+responseHTML+assertHTML, f.report.Items)
	assert.Equal(t, completeName, result.Path)
	assert.Nil(t, result.Menu)
	assert.Empty(t, result.Anchors)
	f.templates.AssertNotCalled(t, "ListFilesTemplate", mock.Anything)
	f.assertFilesAreCreated(t)
}

func TestRenderer_RenderSections(t *testing.T) {
	f := newRendererFixture(t)
	f.onMenu("")

	result, err := f.renderer.Render(context.Background(),
		[]items.DocItem{f.section1, f.section2, f.section3}, reportName, introduction)

	require.NoError(t, err)
	require.Len(t, f.sections, 3)
	assert.Equal(t, &items.Section{Title: "title1", Href: "section1"}, f.sections[0])
	assert.Equal(t, &items.Section{Title: "title2", Href: "section2"}, f.sections[1])
	assert.Equal(t, &items.Section{Title: "title3", Href: "section3"}, f.sections[2])

	require.NotNil(t, f.menu)
	require.Len(t, f.menu.Files, 3)
	assertLink(t, "#section1", sectionTitle+"1", f.menu.Files[0])
	assertLink(t, "#section2", sectionTitle+"2", f.menu.Files[1])
	assertLink(t, "#section3", sectionTitle+"3", f.menu.Files[2])

	assert.Equal(t, []string{"section1", "section2", "section3"}, result.Anchors)
	assert.Same(t, f.menu, result.Menu)
	f.templates.AssertNumberOfCalls(t, "ListFilesTemplate", 1)
	f.assertFilesAreCreated(t)
}

func TestRenderer_RenderUnorderedSections(t *testing.T) {
	f := newRendererFixture(t)
	f.onMenu("")

	_, err := f.renderer.Render(context.Background(),
		[]items.DocItem{f.section2, f.section3, f.section1}, reportName, introduction)

	require.NoError(t, err)
	require.Len(t, f.sections, 3)
	assert.Equal(t, &items.Section{Title: "title2", Href: "section1"}, f.sections[0])
	assert.Equal(t, &items.Section{Title: "title3", Href: "section2"}, f.sections[1])
	assert.Equal(t, &items.Section{Title: "title1", Href: "section3"}, f.sections[2])

	require.NotNil(t, f.menu)
	require.Len(t, f.menu.Files, 3)
	assertLink(t, "#section1", sectionTitle+"2", f.menu.Files[0])
	assertLink(t, "#section2", sectionTitle+"3", f.menu.Files[1])
	assertLink(t, "#section3", sectionTitle+"1", f.menu.Files[2])
}

func TestRenderer_SectionsAreNotMutated(t *testing.T) {
	f := newRendererFixture(t)
	f.onMenu("")

	_, err := f.renderer.Render(context.Background(),
		[]items.DocItem{f.section1, f.section2}, reportName, introduction)

	require.NoError(t, err)
	assert.Empty(t, f.section1.Href)
	assert.Empty(t, f.section2.Href)
}

func TestRenderer_AnchorsRestartEveryRender(t *testing.T) {
	f := newRendererFixture(t)
	f.onMenu("")
	docItems := []items.DocItem{f.section1, f.request, f.section2}

	first, err := f.renderer.Render(context.Background(), docItems, reportName, introduction)
	require.NoError(t, err)
	second, err := f.renderer.Render(context.Background(), docItems, reportName, introduction)
	require.NoError(t, err)

	assert.Equal(t, []string{"section1", "section2"}, first.Anchors)
	assert.Equal(t, first.Anchors, second.Anchors)
}

func TestRenderer_MenuIsPrependedToBody(t *testing.T) {
	f := newRendererFixture(t)
	f.onMenu("<menu/>")

	_, err := f.renderer.Render(context.Background(),
		[]items.DocItem{f.request, f.section1, f.response}, reportName, introduction)

	require.NoError(t, err)
	assert.Equal(t, "<menu/>"+requestHTML+"<section/>"+responseHTML, f.report.Items)
}

func TestRenderer_RenderRequest(t *testing.T) {
	f := newRendererFixture(t)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.request}, reportName, introduction)

	require.NoError(t, err)
	f.templates.AssertCalled(t, "TemplateForItem", f.request)
	f.assertFilesAreCreated(t)
}

func TestRenderer_RenderResponse(t *testing.T) {
	f := newRendererFixture(t)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.response}, reportName, introduction)

	require.NoError(t, err)
	f.templates.AssertCalled(t, "TemplateForItem", f.response)
	f.assertFilesAreCreated(t)
}

func TestRenderer_RenderAssert(t *testing.T) {
	f := newRendererFixture(t)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.assertItem}, reportName, introduction)

	require.NoError(t, err)
	f.templates.AssertCalled(t, "TemplateForItem", f.assertItem)
	f.assertFilesAreCreated(t)
}

func TestRenderer_RenderJSONDirectly(t *testing.T) {
	f := newRendererFixture(t)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.jsonItem}, reportName, introduction)

	require.NoError(t, err)
	assert.Equal(t, jsonPayload, f.report.Items)
	f.json.AssertNotCalled(t, "IsJSONValid", mock.Anything)
}

func TestRenderer_RenderVariableSay(t *testing.T) {
	f := newRendererFixture(t)
	f.json.On("IsJSONValid", "{'abc':'a'}").Return(true)
	f.json.On("IsJSONValid", "text").Return(false)

	say := &items.MultipleText{Label: "text", Texts: []string{"{'abc':'a'}", "text"}}
	f.templates.On("TemplateForItem", say).Return("<label/>", nil)
	f.templates.On("TemplateForItem", &items.JSON{Payload: "{'abc':'a'}"}).Return("<json/>", nil)
	f.templates.On("TemplateForItem", &items.HighlightedText{Text: "text"}).Return("<highlighted/>", nil)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{say}, reportName, introduction)

	require.NoError(t, err)
	f.templates.AssertCalled(t, "TemplateForItem", mock.AnythingOfType("*items.MultipleText"))
	f.templates.AssertCalled(t, "TemplateForItem", mock.AnythingOfType("*items.JSON"))
	f.templates.AssertCalled(t, "TemplateForItem", mock.AnythingOfType("*items.HighlightedText"))
	assert.Equal(t, "<label/><json/><highlighted/>", f.report.Items)
	f.assertFilesAreCreated(t)
}

func TestRenderer_MultipleTextClassifiesEachValue(t *testing.T) {
	f := newRendererFixture(t)
	f.json.On("IsJSONValid", "plain").Return(false)
	f.json.On("IsJSONValid", "[1]").Return(true)

	say := &items.MultipleText{Label: "values", Texts: []string{"plain", "[1]", "plain"}}
	f.templates.On("TemplateForItem", say).Return("L", nil)
	f.templates.On("TemplateForItem", &items.JSON{Payload: "[1]"}).Return("J", nil)
	f.templates.On("TemplateForItem", &items.HighlightedText{Text: "plain"}).Return("H", nil)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{say}, reportName, introduction)

	require.NoError(t, err)
	assert.Equal(t, "LHJH", f.report.Items)
	f.json.AssertNumberOfCalls(t, "IsJSONValid", 3)
}

func TestRenderer_TemplateLookupErrorIsPropagated(t *testing.T) {
	f := newRendererFixture(t)
	unknown := &items.Text{Text: "no template"}
	lookupErr := errors.New(errors.ErrCodeTemplateNotFound, "no template")
	f.templates.On("TemplateForItem", unknown).Return("", lookupErr)

	result, err := f.renderer.Render(context.Background(), []items.DocItem{f.request, unknown}, reportName, introduction)

	assert.Nil(t, result)
	assert.Same(t, lookupErr, err)
	f.assertNothingWritten(t)
}

func TestRenderer_WriteErrorIsPropagated(t *testing.T) {
	f := newRendererFixture(t)
	writeErr := stderrors.New("disk full")
	f.files.ExpectedCalls = nil
	f.files.On("CompleteFileName", reportName, ".html").Return(completeName)
	f.files.On("WriteFile", completeName, pageHTML).Return(writeErr)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.request}, reportName, introduction)

	assert.ErrorIs(t, err, writeErr)
	f.index.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRenderer_IndexErrorIsPropagated(t *testing.T) {
	f := newRendererFixture(t)
	indexErr := errors.New(errors.ErrCodeIndexRender, "index failed")
	f.index.ExpectedCalls = nil
	f.index.On("Render", mock.Anything, []*items.Link(nil), "index", "intro").Return(indexErr)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.request}, reportName, "intro")

	assert.Same(t, indexErr, err)
	f.files.AssertCalled(t, "WriteFile", completeName, pageHTML)
}

func TestRenderer_IntroductionIsPassedThrough(t *testing.T) {
	f := newRendererFixture(t)
	f.index.On("Render", mock.Anything, []*items.Link(nil), "index", "About the users API").Return(nil)

	_, err := f.renderer.Render(context.Background(), []items.DocItem{f.request}, reportName, "About the users API")

	require.NoError(t, err)
	assert.Equal(t, "About the users API", f.report.Introduction)
	f.index.AssertCalled(t, "Render", mock.Anything, []*items.Link(nil), "index", "About the users API")
}
