// Package items defines the documentation items captured while running API tests.
// Every item can be turned into an HTML fragment by a template lookup; the renderer
// only branches on sections and multiple-text items, everything else is looked up directly.
package items

// ItemType identifies the concrete kind of a DocItem
type ItemType string

// Item types
const (
	TypeSection         ItemType = "section"
	TypeRequest         ItemType = "request"
	TypeResponse        ItemType = "response"
	TypeAssert          ItemType = "assert"
	TypeText            ItemType = "text"
	TypeMultipleText    ItemType = "say"
	TypeJSON            ItemType = "json"
	TypeHighlightedText ItemType = "highlighted"
	TypeLink            ItemType = "link"
	TypeMenu            ItemType = "menu"
	TypeReportFile      ItemType = "report_file"
	TypeIndexFile       ItemType = "index_file"
)

// DocItem is a unit of documentation content that can be rendered to a template string
type DocItem interface {
	ItemType() ItemType
}

// Section starts a new part of a report. Href is the in-page anchor,
// empty until the renderer assigns one.
type Section struct {
	Title string
	Href  string
}

// ItemType implements DocItem
func (s *Section) ItemType() ItemType { return TypeSection }

// WithHref returns a copy of the section carrying the given anchor.
// The receiver is left untouched so callers can reuse their items across renders.
func (s *Section) WithHref(href string) *Section {
	cp := *s
	cp.Href = href
	return &cp
}

// Request is an HTTP request issued by a test
type Request struct {
	Method  string
	URI     string
	Payload string
	Headers map[string]string
	Cookies map[string]string
}

// ItemType implements DocItem
func (r *Request) ItemType() ItemType { return TypeRequest }

// Response is the HTTP response a test received
type Response struct {
	Status  int
	Payload string
	Headers map[string]string
	Cookies map[string]string
}

// ItemType implements DocItem
func (r *Response) ItemType() ItemType { return TypeResponse }

// Assert records an assertion made by a test
type Assert struct {
	Expected string
	Actual   string
}

// ItemType implements DocItem
func (a *Assert) ItemType() ItemType { return TypeAssert }

// Text is free prose written by the test author, rendered as Markdown
type Text struct {
	Text string
}

// ItemType implements DocItem
func (t *Text) ItemType() ItemType { return TypeText }

// MultipleText is a label followed by values. Each value is classified at
// render time and shown either as a JSON payload or as highlighted text.
type MultipleText struct {
	Label string
	Texts []string
}

// ItemType implements DocItem
func (m *MultipleText) ItemType() ItemType { return TypeMultipleText }

// JSON is a JSON payload shown pretty-printed
type JSON struct {
	Payload string
}

// ItemType implements DocItem
func (j *JSON) ItemType() ItemType { return TypeJSON }

// HighlightedText is a plain value shown verbatim in a highlighted block
type HighlightedText struct {
	Text string
}

// ItemType implements DocItem
func (h *HighlightedText) ItemType() ItemType { return TypeHighlightedText }

// Link is one menu or index entry
type Link struct {
	Href string
	Name string
}

// ItemType implements DocItem
func (l *Link) ItemType() ItemType { return TypeLink }

// NewLink creates a link
func NewLink(href, name string) *Link {
	return &Link{Href: href, Name: name}
}

// Menu is the table of contents of a report, one link per section in document order
type Menu struct {
	Files []*Link
}

// ItemType implements DocItem
func (m *Menu) ItemType() ItemType { return TypeMenu }

// ReportFile is a complete report page: name, optional introduction and the rendered body
type ReportFile struct {
	Name         string
	Introduction string
	Items        string
}

// ItemType implements DocItem
func (r *ReportFile) ItemType() ItemType { return TypeReportFile }

// IndexFile is the page linking every report in the output directory
type IndexFile struct {
	Files        []*Link
	Introduction string
}

// ItemType implements DocItem
func (i *IndexFile) ItemType() ItemType { return TypeIndexFile }
