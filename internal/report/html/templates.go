// Package html renders captured documentation items into HTML report pages,
// the per-report menu and the index page.
package html

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/verustcode/doctest/consts"
	"github.com/verustcode/doctest/internal/jsonutil"
	"github.com/verustcode/doctest/internal/report/items"
	"github.com/verustcode/doctest/pkg/errors"
)

// Items maps documentation items to their HTML fragments
type Items struct {
	json     *jsonutil.Helper
	markdown goldmark.Markdown
}

// NewItems creates the HTML template set
func NewItems() *Items {
	return &Items{
		json: jsonutil.NewHelper(),
		// Raw HTML in test prose stays escaped: goldmark's unsafe mode is left off.
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// TemplateForItem returns the HTML fragment of a single item
func (t *Items) TemplateForItem(item items.DocItem) (string, error) {
	switch v := item.(type) {
	case *items.Section:
		return fmt.Sprintf("<h2 class=\"section\" id=\"%s\">%s</h2>\n", escapeHTML(v.Href), escapeHTML(v.Title)), nil
	case *items.Request:
		return t.request(v), nil
	case *items.Response:
		return t.response(v), nil
	case *items.Assert:
		return t.assert(v), nil
	case *items.Text:
		return t.text(v)
	case *items.MultipleText:
		return fmt.Sprintf("<p class=\"say\">%s</p>\n", escapeHTML(v.Label)), nil
	case *items.JSON:
		return fmt.Sprintf("<pre class=\"json\">%s</pre>\n", escapeHTML(t.json.Pretty(v.Payload))), nil
	case *items.HighlightedText:
		return fmt.Sprintf("<pre class=\"highlighted\">%s</pre>\n", escapeHTML(v.Text)), nil
	case *items.Link:
		return t.link(v), nil
	case *items.Menu:
		return t.ListFilesTemplate(v)
	default:
		return "", errors.New(errors.ErrCodeTemplateNotFound, fmt.Sprintf("no template for item %T", item))
	}
}

// ListFilesTemplate returns the table of contents of a report.
// A menu without links renders as an empty string.
func (t *Items) ListFilesTemplate(menu *items.Menu) (string, error) {
	if menu == nil || len(menu.Files) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("<nav class=\"menu\">\n<ul>\n")
	for _, link := range menu.Files {
		sb.WriteString("<li>")
		sb.WriteString(t.link(link))
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ul>\n</nav>\n")
	return sb.String(), nil
}

// ReportFileTemplate returns the complete page of one report
func (t *Items) ReportFileTemplate(report *items.ReportFile) (string, error) {
	if report == nil {
		return "", errors.New(errors.ErrCodeTemplateRender, "report file is nil")
	}
	title := escapeHTML(report.Name)
	return fmt.Sprintf(pageTemplate, title, pageStyle, title, t.introduction(report.Introduction), report.Items), nil
}

// IndexTemplate returns the index page linking every report
func (t *Items) IndexTemplate(index *items.IndexFile) (string, error) {
	if index == nil {
		return "", errors.New(errors.ErrCodeTemplateRender, "index file is nil")
	}

	var sb strings.Builder
	if len(index.Files) == 0 {
		sb.WriteString("<p class=\"empty\">No reports yet.</p>\n")
	} else {
		sb.WriteString("<ul class=\"reports\">\n")
		for _, link := range index.Files {
			sb.WriteString("<li>")
			sb.WriteString(t.link(link))
			sb.WriteString("</li>\n")
		}
		sb.WriteString("</ul>\n")
	}

	title := escapeHTML(consts.ProjectName)
	return fmt.Sprintf(pageTemplate, title, pageStyle, title, t.introduction(index.Introduction), sb.String()), nil
}

func (t *Items) link(l *items.Link) string {
	return fmt.Sprintf("<a href=\"%s\">%s</a>", escapeHTML(l.Href), escapeHTML(l.Name))
}

func (t *Items) introduction(intro string) string {
	if intro == "" {
		return ""
	}
	return fmt.Sprintf("<p class=\"introduction\">%s</p>\n", escapeHTML(intro))
}

func (t *Items) text(v *items.Text) (string, error) {
	var buf bytes.Buffer
	if err := t.markdown.Convert([]byte(v.Text), &buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeTemplateRender, "failed to render text", err)
	}
	return fmt.Sprintf("<div class=\"text\">%s</div>\n", buf.String()), nil
}

func (t *Items) request(v *items.Request) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"request\">\n")
	sb.WriteString(fmt.Sprintf("<div class=\"request-line\"><span class=\"method\">%s</span> <span class=\"uri\">%s</span></div>\n",
		escapeHTML(strings.ToUpper(v.Method)), escapeHTML(v.URI)))
	sb.WriteString(table("Headers", v.Headers))
	sb.WriteString(table("Cookies", v.Cookies))
	sb.WriteString(t.payload(v.Payload))
	sb.WriteString("</div>\n")
	return sb.String()
}

func (t *Items) response(v *items.Response) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"response\">\n")
	sb.WriteString(fmt.Sprintf("<div class=\"status status-%dxx\">%d</div>\n", v.Status/100, v.Status))
	sb.WriteString(table("Headers", v.Headers))
	sb.WriteString(table("Cookies", v.Cookies))
	sb.WriteString(t.payload(v.Payload))
	sb.WriteString("</div>\n")
	return sb.String()
}

func (t *Items) assert(v *items.Assert) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"assert\">\n")
	sb.WriteString(fmt.Sprintf("<span class=\"label\">Expected</span>\n<pre>%s</pre>\n", escapeHTML(t.json.Pretty(v.Expected))))
	if v.Actual != "" {
		sb.WriteString(fmt.Sprintf("<span class=\"label\">Actual</span>\n<pre>%s</pre>\n", escapeHTML(t.json.Pretty(v.Actual))))
	}
	sb.WriteString("</div>\n")
	return sb.String()
}

func (t *Items) payload(payload string) string {
	if payload == "" {
		return ""
	}
	if t.json.IsJSONValid(payload) {
		return fmt.Sprintf("<pre class=\"json\">%s</pre>\n", escapeHTML(t.json.Pretty(payload)))
	}
	return fmt.Sprintf("<pre class=\"payload\">%s</pre>\n", escapeHTML(payload))
}

// table renders a two-column key/value table, or nothing for an empty map
func table(caption string, values map[string]string) string {
	if len(values) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<table class=\"%s\">\n<caption>%s</caption>\n", strings.ToLower(caption), caption))
	for _, k := range sortedKeys(values) {
		sb.WriteString(fmt.Sprintf("<tr><th>%s</th><td>%s</td></tr>\n", escapeHTML(k), escapeHTML(values[k])))
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// pageTemplate arguments: title, style, heading, introduction, body
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>%s</style>
</head>
<body>
<header class="header"><h1>%s</h1></header>
<main class="content">
%s%s</main>
</body>
</html>
`

const pageStyle = `
        :root {
            --background: hsl(0 0% 99%);
            --foreground: hsl(220 15% 15%);
            --muted: hsl(220 14% 96%);
            --muted-foreground: hsl(220 10% 40%);
            --border: hsl(220 15% 90%);
            --primary: hsl(220 60% 50%);
            --success: hsl(142 60% 35%);
            --danger: hsl(0 65% 45%);
            --radius: 0.375rem;
        }
        @media (prefers-color-scheme: dark) {
            :root {
                --background: hsl(220 20% 7%);
                --foreground: hsl(220 10% 92%);
                --muted: hsl(220 15% 13%);
                --muted-foreground: hsl(220 8% 55%);
                --border: hsl(220 15% 18%);
                --primary: hsl(220 55% 55%);
            }
        }
        * { box-sizing: border-box; }
        body {
            margin: 0;
            font-family: system-ui, -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            font-size: 0.875rem;
            line-height: 1.5;
            background: var(--background);
            color: var(--foreground);
        }
        .header { padding: 1rem 1.5rem; border-bottom: 1px solid var(--border); }
        .header h1 { margin: 0; font-size: 1.25rem; font-weight: 600; }
        .content { max-width: 960px; margin: 0 auto; padding: 1.5rem; }
        .introduction { color: var(--muted-foreground); }
        .menu ul, .reports { padding-left: 1.25rem; }
        a { color: var(--primary); }
        h2.section { margin-top: 2rem; padding-bottom: 0.25rem; border-bottom: 1px solid var(--border); }
        pre {
            padding: 0.75rem;
            overflow-x: auto;
            background: var(--muted);
            border: 1px solid var(--border);
            border-radius: var(--radius);
        }
        pre.highlighted { border-left: 3px solid var(--primary); }
        .request, .response, .assert { margin: 1rem 0; }
        .method { font-weight: 600; color: var(--primary); }
        .status { font-weight: 600; }
        .status-2xx { color: var(--success); }
        .status-4xx, .status-5xx { color: var(--danger); }
        table { border-collapse: collapse; margin: 0.5rem 0; }
        caption { text-align: left; font-weight: 600; }
        th, td { padding: 0.25rem 0.5rem; border: 1px solid var(--border); text-align: left; }
        .label { font-weight: 600; color: var(--muted-foreground); }
`
