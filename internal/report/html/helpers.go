package html

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verustcode/doctest/consts"
)

// escapeHTML escapes a string for safe embedding in element content and attributes
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&#39;")
	return s
}

// sectionAnchor returns the positional anchor of the n-th section (1-based)
func sectionAnchor(n int) string {
	return fmt.Sprintf("%s%d", consts.SectionAnchorPrefix, n)
}

// sortedKeys returns map keys in lexical order so tables render deterministically
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DisplayName turns a report file stem such as "user_api-test" into "User Api Test"
func DisplayName(stem string) string {
	name := strings.NewReplacer("_", " ", "-", " ").Replace(stem)
	name = strings.Join(strings.Fields(name), " ")
	return cases.Title(language.English, cases.NoLower).String(name)
}
