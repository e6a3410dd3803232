package normalizer

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxTextDepth bounds the recursive walk so cyclic or pathologically nested
// payloads cannot explode the extraction.
const maxTextDepth = 5

// textKeys are the likely locations of human-readable content on an item
// record, checked before falling back to a blind walk of child values.
var textKeys = []string{"text", "title", "content", "plainText", "value", "name"}

// ExtractText pulls the human-readable text out of one loosely-typed record.
// HTML tags are stripped and whitespace collapsed. Unexpected shapes yield "".
func ExtractText(record map[string]any) string {
	var fragments []string
	collectText(record, 0, &fragments)
	return collapseWhitespace(strings.Join(fragments, " "))
}

// collectText walks a value looking for text. At each map level the likely
// textual keys are tried first; only when none hold a string does the walk
// descend into every child value.
func collectText(value any, depth int, fragments *[]string) {
	if depth > maxTextDepth {
		return
	}

	switch node := value.(type) {
	case string:
		if text := stripHTML(node); text != "" {
			*fragments = append(*fragments, text)
		}
	case map[string]any:
		found := false
		for _, key := range textKeys {
			if text, ok := node[key].(string); ok {
				if stripped := stripHTML(text); stripped != "" {
					*fragments = append(*fragments, stripped)
					found = true
				}
			}
		}
		if found {
			return
		}
		// Map iteration order is randomized; descend in sorted key order so
		// the extracted text is stable across calls on the same record.
		keys := make([]string, 0, len(node))
		for key := range node {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			collectText(node[key], depth+1, fragments)
		}
	case []any:
		for _, child := range node {
			collectText(child, depth+1, fragments)
		}
	}
}

// stripHTML removes markup from a text fragment. Plain strings pass through
// untouched; parse failures fall back to the raw input rather than losing it.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// collapseWhitespace squeezes runs of whitespace into single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
