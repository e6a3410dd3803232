package normalizer_test

import (
	"testing"

	"github.com/jonesrussell/boardwatch/internal/normalizer"
	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		record   map[string]any
		expected string
	}{
		{
			"likely keys first",
			map[string]any{"title": "Roadmap", "noise": map[string]any{"content": "ignored"}},
			"Roadmap",
		},
		{
			"html stripped",
			map[string]any{"content": "<p>Hello <b>world</b></p>"},
			"Hello world",
		},
		{
			"fallback walk into children",
			map[string]any{"data": map[string]any{"content": "nested text"}},
			"nested text",
		},
		{
			"arrays are walked",
			map[string]any{"widgets": []any{
				map[string]any{"text": "first"},
				map[string]any{"text": "second"},
			}},
			"first second",
		},
		{
			"non-string leaves ignored",
			map[string]any{"count": float64(3), "flag": true},
			"",
		},
		{
			"whitespace collapsed",
			map[string]any{"text": "  spaced \n out  "},
			"spaced out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.ExtractText(tt.record))
		})
	}
}

// Map iteration order is randomized, so the fallback walk must impose its own
// ordering or repeated extraction of the same record drifts.
func TestExtractTextFallbackOrderIsStable(t *testing.T) {
	record := map[string]any{
		"widgetsByRegion": map[string]any{
			"delta":   map[string]any{"text": "delta-note"},
			"alpha":   map[string]any{"text": "alpha-note"},
			"golf":    map[string]any{"text": "golf-note"},
			"bravo":   map[string]any{"text": "bravo-note"},
			"foxtrot": map[string]any{"text": "foxtrot-note"},
			"echo":    map[string]any{"text": "echo-note"},
			"hotel":   map[string]any{"text": "hotel-note"},
			"charlie": map[string]any{"text": "charlie-note"},
		},
	}

	expected := "alpha-note bravo-note charlie-note delta-note echo-note foxtrot-note golf-note hotel-note"
	for i := 0; i < 30; i++ {
		assert.Equal(t, expected, normalizer.ExtractText(record))
	}
}

func TestExtractTextDepthBound(t *testing.T) {
	// Build nesting deeper than the walk limit; the buried text must not leak out.
	deep := map[string]any{"leaf": "buried"}
	for i := 0; i < 10; i++ {
		deep = map[string]any{"level": deep}
	}
	assert.Equal(t, "", normalizer.ExtractText(deep))
}
