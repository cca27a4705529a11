package postgres

import (
	"strings"
	"testing"

	"pagecraft/internal/models"
)

// TestTsQuery verifies the prefix-match tsquery builder, including the
// zero-results policy for unusable input.
func TestTsQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
		ok    bool
	}{
		{name: "mixed punctuation", query: "Hello, World! & More", want: "hello:* & world:* & more:*", ok: true},
		{name: "single token", query: "launch", want: "launch:*", ok: true},
		{name: "single characters rejected", query: "a & b", want: "", ok: false},
		{name: "only punctuation", query: "!!!", want: "", ok: false},
		{name: "empty", query: "", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tsQuery(tt.query)
			if got != tt.want || ok != tt.ok {
				t.Errorf("tsQuery(%q) = (%q, %v), want (%q, %v)", tt.query, got, ok, tt.want, tt.ok)
			}
		})
	}
}

// TestSearchText verifies that every searchable field lands in the
// indexed text, including content-block values.
func TestSearchText(t *testing.T) {
	meta := models.SEOMeta{
		Title:       "Meta Title",
		Description: "Meta description",
		Keywords:    []string{"saas", "marketing"},
	}
	blocks := []models.ContentBlock{
		{Type: "markdown", Fields: map[string]string{"content": "Block body"}},
	}

	got := searchText("Page Title", "page-slug", meta, blocks)

	for _, want := range []string{"Page Title", "page-slug", "Meta Title", "Meta description", "saas", "marketing", "Block body"} {
		if !strings.Contains(got, want) {
			t.Errorf("searchText missing %q in %q", want, got)
		}
	}
}

// TestPostSearchText verifies that the post-only fields join the shared
// set, so both backends index the same content.
func TestPostSearchText(t *testing.T) {
	excerpt := "Short teaser"
	post := &models.Post{
		Title:      "Post Title",
		Excerpt:    &excerpt,
		Categories: []string{"Engineering"},
		Tags:       []string{"golang"},
		Meta:       models.SEOMeta{Description: "Meta description", Keywords: []string{"keyword"}},
		Blocks: []models.ContentBlock{
			{Type: "markdown", Fields: map[string]string{"content": "Block body"}},
		},
	}

	got := postSearchText("post-slug", post)

	for _, want := range []string{"Post Title", "post-slug", "Short teaser", "Engineering", "golang", "Meta description", "keyword", "Block body"} {
		if !strings.Contains(got, want) {
			t.Errorf("postSearchText missing %q in %q", want, got)
		}
	}
}
