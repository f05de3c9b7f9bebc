package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/sitetags/internal/format"
	"github.com/phobologic/sitetags/internal/model"
)

func parseDoc(t *testing.T, formatName, src, path string) *model.Resource {
	t.Helper()
	f := format.Formats[formatName]
	res, err := Document(f, f.NewParser(), []byte(src), path)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	return res
}

func TestSplitYAMLFrontMatter(t *testing.T) {
	t.Parallel()

	src := "---\ntitle: Hello\ntags:\n  - python\n  - posts: [author]\n---\nBody text\n"
	meta, body, err := SplitFrontMatter([]byte(src))
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if string(body) != "Body text\n" {
		t.Errorf("body = %q", body)
	}
	want := model.Meta{
		"title": "Hello",
		"tags": []any{
			"python",
			map[string]any{"posts": []any{"author"}},
		},
	}
	if diff := cmp.Diff(want, meta); diff != "" {
		t.Errorf("meta mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitTOMLFrontMatter(t *testing.T) {
	t.Parallel()

	src := "+++\ntitle = \"Hello\"\ntags = [\"go\", \"web\"]\n+++\nBody\n"
	meta, body, err := SplitFrontMatter([]byte(src))
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if string(body) != "Body\n" {
		t.Errorf("body = %q", body)
	}
	if meta.String("title") != "Hello" {
		t.Errorf("title = %q", meta.String("title"))
	}
	tags, ok := meta["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "go" || tags[1] != "web" {
		t.Errorf("tags = %#v", meta["tags"])
	}
}

func TestSplitLeadingWhitespace(t *testing.T) {
	t.Parallel()

	meta, body, err := SplitFrontMatter([]byte("\n\n---\nextends: false\n---\n\nx"))
	if err != nil {
		t.Fatalf("SplitFrontMatter: %v", err)
	}
	if v, ok := meta["extends"]; !ok || v != false {
		t.Errorf("extends = %#v", v)
	}
	if string(body) != "\nx" {
		t.Errorf("body = %q", body)
	}
}

func TestSplitNoFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"plain", "just text\n"},
		{"unterminated", "---\ntitle: x\nno end\n"},
		{"dash in body", "intro\n---\nmore\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta, body, err := SplitFrontMatter([]byte(tt.src))
			if err != nil {
				t.Fatalf("SplitFrontMatter: %v", err)
			}
			if len(meta) != 0 {
				t.Errorf("meta = %v, want empty", meta)
			}
			if string(body) != tt.src {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestSplitInvalidYAML(t *testing.T) {
	t.Parallel()

	_, _, err := SplitFrontMatter([]byte("---\ntags: [a\n---\n"))
	if err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestDocumentTitleFromMeta(t *testing.T) {
	t.Parallel()

	res := parseDoc(t, "markdown", "---\ntitle: From Meta\n---\n# From Body\n", "blog/a.md")
	if res.Title != "From Meta" {
		t.Errorf("title = %q", res.Title)
	}
	if res.Path != "blog/a.md" || res.Format != "markdown" {
		t.Errorf("resource = %+v", res)
	}
}

func TestDocumentTitleFromHeading(t *testing.T) {
	t.Parallel()

	res := parseDoc(t, "markdown", "---\ntags: [go]\n---\n# From Body\n\ntext\n", "a.md")
	if res.Title != "From Body" {
		t.Errorf("title = %q", res.Title)
	}
}

func TestDocumentPlainText(t *testing.T) {
	t.Parallel()

	res := parseDoc(t, "text", "hello", "notes.txt")
	if res.Title != "" || res.Body != "hello" {
		t.Errorf("resource = %+v", res)
	}
}
