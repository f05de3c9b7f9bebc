package render

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/phobologic/sitetags/internal/content"
	"github.com/phobologic/sitetags/internal/logging"
	"github.com/phobologic/sitetags/internal/model"
)

func writeFile(t *testing.T, root, rel, data string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newRenderer(t *testing.T, funcs template.FuncMap) *Renderer {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "base.html", "<main>{{ .Title }}|{{ .Content }}</main>")
	writeFile(t, dir, "partials/list.html", `{{ range .items }}[{{ . }}]{{ end }}`)
	writeFile(t, dir, ".hidden.html", "{{ broken")

	r, err := New(dir, funcs, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

func TestNewParsesLayouts(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, nil)
	got := r.Layouts()
	want := []string{"base.html", "partials/list.html"}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("layouts mismatch (-want +got):\n%s", diff)
	}
}

func TestNewMissingDir(t *testing.T) {
	t.Parallel()

	r, err := New(filepath.Join(t.TempDir(), "nope"), nil, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(r.Layouts()) != 0 {
		t.Errorf("layouts = %v", r.Layouts())
	}
}

func TestNewInvalidLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "bad.html", "{{ if }}")
	if _, err := New(dir, nil, logging.Discard()); err == nil || !strings.Contains(err.Error(), "bad.html") {
		t.Errorf("err = %v, want parse error naming bad.html", err)
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, template.FuncMap{"upper": strings.ToUpper})

	tests := []struct {
		name string
		res  *model.Resource
		want string
	}{
		{
			"plain",
			&model.Resource{Path: "a.md", Title: "A", Meta: model.Meta{}, Body: "hello {{ .Title }}"},
			"hello A",
		},
		{
			"extends",
			&model.Resource{Path: "b.md", Title: "B", Meta: model.Meta{"extends": "base.html"}, Body: "body"},
			"<main>B|body</main>",
		},
		{
			"extends false",
			&model.Resource{Path: "c.md", Meta: model.Meta{"extends": false}, Body: "raw"},
			"raw",
		},
		{
			"caller funcs",
			&model.Resource{Path: "e.md", Meta: model.Meta{}, Body: `{{ upper "x" }}`},
			"X",
		},
		{
			"meta access",
			&model.Resource{Path: "f.md", Meta: model.Meta{"author": "ann"}, Body: `{{ .Meta.author }} {{ .URL }}`},
			"ann /f.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Render(tt.res)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPartialWithItems(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, nil)
	res := &model.Resource{
		Path: "a.md",
		Meta: model.Meta{"items": []any{"x", "y"}},
		Body: `{{ template "partials/list.html" (dict "items" .Meta.items) }}`,
	}
	got, err := r.Render(res)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "[x][y]" {
		t.Errorf("Render = %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, nil)
	tests := []struct {
		name string
		res  *model.Resource
		want string
	}{
		{"missing layout", &model.Resource{Path: "a.md", Meta: model.Meta{"extends": "nope.html"}}, `layout "nope.html" not found`},
		{"bad body", &model.Resource{Path: "b.md", Meta: model.Meta{}, Body: "{{ if }}"}, "parsing b.md"},
		{"odd dict", &model.Resource{Path: "c.md", Meta: model.Meta{}, Body: `{{ dict "a" }}`}, "odd number"},
		{"unknown template", &model.Resource{Path: "d.md", Meta: model.Meta{}, Body: `{{ template "t" . }}`}, "d.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := r.Render(tt.res)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestRenderDoesNotLeakBodies(t *testing.T) {
	t.Parallel()

	r := newRenderer(t, nil)
	if _, err := r.Render(&model.Resource{Path: "a.md", Meta: model.Meta{}, Body: "a"}); err != nil {
		t.Fatal(err)
	}
	for _, name := range r.Layouts() {
		if strings.HasPrefix(name, "content:") {
			t.Errorf("resource template %q leaked into the layout set", name)
		}
	}
}

func TestRenderTree(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeFile(t, src, "index.html", "---\nextends: base.html\ntitle: Home\n---\nwelcome")
	writeFile(t, src, "blog/post.md", "# Post\n{{ .Title }}")

	tree, err := content.Load(context.Background(), src, nil, logging.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := newRenderer(t, nil)
	deploy := t.TempDir()
	n, err := r.RenderTree(context.Background(), tree, deploy)
	if err != nil {
		t.Fatalf("RenderTree: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d files, want 2", n)
	}

	for rel, want := range map[string]string{
		"index.html":     "<main>Home|welcome</main>",
		"blog/post.html": "# Post\nPost",
	} {
		data, err := os.ReadFile(filepath.Join(deploy, filepath.FromSlash(rel)))
		if err != nil {
			t.Errorf("%s: %v", rel, err)
			continue
		}
		if string(data) != want {
			t.Errorf("%s = %q, want %q", rel, data, want)
		}
	}
}

func TestRenderTreeCanceled(t *testing.T) {
	t.Parallel()

	tree := content.NewTree(t.TempDir(), nil)
	tree.Add(&model.Resource{Path: "a.md", Meta: model.Meta{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newRenderer(t, nil).RenderTree(ctx, tree, t.TempDir()); err == nil {
		t.Error("expected context error")
	}
}
