package tagger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/phobologic/sitetags/internal/config"
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

func loadSite(t *testing.T) (*content.Tree, *Registry) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "blog/one.md", "---\ntags: [python, tutorial]\n---\n# One\n")
	writeFile(t, dir, "blog/two.md", "---\ntags: [python]\n---\n# Two\n")
	writeFile(t, dir, "blog/three.md", "---\ntags: [go]\n---\n# Three\n")

	tree, err := content.Load(context.Background(), dir, nil, logging.Discard())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tree, build(t, tree, config.Tagger{})
}

func resourcePaths(rs []*model.Resource) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Path
	}
	return out
}

func TestGenerateArchivesEndToEnd(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	before := tree.Len()

	got, err := GenerateArchives(context.Background(), reg, tree, map[string]config.Archive{
		"blog": {Template: "t", Source: "blog", Target: "tags"},
	}, logging.Discard())
	if err != nil {
		t.Fatalf("GenerateArchives: %v", err)
	}

	want := []string{"tags/python.html", "tags/tutorial.html", "tags/go.html"}
	if diff := cmp.Diff(want, resourcePaths(got)); diff != "" {
		t.Errorf("generated mismatch (-want +got):\n%s", diff)
	}
	if tree.Len() != before+3 {
		t.Errorf("tree has %d resources, want %d", tree.Len(), before+3)
	}

	for _, rel := range want {
		if _, err := os.Stat(filepath.Join(tree.SourceDir(), filepath.FromSlash(rel))); err != nil {
			t.Errorf("%s not written: %v", rel, err)
		}
		res, ok := tree.Resource(rel)
		if !ok {
			t.Errorf("%s not in tree", rel)
			continue
		}
		if v, _ := res.Meta.Get("extends"); v != false {
			t.Errorf("%s extends = %v, want false", rel, v)
		}
	}

	python, _ := tree.Resource("tags/python.html")
	for _, line := range []string{
		`{{- $tag := tag "python" }}`,
		`{{- $source := node "blog" }}`,
		`{{- $walker := walker $source "python" }}`,
		`{{ template "t" (dict "tag" $tag "source" $source "walker" $walker "page" .) }}`,
	} {
		if !strings.Contains(python.Body, line) {
			t.Errorf("python archive body missing %q:\n%s", line, python.Body)
		}
	}

	walker, _ := reg.Walker("python")
	if diff := cmp.Diff([]string{"blog/one.md", "blog/two.md"}, collect(walker(tree.NodeFromRelativePath("blog")))); diff != "" {
		t.Errorf("python walker mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateArchiveDefaultsAndMeta(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	got, err := GenerateArchive(context.Background(), reg, tree, config.Archive{
		Template:  "list.html",
		Extension: ".htm",
		Meta:      model.Meta{"title": "Tagged"},
	}, logging.Discard())
	if err != nil {
		t.Fatalf("GenerateArchive: %v", err)
	}
	if got[0].Path != "tags/python.htm" {
		t.Errorf("path = %s, want tags/python.htm", got[0].Path)
	}
	if title := got[0].Meta.String("title"); title != "Tagged" {
		t.Errorf("title meta = %q", title)
	}
	if !strings.Contains(got[0].Body, `node ""`) {
		t.Errorf("empty source should bind the root node:\n%s", got[0].Body)
	}
}

func TestGenerateArchiveMissingTemplate(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	_, err := GenerateArchives(context.Background(), reg, tree, map[string]config.Archive{
		"blog": {Source: "blog"},
	}, logging.Discard())
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if !strings.Contains(err.Error(), "no template specified") {
		t.Errorf("error = %q", err)
	}
}

func TestGenerateArchiveOverwrites(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	writeFile(t, tree.SourceDir(), "tags/go.html", "stale")

	archive := config.Archive{Template: "t"}
	for range 2 {
		if _, err := GenerateArchive(context.Background(), reg, tree, archive, logging.Discard()); err != nil {
			t.Fatalf("GenerateArchive: %v", err)
		}
	}

	data, err := os.ReadFile(filepath.Join(tree.SourceDir(), "tags", "go.html"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ArchiveText("go", "", "t", "extends: false\n") {
		t.Errorf("file not overwritten:\n%s", data)
	}
	if tree.Len() != 6 {
		t.Errorf("tree has %d resources, want 6", tree.Len())
	}
}

func TestGenerateArchiveUnregisteredExtension(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	got, err := GenerateArchive(context.Background(), reg, tree, config.Archive{
		Template:  "feed.xml",
		Extension: "rss",
	}, logging.Discard())
	if err != nil {
		t.Fatalf("GenerateArchive: %v", err)
	}

	want := []string{"tags/python.rss", "tags/tutorial.rss", "tags/go.rss"}
	if diff := cmp.Diff(want, resourcePaths(got)); diff != "" {
		t.Errorf("generated mismatch (-want +got):\n%s", diff)
	}
	res, ok := tree.Resource("tags/go.rss")
	if !ok {
		t.Fatal("tags/go.rss not in tree")
	}
	if res.Format != "text" {
		t.Errorf("format = %q, want text", res.Format)
	}
	if !strings.Contains(res.Body, `{{ template "feed.xml"`) {
		t.Errorf("body = %q", res.Body)
	}
}

func TestArchiveMetaOverridesExtends(t *testing.T) {
	t.Parallel()

	tree, reg := loadSite(t)
	got, err := GenerateArchive(context.Background(), reg, tree, config.Archive{
		Template: "t",
		Meta:     model.Meta{"extends": "base.html", "title": "Tagged"},
	}, logging.Discard())
	if err != nil {
		t.Fatalf("GenerateArchive: %v", err)
	}

	for _, res := range got {
		if v, _ := res.Meta.Get("extends"); v != "base.html" {
			t.Errorf("%s extends = %v, want base.html", res.Path, v)
		}
		if strings.Contains(res.Body, "extends") {
			t.Errorf("%s front matter leaked into body: %q", res.Path, res.Body)
		}
	}

	data, err := os.ReadFile(filepath.Join(tree.SourceDir(), "tags", "go.html"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "extends:"); n != 1 {
		t.Errorf("front matter has %d extends keys, want 1:\n%s", n, data)
	}
}

func TestGenerateArchiveSkipsUnsafeNames(t *testing.T) {
	t.Parallel()

	tree := content.NewTree(t.TempDir(), nil)
	tree.Add(&model.Resource{Path: "a.md", Meta: model.Meta{"tags": []any{"a/b", "..", "ok"}}})
	reg := build(t, tree, config.Tagger{})

	got, err := GenerateArchive(context.Background(), reg, tree, config.Archive{Template: "t"}, logging.Discard())
	if err != nil {
		t.Fatalf("GenerateArchive: %v", err)
	}
	if diff := cmp.Diff([]string{"tags/ok.html"}, resourcePaths(got)); diff != "" {
		t.Errorf("generated mismatch (-want +got):\n%s", diff)
	}
}

func TestArchiveText(t *testing.T) {
	t.Parallel()

	got := ArchiveText(`say "hi"`, "blog", "list.html", "extends: false\ntitle: x\n")
	want := "---\nextends: false\ntitle: x\n---\n\n" +
		"{{- $tag := tag \"say \\\"hi\\\"\" }}\n" +
		"{{- $source := node \"blog\" }}\n" +
		"{{- $walker := walker $source \"say \\\"hi\\\"\" }}\n" +
		"{{ template \"list.html\" (dict \"tag\" $tag \"source\" $source \"walker\" $walker \"page\" .) }}\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
