package markdown

import (
	"strings"
	"testing"
)

func TestParseAndRenderFrontmatter(t *testing.T) {
	t.Parallel()
	doc, err := Parse("---\ntitle: 学習記録\n---\n\n# Notes\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if doc.Meta["title"] != "学習記録" {
		t.Fatalf("unexpected meta: %#v", doc.Meta)
	}
	if doc.Body != "\n# Notes\n" {
		t.Fatalf("unexpected body: %q", doc.Body)
	}

	rendered, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\ntitle: 学習記録\n---\n") {
		t.Fatalf("unexpected render: %q", rendered)
	}
}

func TestParseRejectsUnclosedFrontmatter(t *testing.T) {
	t.Parallel()
	if _, err := Parse("---\ntitle: x\n"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestUpsertSectionKeepsSurroundingText(t *testing.T) {
	t.Parallel()
	doc := Document{Meta: map[string]any{}, Body: "my notes"}
	doc.UpsertSection("dashboard", "first")
	doc.UpsertSection("dashboard", "second\n")

	if strings.Count(doc.Body, "studylog:dashboard:start") != 1 {
		t.Fatalf("section duplicated: %q", doc.Body)
	}
	if !strings.HasPrefix(doc.Body, "my notes\n\n") {
		t.Fatalf("user text lost: %q", doc.Body)
	}
	got, ok := doc.Section("dashboard")
	if !ok || got != "second" {
		t.Fatalf("section = %q, %v", got, ok)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	got := Table([]string{"教材", "合計"}, [][]string{{"a|b", "1時間0分"}})
	want := "| 教材 | 合計 |\n| --- | --- |\n| a\\|b | 1時間0分 |\n"
	if got != want {
		t.Fatalf("table = %q", got)
	}
}
