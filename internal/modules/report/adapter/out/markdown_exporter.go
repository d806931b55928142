package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	reportdto "studylog/internal/modules/report/dto"
	reportout "studylog/internal/modules/report/port/out"
	"studylog/internal/platform/markdown"
)

const schemaVersion = 1

// MarkdownExporter writes the dashboard into a markdown note. Generated
// sections are replaced in place; anything the user wrote around them
// survives re-export.
type MarkdownExporter struct{}

func NewMarkdownExporter() reportout.Exporter {
	return MarkdownExporter{}
}

func (MarkdownExporter) Export(_ context.Context, path string, dashboard reportdto.DashboardOutput) (string, error) {
	doc := markdown.Document{Meta: map[string]any{}}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = markdown.Parse(string(existing))
		if err != nil {
			return "", fmt.Errorf("parse existing report %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		doc.Body = "# 学習レポート\n"
	default:
		return "", fmt.Errorf("read existing report: %w", err)
	}

	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	for key, value := range frontmatter(dashboard) {
		doc.Meta[key] = value
	}
	doc.UpsertSection("summary", summarySection(dashboard))
	doc.UpsertSection("active", activeSection(dashboard))
	doc.UpsertSection("materials", totalsSection("教材別", dashboard.AllTime.ByMaterial))
	doc.UpsertSection("categories", totalsSection("カテゴリ別", dashboard.AllTime.ByCategory))
	doc.UpsertSection("recent", sessionsSection(fmt.Sprintf("直近%d時間", dashboard.RecentHours), dashboard.Recent))
	doc.UpsertSection("history", sessionsSection("それ以前", dashboard.Historical))
	doc.UpsertSection("exercise", exerciseSection(dashboard))

	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace report: %w", err)
	}
	return path, nil
}

func frontmatter(d reportdto.DashboardOutput) map[string]any {
	meta := map[string]any{
		"schema_version":   schemaVersion,
		"generated_at":     d.GeneratedAt.Format(time.RFC3339),
		"total_minutes":    d.AllTime.Minutes,
		"month_minutes":    d.Month.Minutes,
		"trailing_minutes": d.Trailing.Minutes,
		"trailing_label":   d.Trailing.Label,
		"session_count":    len(d.Recent) + len(d.Historical),
		"active_material":  "",
	}
	if d.Active != nil {
		meta["active_material"] = d.Active.MaterialName
	}
	return meta
}

func summarySection(d reportdto.DashboardOutput) string {
	return markdown.Table(
		[]string{"期間", "合計"},
		[][]string{
			{d.AllTime.Label, d.AllTime.Duration},
			{d.Month.Label, d.Month.Duration},
			{d.Trailing.Label, d.Trailing.Duration},
		},
	)
}

func activeSection(d reportdto.DashboardOutput) string {
	if d.Active == nil {
		return "進行中のセッションはありません。"
	}
	return fmt.Sprintf("**%s** (%s) %s 開始、経過 %s", d.Active.MaterialName, d.Active.CategoryName, d.Active.Start, d.Active.Running)
}

func totalsSection(title string, rows []reportdto.TotalRow) string {
	if len(rows) == 0 {
		return "### " + title + "\n\n記録がありません。"
	}
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{r.Name, r.Duration})
	}
	return "### " + title + "\n\n" + markdown.Table([]string{"名前", "合計"}, body)
}

func sessionsSection(title string, rows []reportdto.SessionRow) string {
	if len(rows) == 0 {
		return "### " + title + "\n\n記録がありません。"
	}
	body := make([][]string, 0, len(rows))
	for _, r := range rows {
		body = append(body, []string{r.MaterialName, r.CategoryName, r.Start, r.End, r.Duration})
	}
	return "### " + title + "\n\n" + markdown.Table([]string{"教材", "カテゴリ", "開始", "終了", "時間"}, body)
}

func exerciseSection(d reportdto.DashboardOutput) string {
	title := "運動"
	if d.ExerciseLabel != "" {
		title += " (" + d.ExerciseLabel + ")"
	}
	if len(d.Exercise) == 0 {
		return "### " + title + "\n\n記録がありません。"
	}
	body := make([][]string, 0, len(d.Exercise))
	for _, r := range d.Exercise {
		body = append(body, []string{r.ExerciseName, r.CategoryName, r.Display, strconv.Itoa(r.Count)})
	}
	return "### " + title + "\n\n" + strings.TrimRight(markdown.Table([]string{"種目", "カテゴリ", "合計", "回数"}, body), "\n")
}
