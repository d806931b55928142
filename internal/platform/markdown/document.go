// Package markdown reads and writes the report notes: YAML frontmatter, a
// body whose generated sections are fenced by HTML comment markers, and
// pipe tables.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

type Document struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without
// frontmatter yields empty Meta.
func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, separator) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return Document{}, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Document{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Document{Meta: meta, Body: rest[idx+len("\n"+separator):]}, nil
}

func (d Document) Render() (string, error) {
	buf := bytes.Buffer{}
	if len(d.Meta) > 0 {
		raw, err := yaml.Marshal(d.Meta)
		if err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
		buf.WriteString(separator)
		buf.Write(raw)
		buf.WriteString(separator)
		if !strings.HasPrefix(d.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	buf.WriteString(d.Body)
	return buf.String(), nil
}

func sectionMarkers(name string) (string, string) {
	return fmt.Sprintf("<!-- studylog:%s:start -->", name), fmt.Sprintf("<!-- studylog:%s:end -->", name)
}

// UpsertSection replaces the generated section called name, or appends it.
// Text outside the markers is left untouched.
func (d *Document) UpsertSection(name, generated string) {
	startMarker, endMarker := sectionMarkers(name)
	block := startMarker + "\n" + strings.TrimRight(generated, "\n") + "\n" + endMarker

	start := strings.Index(d.Body, startMarker)
	end := strings.Index(d.Body, endMarker)
	switch {
	case start >= 0 && end > start:
		d.Body = d.Body[:start] + block + d.Body[end+len(endMarker):]
	case strings.TrimSpace(d.Body) == "":
		d.Body = block + "\n"
	case strings.HasSuffix(d.Body, "\n"):
		d.Body = d.Body + "\n" + block + "\n"
	default:
		d.Body = d.Body + "\n\n" + block + "\n"
	}
}

// Section returns the generated content called name.
func (d Document) Section(name string) (string, bool) {
	startMarker, endMarker := sectionMarkers(name)
	start := strings.Index(d.Body, startMarker)
	end := strings.Index(d.Body, endMarker)
	if start < 0 || end <= start {
		return "", false
	}
	return strings.Trim(d.Body[start+len(startMarker):end], "\n"), true
}

// Table renders a pipe table. Pipes inside cells are escaped.
func Table(headers []string, rows [][]string) string {
	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("|")
		for _, cell := range cells {
			b.WriteString(" ")
			b.WriteString(strings.ReplaceAll(cell, "|", `\|`))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(headers)
	b.WriteString("|")
	for range headers {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}
