package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "studylog/internal/modules/report/dto"
	"studylog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type DashboardPort interface {
	Dashboard(ctx context.Context) (reportdto.DashboardOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Dashboard reportdto.DashboardOutput
	Err       error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    DashboardPort
	data    reportdto.DashboardOutput
	err     error
	body    viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port DashboardPort) Model {
	vp := viewport.New(0, 0)
	vp.Style = theme.Body

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{port: port, body: vp, spinner: sp, loading: true}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches a fresh dashboard.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.Dashboard(context.Background())
		return LoadedMsg{Dashboard: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.body.Width = m.width - 2
		m.body.Height = m.height - 2
		m.body.SetContent(m.render())

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.data = msg.Dashboard
		}
		m.body.SetContent(m.render())

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading dashboard…")
	}
	return theme.Pane.Render(m.body.View())
}

// Data returns the last dashboard that loaded successfully.
func (m Model) Data() reportdto.DashboardOutput { return m.data }

func (m Model) render() string {
	if m.err != nil {
		return theme.Error.Render("dashboard unavailable: " + m.err.Error())
	}
	d := m.data
	var sb strings.Builder

	sb.WriteString(theme.Title.Render("進行中") + "\n")
	if d.Active != nil {
		sb.WriteString(fmt.Sprintf("%s  %s  %s〜  %s\n",
			theme.Running.Render("●"), d.Active.MaterialName,
			d.Active.Start, d.Active.Running))
	} else {
		sb.WriteString(theme.Muted.Render("進行中のセッションはありません") + "\n")
	}

	sb.WriteString("\n" + theme.Title.Render("合計") + "\n")
	for _, w := range []reportdto.WindowTotal{d.AllTime, d.Month, d.Trailing} {
		sb.WriteString(fmt.Sprintf("%s%s\n", pad(w.Label, 10), w.Duration))
	}

	sb.WriteString("\n" + theme.Title.Render("教材別 ("+d.Month.Label+")") + "\n")
	writeTotals(&sb, d.Month.ByMaterial)
	sb.WriteString("\n" + theme.Title.Render("カテゴリ別 ("+d.Month.Label+")") + "\n")
	writeTotals(&sb, d.Month.ByCategory)

	sb.WriteString("\n" + theme.Title.Render(fmt.Sprintf("直近%d時間", d.RecentHours)) + "\n")
	writeSessions(&sb, d.Recent)

	if len(d.Exercise) > 0 {
		sb.WriteString("\n" + theme.Title.Render("運動 ("+d.ExerciseLabel+")") + "\n")
		for _, e := range d.Exercise {
			sb.WriteString(fmt.Sprintf("%s%s  %s\n", pad(e.ExerciseName, 16), e.Display,
				theme.Muted.Render(fmt.Sprintf("%d回記録", e.Count))))
		}
	}
	return sb.String()
}

func writeTotals(sb *strings.Builder, rows []reportdto.TotalRow) {
	if len(rows) == 0 {
		sb.WriteString(theme.Muted.Render("記録なし") + "\n")
		return
	}
	for _, r := range rows {
		sb.WriteString(pad(r.Name, 16) + r.Duration + "\n")
	}
}

func writeSessions(sb *strings.Builder, rows []reportdto.SessionRow) {
	if len(rows) == 0 {
		sb.WriteString(theme.Muted.Render("記録なし") + "\n")
		return
	}
	for _, r := range rows {
		dur := r.Duration
		if r.Open {
			dur = theme.Running.Render(r.Running)
		}
		sb.WriteString(fmt.Sprintf("%s  %s  %s\n", r.Start, pad(r.MaterialName, 16), dur))
	}
}

// pad right-pads s to n display cells.
func pad(s string, n int) string {
	w := lipgloss.Width(s)
	if w >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-w)
}
