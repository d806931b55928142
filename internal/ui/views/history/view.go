package history

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	reportdto "studylog/internal/modules/report/dto"
	"studylog/internal/platform/period"
	"studylog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type HistoryPort interface {
	History(ctx context.Context, window string, days int) (reportdto.HistoryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	History reportdto.HistoryOutput
	Err     error
}

// ─── list item ───────────────────────────────────────────────────────────────

type sessionItem struct {
	row reportdto.SessionRow
}

func (i sessionItem) Title() string { return i.row.MaterialName }
func (i sessionItem) Description() string {
	if i.row.Open {
		return fmt.Sprintf("%s〜  %s", i.row.Start, i.row.Running)
	}
	return fmt.Sprintf("%s〜%s  %s", i.row.Start, i.row.End, i.row.Duration)
}
func (i sessionItem) FilterValue() string {
	return i.row.MaterialName + " " + i.row.CategoryName
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    HistoryPort
	window  string
	days    int
	list    list.Model
	totals  reportdto.WindowTotal
	summary viewport.Model
	width   int
	height  int
}

func New(port HistoryPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "History"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = theme.Body

	return Model{
		port:    port,
		window:  string(period.Month),
		list:    l,
		summary: vp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// SetWindow switches the aggregation window and reloads.
func (m *Model) SetWindow(window string, days int) tea.Cmd {
	m.window = window
	m.days = days
	return m.Reload()
}

func (m Model) Reload() tea.Cmd {
	window, days := m.window, m.days
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.History(context.Background(), window, days)
		return LoadedMsg{History: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		if msg.Err != nil {
			m.list.Title = "History: " + msg.Err.Error()
			return m, nil
		}
		m.totals = msg.History.Totals
		m.list.Title = "History (" + m.totals.Label + ")"
		items := make([]list.Item, len(msg.History.Sessions))
		for i, row := range msg.History.Sessions {
			items[i] = sessionItem{row: row}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.summary.SetContent(m.renderSummary())
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	var vCmd tea.Cmd
	m.summary, vCmd = m.summary.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	listW := m.width * 6 / 10
	sideW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	sidePane := theme.Pane.
		Width(sideW - 2).
		Height(m.height - 2).
		Render(m.summary.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, sidePane)
}

// SelectedSession returns the highlighted session, if any.
func (m Model) SelectedSession() (reportdto.SessionRow, bool) {
	if item, ok := m.list.SelectedItem().(sessionItem); ok {
		return item.row, true
	}
	return reportdto.SessionRow{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 6 / 10
	sideW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.summary.Width = sideW - 4
	m.summary.Height = m.height - 4
}

func (m Model) renderSummary() string {
	t := m.totals
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(t.Label) + "\n")
	sb.WriteString(t.Duration + "\n\n")
	sb.WriteString(theme.Muted.Render("教材別") + "\n")
	for _, row := range t.ByMaterial {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", row.Name, row.Duration))
	}
	sb.WriteString("\n" + theme.Muted.Render("カテゴリ別") + "\n")
	for _, row := range t.ByCategory {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", row.Name, row.Duration))
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete  :history:window <all|month|trailing> [days]"))
	return sb.String()
}
