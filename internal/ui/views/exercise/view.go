package exercise

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "studylog/internal/modules/catalog/dto"
	exercisedto "studylog/internal/modules/exercise/dto"
	"studylog/internal/platform/period"
	"studylog/internal/platform/timefmt"
	"studylog/internal/ui/theme"
)

const listLimit = 200

// ─── port ────────────────────────────────────────────────────────────────────

type ExercisePort interface {
	List(ctx context.Context, since *time.Time, exerciseID int64, limit int) ([]exercisedto.LogOutput, error)
	Totals(ctx context.Context, window string, days int) (exercisedto.TotalsOutput, error)
}

type CatalogPort interface {
	ListExercises(ctx context.Context, activeOnly bool) ([]catalogdto.ExerciseOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Logs      []exercisedto.LogOutput
	Totals    exercisedto.TotalsOutput
	Exercises []catalogdto.ExerciseOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type logItem struct {
	log exercisedto.LogOutput
}

func (i logItem) Title() string { return i.log.ExerciseName + "  " + i.log.Display }
func (i logItem) Description() string {
	return fmt.Sprintf("#%d  %s  %s", i.log.ID, timefmt.Start(i.log.RecordTime), i.log.CategoryName)
}
func (i logItem) FilterValue() string {
	return i.log.ExerciseName + " " + i.log.CategoryName
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      ExercisePort
	catalog   CatalogPort
	list      list.Model
	totals    exercisedto.TotalsOutput
	exercises []catalogdto.ExerciseOutput
	side      viewport.Model
	width     int
	height    int
}

func New(port ExercisePort, catalog CatalogPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Exercise"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = theme.Body

	return Model{port: port, catalog: catalog, list: l, side: vp}
}

func (m Model) Init() tea.Cmd {
	return m.Reload()
}

// Reload fetches recent logs, trailing totals and the exercise catalog together.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		ctx := context.Background()
		logs, err := m.port.List(ctx, nil, 0, listLimit)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		totals, err := m.port.Totals(ctx, string(period.Trailing), period.DefaultTrailingDays)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		var exercises []catalogdto.ExerciseOutput
		if m.catalog != nil {
			if exercises, err = m.catalog.ListExercises(ctx, true); err != nil {
				return LoadedMsg{Err: err}
			}
		}
		return LoadedMsg{Logs: logs, Totals: totals, Exercises: exercises}
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
			m.list.Title = "Exercise: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Exercise"
		m.totals = msg.Totals
		m.exercises = msg.Exercises
		items := make([]list.Item, len(msg.Logs))
		for i, log := range msg.Logs {
			items[i] = logItem{log: log}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.side.SetContent(m.renderSide())
	}

	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)

	var vCmd tea.Cmd
	m.side, vCmd = m.side.Update(msg)
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
		Render(m.side.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, sidePane)
}

// SelectedLog returns the highlighted log entry, if any.
func (m Model) SelectedLog() (exercisedto.LogOutput, bool) {
	if item, ok := m.list.SelectedItem().(logItem); ok {
		return item.log, true
	}
	return exercisedto.LogOutput{}, false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 6 / 10
	sideW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.side.Width = sideW - 4
	m.side.Height = m.height - 4
}

func (m Model) renderSide() string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("合計 ("+m.totals.Label+")") + "\n")
	if len(m.totals.Totals) == 0 {
		sb.WriteString(theme.Muted.Render("記録なし") + "\n")
	}
	for _, t := range m.totals.Totals {
		sb.WriteString(fmt.Sprintf("  %s  %s\n", t.ExerciseName, t.Display))
	}
	sb.WriteString("\n" + theme.Title.Render("種目") + "\n")
	for _, e := range m.exercises {
		sb.WriteString(fmt.Sprintf("  #%d %s %s\n", e.ID, e.Name, theme.Muted.Render(e.ValueType)))
	}
	sb.WriteString("\n" + theme.Muted.Render("d: delete  :exercise:record <id> <value>"))
	return sb.String()
}
