package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "studylog/internal/modules/catalog/dto"
	exercisedto "studylog/internal/modules/exercise/dto"
	presencedto "studylog/internal/modules/presence/dto"
	reportdto "studylog/internal/modules/report/dto"
	sessiondto "studylog/internal/modules/session/dto"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/timefmt"
	"studylog/internal/ui/components"
	"studylog/internal/ui/theme"
	dashboardview "studylog/internal/ui/views/dashboard"
	exerciseview "studylog/internal/ui/views/exercise"
	historyview "studylog/internal/ui/views/history"
	materialsview "studylog/internal/ui/views/materials"
)

const refreshInterval = 30 * time.Second

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type catalogPort interface {
	AddCategory(ctx context.Context, name string) (catalogdto.CategoryOutput, error)
	AddMaterial(ctx context.Context, name string, categoryID int64, imageKey string) (catalogdto.MaterialOutput, error)
	ListMaterials(ctx context.Context, activeOnly bool) ([]catalogdto.MaterialOutput, error)
	ListExercises(ctx context.Context, activeOnly bool) ([]catalogdto.ExerciseOutput, error)
}

type sessionPort interface {
	Start(ctx context.Context, materialID int64) (sessiondto.SessionOutput, error)
	Stop(ctx context.Context) (sessiondto.SessionOutput, error)
	GetActive(ctx context.Context) (sessiondto.SessionOutput, error)
	Delete(ctx context.Context, id int64) error
}

type exercisePort interface {
	Record(ctx context.Context, exerciseID int64, value float64, at *time.Time) (exercisedto.LogOutput, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, since *time.Time, exerciseID int64, limit int) ([]exercisedto.LogOutput, error)
	Totals(ctx context.Context, window string, days int) (exercisedto.TotalsOutput, error)
}

type reportPort interface {
	Dashboard(ctx context.Context) (reportdto.DashboardOutput, error)
	History(ctx context.Context, window string, days int) (reportdto.HistoryOutput, error)
	Export(ctx context.Context, path string) (reportdto.ExportOutput, error)
}

type presencePort interface {
	Health(ctx context.Context) presencedto.HealthOutput
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabMaterials
	tabHistory
	tabExercise
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Materials", "History", "Exercise",
}

// ─── async messages ───────────────────────────────────────────────────────────

type activeLoadedMsg struct {
	active sessiondto.SessionOutput
	err    error
}

type sessionStartedMsg struct {
	out sessiondto.SessionOutput
	err error
}

type sessionStoppedMsg struct {
	out sessiondto.SessionOutput
	err error
}

type deletedMsg struct {
	label string
	err   error
}

type catalogChangedMsg struct {
	label string
	err   error
}

type exerciseRecordedMsg struct {
	out exercisedto.LogOutput
	err error
}

type exportedMsg struct {
	out reportdto.ExportOutput
	err error
}

type healthLoadedMsg struct{ health presencedto.HealthOutput }

type refreshTickMsg struct{}

// pendingDelete is armed by the first press of the delete key and fired by the second.
type pendingDelete struct {
	tab   tabID
	id    int64
	label string
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Start   key.Binding
	Stop    key.Binding
	Delete  key.Binding
	Refresh key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start session")),
		Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop session")),
		Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d d", "delete entry")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Start, k.Stop},
		{k.Delete, k.Refresh},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the active session
// indicator, the global help overlay, and the command palette. All business
// logic is delegated to port interfaces; all rendering is delegated to sub-views.
type Model struct {
	catalog  catalogPort
	session  sessionPort
	exercise exercisePort
	report   reportPort
	presence presencePort

	dashView     dashboardview.Model
	materialView materialsview.Model
	historyView  historyview.Model
	exerciseView exerciseview.Model

	activeTab     tabID
	keys          keyMap
	help          help.Model
	showHelp      bool
	palette       components.Palette
	activeSession sessiondto.SessionOutput
	hasActive     bool
	health        presencedto.HealthOutput
	pending       *pendingDelete
	status        string
	width         int
	height        int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(
	catalog catalogPort,
	session sessionPort,
	exercise exercisePort,
	report reportPort,
	presence presencePort,
) Model {
	return Model{
		catalog:      catalog,
		session:      session,
		exercise:     exercise,
		report:       report,
		presence:     presence,
		dashView:     dashboardview.New(report),
		materialView: materialsview.New(catalog),
		historyView:  historyview.New(report),
		exerciseView: exerciseview.New(exercise, catalog),
		activeTab:    tabDashboard,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashView.Init(),
		m.materialView.Init(),
		m.historyView.Init(),
		m.exerciseView.Init(),
		m.loadActiveCmd(),
		m.loadHealthCmd(),
		refreshTick(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts key input while open; async results still land.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, cmd
		}
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Loaded messages belong to a specific view no matter which tab is showing.
	case dashboardview.LoadedMsg:
		if msg.Err == nil {
			m.materialView.SetTotals(msg.Dashboard.Month)
		}
		var cmd tea.Cmd
		m.dashView, cmd = m.dashView.Update(msg)
		return m, cmd

	case materialsview.MaterialsLoadedMsg:
		var cmd tea.Cmd
		m.materialView, cmd = m.materialView.Update(msg)
		return m, cmd

	case historyview.LoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case exerciseview.LoadedMsg:
		var cmd tea.Cmd
		m.exerciseView, cmd = m.exerciseView.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var dCmd, mCmd tea.Cmd
		m.dashView, dCmd = m.dashView.Update(msg)
		m.materialView, mCmd = m.materialView.Update(msg)
		return m, tea.Batch(dCmd, mCmd)

	case activeLoadedMsg:
		switch {
		case msg.err == nil:
			m.hasActive = true
			m.activeSession = msg.active
		case errors.Is(msg.err, apperrors.ErrNoActiveSession):
			m.hasActive = false
			m.activeSession = sessiondto.SessionOutput{}
		default:
			m.status = "active session check: " + apperrors.Message(msg.err)
		}

	case healthLoadedMsg:
		m.health = msg.health

	case refreshTickMsg:
		return m, tea.Batch(m.loadActiveCmd(), m.loadHealthCmd(), m.dashView.Reload(), refreshTick())

	case sessionStartedMsg:
		if msg.err != nil {
			m.status = "session start failed: " + apperrors.Message(msg.err)
			return m, nil
		}
		m.hasActive = true
		m.activeSession = msg.out
		m.status = "session started: " + msg.out.MaterialName
		return m, m.reloadAll()

	case sessionStoppedMsg:
		if msg.err != nil {
			m.status = "session stop failed: " + apperrors.Message(msg.err)
			return m, nil
		}
		m.hasActive = false
		m.activeSession = sessiondto.SessionOutput{}
		m.status = fmt.Sprintf("session stopped: %s (%s)", msg.out.MaterialName, timefmt.Duration(msg.out.Minutes))
		return m, m.reloadAll()

	case deletedMsg:
		if msg.err != nil {
			m.status = "delete failed: " + apperrors.Message(msg.err)
			return m, nil
		}
		m.status = "deleted " + msg.label
		return m, m.reloadAll()

	case catalogChangedMsg:
		if msg.err != nil {
			m.status = "catalog: " + apperrors.Message(msg.err)
			return m, nil
		}
		m.status = msg.label
		return m, m.reloadAll()

	case exerciseRecordedMsg:
		if msg.err != nil {
			m.status = "record failed: " + apperrors.Message(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("recorded %s %s", msg.out.ExerciseName, msg.out.Display)
		return m, m.reloadAll()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + apperrors.Message(msg.err)
		} else {
			m.status = "exported " + msg.out.Path
		}
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		if msg.String() != "d" {
			m.pending = nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "s":
			if m.activeTab == tabMaterials {
				if mat, ok := m.materialView.Selected(); ok {
					return m, m.startSessionCmd(mat.ID)
				}
				m.status = "no material selected"
				return m, nil
			}
		case "x":
			return m, m.stopSessionCmd()
		case "d":
			return m.handleDelete()
		case "r":
			m.status = "refreshing"
			return m, m.reloadAll()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabMaterials:
		m.materialView, tabCmd = m.materialView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	case tabExercise:
		m.exerciseView, tabCmd = m.exerciseView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// handleDelete arms a deletion on the first press and performs it on the second.
func (m Model) handleDelete() (tea.Model, tea.Cmd) {
	var target pendingDelete
	switch m.activeTab {
	case tabHistory:
		row, ok := m.historyView.SelectedSession()
		if !ok {
			m.status = "no session selected"
			return m, nil
		}
		target = pendingDelete{tab: tabHistory, id: row.ID, label: fmt.Sprintf("session #%d %s", row.ID, row.MaterialName)}
	case tabExercise:
		log, ok := m.exerciseView.SelectedLog()
		if !ok {
			m.status = "no log selected"
			return m, nil
		}
		target = pendingDelete{tab: tabExercise, id: log.ID, label: fmt.Sprintf("log #%d %s", log.ID, log.ExerciseName)}
	default:
		return m, nil
	}

	if m.pending == nil || *m.pending != target {
		m.pending = &target
		m.status = "press d again to delete " + target.label
		return m, nil
	}
	m.pending = nil
	if target.tab == tabHistory {
		return m, m.deleteSessionCmd(target.id, target.label)
	}
	return m, m.deleteLogCmd(target.id, target.label)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabMaterials:
		return m.materialView.View()
	case tabHistory:
		return m.historyView.View()
	case tabExercise:
		return m.exerciseView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "studylog  " + strings.Join(parts, sep)
	return theme.Bar.Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.hasActive {
		active := fmt.Sprintf("● %s %s", m.activeSession.MaterialName, timefmt.Duration(m.activeSession.RunningMinutes))
		left = theme.Running.Render(active) + "  " + left
	}
	health := theme.Muted.Render(renderHealth(m.health))
	if m.health.LastError != "" {
		health = theme.Warn.Render(renderHealth(m.health))
	}
	right := health + theme.Muted.Render("  ?:help  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + theme.Bar.Width(m.width).Render(bar)
}

func renderHealth(h presencedto.HealthOutput) string {
	switch {
	case h.Sink == "" || h.Sink == "noop":
		return "presence off"
	case h.LastError != "":
		return fmt.Sprintf("presence %s: %s", h.Sink, h.LastError)
	case !h.Connected:
		return "presence " + h.Sink + ": offline"
	default:
		return fmt.Sprintf("presence %s ✓%d", h.Sink, h.Delivered)
	}
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:start":
		if len(parts) >= 2 {
			id, err := strconv.ParseInt(parts[1], 10, 64)
			if err != nil {
				m.status = "invalid material id"
				return m, nil
			}
			return m, m.startSessionCmd(id)
		}
		mat, ok := m.materialView.Selected()
		if !ok {
			m.status = "no material selected"
			return m, nil
		}
		return m, m.startSessionCmd(mat.ID)

	case "session:stop":
		return m, m.stopSessionCmd()

	case "category:add":
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		if name == "" {
			m.status = "usage: category:add <name>"
			return m, nil
		}
		return m, m.addCategoryCmd(name)

	case "material:add":
		if len(parts) < 3 {
			m.status = "usage: material:add <category-id> <name>"
			return m, nil
		}
		categoryID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			m.status = "invalid category id"
			return m, nil
		}
		name := strings.TrimSpace(strings.TrimPrefix(input, parts[0]+" "+parts[1]))
		return m, m.addMaterialCmd(name, categoryID)

	case "exercise:record":
		if len(parts) < 3 {
			m.status = "usage: exercise:record <exercise-id> <value>"
			return m, nil
		}
		exerciseID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			m.status = "invalid exercise id"
			return m, nil
		}
		value, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			m.status = "invalid value"
			return m, nil
		}
		return m, m.recordExerciseCmd(exerciseID, value)

	case "history:window":
		if len(parts) < 2 {
			m.status = "usage: history:window <all|month|trailing> [days]"
			return m, nil
		}
		days := 0
		if len(parts) >= 3 {
			d, err := strconv.Atoi(parts[2])
			if err != nil {
				m.status = "invalid days"
				return m, nil
			}
			days = d
		}
		m.activeTab = tabHistory
		return m, m.historyView.SetWindow(parts[1], days)

	case "report:export":
		path := ""
		if len(parts) >= 2 {
			path = strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		}
		return m, m.exportCmd(path)

	case "refresh":
		return m, m.reloadAll()

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabMaterials:
		return m.materialView.Filtering()
	case tabHistory:
		return m.historyView.Filtering()
	case tabExercise:
		return m.exerciseView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.materialView, _ = m.materialView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
	m.exerciseView, _ = m.exerciseView.Update(sz)
}

func (m Model) reloadAll() tea.Cmd {
	return tea.Batch(
		m.dashView.Reload(),
		m.materialView.Reload(),
		m.historyView.Reload(),
		m.exerciseView.Reload(),
		m.loadActiveCmd(),
		m.loadHealthCmd(),
	)
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshTickMsg{} })
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) loadActiveCmd() tea.Cmd {
	return func() tea.Msg {
		active, err := m.session.GetActive(context.Background())
		return activeLoadedMsg{active: active, err: err}
	}
}

func (m Model) loadHealthCmd() tea.Cmd {
	return func() tea.Msg {
		if m.presence == nil {
			return healthLoadedMsg{}
		}
		return healthLoadedMsg{health: m.presence.Health(context.Background())}
	}
}

func (m Model) startSessionCmd(materialID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Start(context.Background(), materialID)
		return sessionStartedMsg{out: out, err: err}
	}
}

func (m Model) stopSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.session.Stop(context.Background())
		return sessionStoppedMsg{out: out, err: err}
	}
}

func (m Model) deleteSessionCmd(id int64, label string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{label: label, err: m.session.Delete(context.Background(), id)}
	}
}

func (m Model) deleteLogCmd(id int64, label string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{label: label, err: m.exercise.Delete(context.Background(), id)}
	}
}

func (m Model) addCategoryCmd(name string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.catalog.AddCategory(context.Background(), name)
		return catalogChangedMsg{label: fmt.Sprintf("category #%d %s added", out.ID, out.Name), err: err}
	}
}

func (m Model) addMaterialCmd(name string, categoryID int64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.catalog.AddMaterial(context.Background(), name, categoryID, "")
		return catalogChangedMsg{label: fmt.Sprintf("material #%d %s added", out.ID, out.Name), err: err}
	}
}

func (m Model) recordExerciseCmd(exerciseID int64, value float64) tea.Cmd {
	return func() tea.Msg {
		out, err := m.exercise.Record(context.Background(), exerciseID, value, nil)
		return exerciseRecordedMsg{out: out, err: err}
	}
}

func (m Model) exportCmd(path string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.report.Export(context.Background(), path)
		return exportedMsg{out: out, err: err}
	}
}
