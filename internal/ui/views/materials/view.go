package materials

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "studylog/internal/modules/catalog/dto"
	reportdto "studylog/internal/modules/report/dto"
	"studylog/internal/platform/timefmt"
	"studylog/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type MaterialPort interface {
	ListMaterials(ctx context.Context, activeOnly bool) ([]catalogdto.MaterialOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type MaterialsLoadedMsg struct {
	Materials []catalogdto.MaterialOutput
	Err       error
}

// ─── list item ───────────────────────────────────────────────────────────────

type materialItem struct {
	material catalogdto.MaterialOutput
}

func (i materialItem) Title() string { return i.material.Name }
func (i materialItem) Description() string {
	return fmt.Sprintf("#%d  %s", i.material.ID, i.material.CategoryName)
}
func (i materialItem) FilterValue() string {
	return i.material.Name + " " + i.material.CategoryName
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    MaterialPort
	list    list.Model
	totals  map[int64]reportdto.TotalRow
	label   string
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(port MaterialPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Materials"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = theme.Body

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload refetches the active materials.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return MaterialsLoadedMsg{}
		}
		materials, err := m.port.ListMaterials(context.Background(), true)
		return MaterialsLoadedMsg{Materials: materials, Err: err}
	}
}

// SetTotals feeds per-material minutes for the detail pane.
func (m *Model) SetTotals(window reportdto.WindowTotal) {
	m.label = window.Label
	m.totals = make(map[int64]reportdto.TotalRow, len(window.ByMaterial))
	for _, row := range window.ByMaterial {
		m.totals[row.ID] = row
	}
	m.preview.SetContent(m.renderDetail())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case MaterialsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Materials: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Materials"
		items := make([]list.Item, len(msg.Materials))
		for i, mat := range msg.Materials {
			items[i] = materialItem{material: mat}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		m.preview.SetContent(m.renderDetail())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading materials…")
	}

	listW := m.width * 5 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// Selected returns the highlighted material, if any.
func (m Model) Selected() (catalogdto.MaterialOutput, bool) {
	if item, ok := m.list.SelectedItem().(materialItem); ok {
		return item.material, true
	}
	return catalogdto.MaterialOutput{}, false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 5 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	mat, ok := m.Selected()
	if !ok {
		return theme.Muted.Render("教材を追加してください  (:material:add <category-id> <name>)")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(mat.Name) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + fmt.Sprintf("%d", mat.ID) + "\n")
	sb.WriteString(theme.Muted.Render("category: ") + mat.CategoryName + "\n")
	if mat.ImageKey != "" {
		sb.WriteString(theme.Muted.Render("image:    ") + mat.ImageKey + "\n")
	}
	if m.label != "" {
		dur := timefmt.Duration(0)
		if row, ok := m.totals[mat.ID]; ok {
			dur = row.Duration
		}
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("%-10s", m.label+":")) + dur + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("s: start session  x: stop"))
	return sb.String()
}
