package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studylog/internal/ui/theme"
)

const (
	maxHints   = 5
	maxHistory = 20
)

// PaletteSubmitMsg carries a confirmed command line.
type PaletteSubmitMsg struct{ Input string }

type PaletteCancelMsg struct{}

var paletteFrame = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(theme.Peach).
	Background(theme.Mantle).
	Foreground(theme.Text).
	Padding(0, 1)

// Commands lists the palette verbs with their argument shapes. The app's
// executePalette switch handles exactly these.
var Commands = []string{
	"session:start [material-id]",
	"session:stop",
	"category:add <name>",
	"material:add <category-id> <name>",
	"exercise:record <exercise-id> <value>",
	"history:window <all|month|trailing> [days]",
	"report:export [path]",
	"refresh",
}

// Palette is a one-line command prompt with prefix hints, tab completion
// and recall of earlier submissions.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
	history []string
	recall  int
}

func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "session:start 3"
	ti.CharLimit = 256
	return Palette{input: ti}
}

func (p Palette) Visible() bool { return p.visible }

// Open clears the prompt and focuses it.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

// Value is the text currently typed.
func (p Palette) Value() string { return p.input.Value() }

// Matches returns the commands whose verb starts with the typed text.
func (p Palette) Matches() []string {
	typed := strings.ToLower(strings.TrimSpace(p.input.Value()))
	verb, _, _ := strings.Cut(typed, " ")
	var out []string
	for _, c := range Commands {
		name, _, _ := strings.Cut(c, " ")
		if typed == "" || strings.HasPrefix(name, verb) {
			out = append(out, c)
			if len(out) == maxHints {
				break
			}
		}
	}
	return out
}

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			p.close()
			return p, func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			p.close()
			if val != "" {
				p.remember(val)
			}
			return p, func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			p.complete()
			return p, nil
		case "up":
			if p.recall > 0 {
				p.recall--
				p.input.SetValue(p.history[p.recall])
				p.input.CursorEnd()
			}
			return p, nil
		case "down":
			if p.recall < len(p.history)-1 {
				p.recall++
				p.input.SetValue(p.history[p.recall])
			} else {
				p.recall = len(p.history)
				p.input.SetValue("")
			}
			p.input.CursorEnd()
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Command") + "\n")
	sb.WriteString(": " + p.input.View() + "\n")
	if hints := p.Matches(); len(hints) > 0 {
		sb.WriteString("\n")
		for _, h := range hints {
			sb.WriteString(theme.Muted.Render("  "+h) + "\n")
		}
		sb.WriteString(theme.Muted.Render("tab: complete  ↑↓: recent"))
	}

	w := p.width
	if w < 20 {
		w = 64
	}
	return paletteFrame.Width(w - 2).Render(sb.String())
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

// complete replaces a partial verb with the single command it matches.
func (p *Palette) complete() {
	if strings.Contains(p.input.Value(), " ") {
		return
	}
	hints := p.Matches()
	if len(hints) != 1 {
		return
	}
	verb, _, _ := strings.Cut(hints[0], " ")
	if strings.Contains(hints[0], " ") {
		verb += " "
	}
	p.input.SetValue(verb)
	p.input.CursorEnd()
}

func (p *Palette) remember(line string) {
	if n := len(p.history); n > 0 && p.history[n-1] == line {
		return
	}
	p.history = append(p.history, line)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}
