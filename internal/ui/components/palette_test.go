package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func typeText(p Palette, s string) Palette {
	for _, r := range s {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return p
}

func press(p Palette, k tea.KeyType) (Palette, tea.Msg) {
	p, cmd := p.Update(tea.KeyMsg{Type: k})
	if cmd == nil {
		return p, nil
	}
	return p, cmd()
}

func TestPaletteSubmitTrimsAndCloses(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeText(p, "  session:stop ")

	p, msg := press(p, tea.KeyEnter)
	require.False(t, p.Visible())
	require.Equal(t, PaletteSubmitMsg{Input: "session:stop"}, msg)
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeText(p, "refresh")

	p, msg := press(p, tea.KeyEsc)
	require.False(t, p.Visible())
	require.IsType(t, PaletteCancelMsg{}, msg)
}

func TestPaletteMatchesByVerb(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	require.Len(t, p.Matches(), maxHints)

	p = typeText(p, "session")
	require.Equal(t, []string{"session:start [material-id]", "session:stop"}, p.Matches())

	p = typeText(p, ":start 4")
	require.Equal(t, []string{"session:start [material-id]"}, p.Matches())
}

func TestPaletteTabCompletesUniqueVerb(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p.Open()
	p = typeText(p, "rep")
	p, _ = press(p, tea.KeyTab)
	require.Equal(t, "report:export ", p.Value())

	p.Open()
	p = typeText(p, "ses")
	p, _ = press(p, tea.KeyTab)
	require.Equal(t, "ses", p.Value(), "ambiguous prefix is left alone")

	p.Open()
	p = typeText(p, "ref")
	p, _ = press(p, tea.KeyTab)
	require.Equal(t, "refresh", p.Value())
}

func TestPaletteRecallsHistory(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	for _, line := range []string{"session:start 1", "session:stop", "session:stop"} {
		p.Open()
		p = typeText(p, line)
		p, _ = press(p, tea.KeyEnter)
	}
	require.Equal(t, []string{"session:start 1", "session:stop"}, p.history)

	p.Open()
	p, _ = press(p, tea.KeyUp)
	require.Equal(t, "session:stop", p.Value())
	p, _ = press(p, tea.KeyUp)
	require.Equal(t, "session:start 1", p.Value())
	p, _ = press(p, tea.KeyUp)
	require.Equal(t, "session:start 1", p.Value())
	p, _ = press(p, tea.KeyDown)
	require.Equal(t, "session:stop", p.Value())
	p, _ = press(p, tea.KeyDown)
	require.Empty(t, p.Value())
}

func TestPaletteHiddenIgnoresInput(t *testing.T) {
	t.Parallel()
	p := NewPalette()
	p = typeText(p, "x")
	require.Empty(t, p.Value())
	require.Empty(t, p.View())
}
