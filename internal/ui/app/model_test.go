package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	catalogdto "studylog/internal/modules/catalog/dto"
	exercisedto "studylog/internal/modules/exercise/dto"
	presencedto "studylog/internal/modules/presence/dto"
	reportdto "studylog/internal/modules/report/dto"
	sessiondto "studylog/internal/modules/session/dto"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/ui/components"
	historyview "studylog/internal/ui/views/history"
)

type fakeCatalog struct {
	categories []string
	materials  []catalogdto.MaterialOutput
}

func (f *fakeCatalog) AddCategory(_ context.Context, name string) (catalogdto.CategoryOutput, error) {
	f.categories = append(f.categories, name)
	return catalogdto.CategoryOutput{ID: int64(len(f.categories)), Name: name, Active: true}, nil
}

func (f *fakeCatalog) AddMaterial(_ context.Context, name string, categoryID int64, imageKey string) (catalogdto.MaterialOutput, error) {
	out := catalogdto.MaterialOutput{ID: int64(len(f.materials) + 1), Name: name, CategoryID: categoryID, ImageKey: imageKey, Active: true}
	f.materials = append(f.materials, out)
	return out, nil
}

func (f *fakeCatalog) ListMaterials(context.Context, bool) ([]catalogdto.MaterialOutput, error) {
	return f.materials, nil
}

func (f *fakeCatalog) ListExercises(context.Context, bool) ([]catalogdto.ExerciseOutput, error) {
	return nil, nil
}

type fakeSession struct {
	started []int64
	deleted []int64
	active  *sessiondto.SessionOutput
}

func (f *fakeSession) Start(_ context.Context, materialID int64) (sessiondto.SessionOutput, error) {
	if f.active != nil {
		return sessiondto.SessionOutput{}, apperrors.ErrActiveSessionExists
	}
	f.started = append(f.started, materialID)
	out := sessiondto.SessionOutput{ID: 1, MaterialID: materialID, MaterialName: "Go", Open: true}
	f.active = &out
	return out, nil
}

func (f *fakeSession) Stop(context.Context) (sessiondto.SessionOutput, error) {
	if f.active == nil {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	out := *f.active
	out.Open = false
	out.Minutes = 42
	f.active = nil
	return out, nil
}

func (f *fakeSession) GetActive(context.Context) (sessiondto.SessionOutput, error) {
	if f.active == nil {
		return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
	}
	return *f.active, nil
}

func (f *fakeSession) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeExercise struct {
	recorded []float64
}

func (f *fakeExercise) Record(_ context.Context, exerciseID int64, value float64, _ *time.Time) (exercisedto.LogOutput, error) {
	f.recorded = append(f.recorded, value)
	return exercisedto.LogOutput{ID: 1, ExerciseID: exerciseID, ExerciseName: "腕立て", Value: value, Display: "20回"}, nil
}

func (f *fakeExercise) Delete(context.Context, int64) error { return nil }

func (f *fakeExercise) List(context.Context, *time.Time, int64, int) ([]exercisedto.LogOutput, error) {
	return nil, nil
}

func (f *fakeExercise) Totals(context.Context, string, int) (exercisedto.TotalsOutput, error) {
	return exercisedto.TotalsOutput{}, nil
}

type fakeReport struct {
	exported []string
}

func (f *fakeReport) Dashboard(context.Context) (reportdto.DashboardOutput, error) {
	return reportdto.DashboardOutput{}, nil
}

func (f *fakeReport) History(_ context.Context, window string, _ int) (reportdto.HistoryOutput, error) {
	return reportdto.HistoryOutput{
		Totals: reportdto.WindowTotal{Window: window, Label: window},
		Sessions: []reportdto.SessionRow{
			{ID: 7, MaterialName: "Go", Start: "2026年03月10日 09時00分", End: "10時00分", Duration: "1時間0分"},
		},
	}, nil
}

func (f *fakeReport) Export(_ context.Context, path string) (reportdto.ExportOutput, error) {
	f.exported = append(f.exported, path)
	return reportdto.ExportOutput{Path: "/tmp/report.md"}, nil
}

type fakePresence struct{}

func (fakePresence) Health(context.Context) presencedto.HealthOutput {
	return presencedto.HealthOutput{Sink: "noop"}
}

type fixture struct {
	catalog  *fakeCatalog
	session  *fakeSession
	exercise *fakeExercise
	report   *fakeReport
}

func newFixture() (Model, fixture) {
	f := fixture{
		catalog:  &fakeCatalog{},
		session:  &fakeSession{},
		exercise: &fakeExercise{},
		report:   &fakeReport{},
	}
	return NewModel(f.catalog, f.session, f.exercise, f.report, fakePresence{}), f
}

// run executes cmd and feeds the produced message back into the model.
// Batched commands are not followed.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if _, ok := msg.(tea.BatchMsg); ok {
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestPaletteStartsAndStopsSession(t *testing.T) {
	t.Parallel()
	m, f := newFixture()

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "session:start 3"})
	m = run(t, next.(Model), cmd)
	require.Equal(t, []int64{3}, f.session.started)
	require.True(t, m.hasActive)
	require.Contains(t, m.status, "session started")

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "session:start 3"})
	m = run(t, next.(Model), cmd)
	require.Contains(t, m.status, "進行中のセッションが既に存在します。")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = run(t, next.(Model), cmd)
	require.False(t, m.hasActive)
	require.Contains(t, m.status, "0時間42分")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	m = run(t, next.(Model), cmd)
	require.Contains(t, m.status, "進行中のセッションがありません。")
}

func TestPaletteValidatesArguments(t *testing.T) {
	t.Parallel()
	m, f := newFixture()

	cases := map[string]string{
		"session:start abc":      "invalid material id",
		"material:add x Go":      "invalid category id",
		"material:add 1":         "usage: material:add <category-id> <name>",
		"exercise:record 1 lots": "invalid value",
		"category:add":           "usage: category:add <name>",
		"history:window":         "usage: history:window <all|month|trailing> [days]",
		"bogus":                  "unknown command: bogus",
	}
	for input, want := range cases {
		next, _ := m.Update(components.PaletteSubmitMsg{Input: input})
		require.Equal(t, want, next.(Model).status, input)
	}
	require.Empty(t, f.catalog.materials)
	require.Empty(t, f.exercise.recorded)
}

func TestPaletteCatalogExerciseAndExport(t *testing.T) {
	t.Parallel()
	m, f := newFixture()

	next, cmd := m.Update(components.PaletteSubmitMsg{Input: "material:add 2 Go 言語"})
	m = run(t, next.(Model), cmd)
	require.Len(t, f.catalog.materials, 1)
	require.Equal(t, "Go 言語", f.catalog.materials[0].Name)
	require.Equal(t, int64(2), f.catalog.materials[0].CategoryID)

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "exercise:record 1 20"})
	m = run(t, next.(Model), cmd)
	require.Equal(t, []float64{20}, f.exercise.recorded)
	require.Equal(t, "recorded 腕立て 20回", m.status)

	next, cmd = m.Update(components.PaletteSubmitMsg{Input: "report:export"})
	m = run(t, next.(Model), cmd)
	require.Equal(t, []string{""}, f.report.exported)
	require.Equal(t, "exported /tmp/report.md", m.status)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	t.Parallel()
	m, f := newFixture()
	m.activeTab = tabHistory

	loaded := m.historyView.Reload()()
	require.IsType(t, historyview.LoadedMsg{}, loaded)
	next, _ := m.Update(loaded)
	m = next.(Model)

	d := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}
	next, cmd := m.Update(d)
	m = next.(Model)
	require.Nil(t, cmd)
	require.Contains(t, m.status, "press d again")
	require.Empty(t, f.session.deleted)

	next, cmd = m.Update(d)
	m = run(t, next.(Model), cmd)
	require.Equal(t, []int64{7}, f.session.deleted)
	require.Equal(t, "deleted session #7 Go", m.status)
}

func TestDeleteIsDisarmedByOtherKeys(t *testing.T) {
	t.Parallel()
	m, f := newFixture()
	m.activeTab = tabHistory
	next, _ := m.Update(m.historyView.Reload()())
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.NotNil(t, next.(Model).pending)
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.Nil(t, next.(Model).pending)
	next, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	require.Nil(t, cmd)
	require.Contains(t, next.(Model).status, "press d again")
	require.Empty(t, f.session.deleted)
}

func TestRenderHealth(t *testing.T) {
	t.Parallel()
	require.Equal(t, "presence off", renderHealth(presencedto.HealthOutput{Sink: "noop"}))
	require.Equal(t, "presence redis: offline", renderHealth(presencedto.HealthOutput{Sink: "redis"}))
	require.Equal(t, "presence redis: boom", renderHealth(presencedto.HealthOutput{Sink: "redis", Connected: true, LastError: "boom"}))
	require.Equal(t, "presence redis ✓3", renderHealth(presencedto.HealthOutput{Sink: "redis", Connected: true, Delivered: 3}))
}
