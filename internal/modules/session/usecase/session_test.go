package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"path/filepath"
	"sync"
	"testing"
	"time"

	catalogout "studylog/internal/modules/catalog/adapter/out"
	catalogdto "studylog/internal/modules/catalog/dto"
	catalogin "studylog/internal/modules/catalog/port/in"
	catalogservice "studylog/internal/modules/catalog/service"
	catalogusecase "studylog/internal/modules/catalog/usecase"
	presencedto "studylog/internal/modules/presence/dto"
	sessionout "studylog/internal/modules/session/adapter/out"
	sessiondto "studylog/internal/modules/session/dto"
	sessionin "studylog/internal/modules/session/port/in"
	"studylog/internal/modules/session/service"
	"studylog/internal/modules/session/usecase"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
	"studylog/internal/platform/sqldb"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakePresence struct {
	mu        sync.Mutex
	published []presencedto.PublishInput
	cleared   int
}

func (f *fakePresence) Connect(context.Context) error { return nil }
func (f *fakePresence) Publish(_ context.Context, input presencedto.PublishInput) {
	f.mu.Lock()
	f.published = append(f.published, input)
	f.mu.Unlock()
}
func (f *fakePresence) Clear(context.Context) {
	f.mu.Lock()
	f.cleared++
	f.mu.Unlock()
}
func (f *fakePresence) Health(context.Context) presencedto.HealthOutput {
	return presencedto.HealthOutput{}
}
func (f *fakePresence) Close(context.Context) error { return nil }

type fixture struct {
	db       *sqldb.DB
	clock    *manualClock
	presence *fakePresence
	catalog  catalogin.Usecase
	sessions sessionin.Usecase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "studylog.db"), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	clk := &manualClock{now: time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)}
	presence := &fakePresence{}
	catalog := catalogusecase.NewInteractor(catalogservice.NewCatalogService(catalogout.NewSQLCatalogStore(db), db))
	sessions := usecase.NewInteractor(
		service.NewSessionService(clk, sessionout.NewSQLSessionStore(db), db),
		catalog,
		presence,
		clk,
		usecase.Options{PresenceWindow: period.CurrentMonth()},
	)
	return fixture{db: db, clock: clk, presence: presence, catalog: catalog, sessions: sessions}
}

func (f fixture) material(t *testing.T, name string) catalogdto.MaterialOutput {
	t.Helper()
	ctx := context.Background()
	category, err := f.catalog.AddCategory(ctx, catalogdto.AddCategoryInput{Name: name + "-cat"})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	material, err := f.catalog.AddMaterial(ctx, catalogdto.AddMaterialInput{Name: name, CategoryID: category.ID, ImageKey: "img-" + name})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}
	return material
}

func (f fixture) seedClosed(t *testing.T, materialID int64, start time.Time, d time.Duration) {
	t.Helper()
	if _, err := f.db.Exec(context.Background(),
		`INSERT INTO sessions (material_id, start_time, end_time) VALUES (?, ?, ?)`,
		materialID, sqldb.FormatTime(start), sqldb.FormatTime(start.Add(d)),
	); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestStartStopRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	material := f.material(t, "英単語")

	started, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: material.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !started.Open || started.MaterialName != "英単語" {
		t.Fatalf("unexpected started session: %+v", started)
	}
	active, err := f.sessions.GetActive(ctx)
	if err != nil || active.ID != started.ID {
		t.Fatalf("get active: %+v, %v", active, err)
	}

	f.clock.advance(45*time.Minute + 30*time.Second)
	stopped, err := f.sessions.Stop(ctx)
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if stopped.Open || stopped.Minutes != 45 {
		t.Fatalf("expected closed 45 minute session, got %+v", stopped)
	}

	all, err := f.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].Open || all[0].Minutes < 0 {
		t.Fatalf("expected one closed session, got %+v", all)
	}
	if _, err := f.sessions.GetActive(ctx); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if len(f.presence.published) != 1 || f.presence.cleared != 1 {
		t.Fatalf("expected one publish and one clear, got %d/%d", len(f.presence.published), f.presence.cleared)
	}
}

func TestStartConflictLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.material(t, "a")
	b := f.material(t, "b")

	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: a.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: b.ID})
	if !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected conflict, got %v", err)
	}
	all, err := f.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all[0].MaterialID != a.ID {
		t.Fatalf("store changed by failed start: %+v", all)
	}
	if len(f.presence.published) != 1 {
		t.Fatalf("failed start must not publish, got %d", len(f.presence.published))
	}
}

func TestStopWithoutOpenSession(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.sessions.Stop(context.Background()); !errors.Is(err, apperrors.ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
	if f.presence.cleared != 0 {
		t.Fatalf("failed stop must not clear presence")
	}
}

func TestStartPublishesFreshAggregates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.material(t, "微積分")
	b := f.material(t, "力学")

	now := f.clock.Now()
	f.seedClosed(t, a.ID, now.AddDate(0, -1, 0), 60*time.Minute)
	f.seedClosed(t, a.ID, now.Add(-48*time.Hour), 30*time.Minute)
	f.seedClosed(t, b.ID, now.Add(-24*time.Hour), 20*time.Minute)

	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: a.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(f.presence.published) != 1 {
		t.Fatalf("expected one publish, got %d", len(f.presence.published))
	}
	got := f.presence.published[0]
	want := presencedto.PublishInput{
		MaterialName:         "微積分",
		ImageKey:             "img-微積分",
		StartedAt:            got.StartedAt,
		MaterialTotalMinutes: 90,
		WindowLabel:          "今月",
		MaterialWindowMin:    30,
		OverallWindowMin:     50,
	}
	if got != want {
		t.Fatalf("unexpected publish input:\n got %+v\nwant %+v", got, want)
	}
	if !got.StartedAt.Equal(now) {
		t.Fatalf("expected start epoch %s, got %s", now, got.StartedAt)
	}
}

func TestStartRejectsInactiveOrMissingMaterial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	m := f.material(t, "old")
	if _, err := f.catalog.UpdateMaterial(ctx, catalogdto.UpdateMaterialInput{ID: m.ID, Name: m.Name, CategoryID: m.CategoryID, Active: false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: m.ID}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: 999}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateValidates(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	m := f.material(t, "m")
	now := f.clock.Now()
	f.seedClosed(t, m.ID, now.Add(-5*time.Hour), time.Hour)

	closedList, err := f.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil || len(closedList) != 1 {
		t.Fatalf("list seeded: %+v, %v", closedList, err)
	}
	closed := closedList[0]

	before := closed.StartTime.Add(-time.Minute)
	if _, err := f.sessions.Update(ctx, sessiondto.UpdateInput{ID: closed.ID, MaterialID: m.ID, StartTime: closed.StartTime, EndTime: &before}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for end before start, got %v", err)
	}

	end := closed.StartTime.Add(2 * time.Hour)
	edited, err := f.sessions.Update(ctx, sessiondto.UpdateInput{ID: closed.ID, MaterialID: m.ID, StartTime: closed.StartTime, EndTime: &end})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if edited.Minutes != 120 {
		t.Fatalf("expected 120 minutes after edit, got %d", edited.Minutes)
	}

	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: m.ID}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := f.sessions.Update(ctx, sessiondto.UpdateInput{ID: closed.ID, MaterialID: m.ID, StartTime: closed.StartTime}); !errors.Is(err, apperrors.ErrActiveSessionExists) {
		t.Fatalf("expected conflict when reopening a second session, got %v", err)
	}
	if _, err := f.sessions.Update(ctx, sessiondto.UpdateInput{ID: 404, MaterialID: m.ID, StartTime: now}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteOpenSessionClearsPresence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	m := f.material(t, "m")

	started, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: m.ID})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.sessions.Delete(ctx, started.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.presence.cleared != 1 {
		t.Fatalf("expected presence clear after deleting open session")
	}
	if _, err := f.sessions.Get(ctx, started.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := f.sessions.Delete(ctx, started.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
	if _, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: m.ID}); err != nil {
		t.Fatalf("start after delete: %v", err)
	}
}

func TestTotalsByWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	a := f.material(t, "a")
	b := f.material(t, "b")
	now := f.clock.Now()
	f.seedClosed(t, a.ID, now.AddDate(0, -2, 0), 100*time.Minute)
	f.seedClosed(t, a.ID, now.Add(-3*time.Hour), 40*time.Minute)
	f.seedClosed(t, b.ID, now.Add(-10*24*time.Hour), 25*time.Minute)

	all, err := f.sessions.Totals(ctx, sessiondto.TotalsInput{Window: "all"})
	if err != nil {
		t.Fatalf("totals all: %v", err)
	}
	if all.Minutes != 165 || len(all.ByMaterial) != 2 || all.ByMaterial[0].Minutes != 140 {
		t.Fatalf("unexpected all-time totals: %+v", all)
	}

	month, err := f.sessions.Totals(ctx, sessiondto.TotalsInput{Window: "month"})
	if err != nil {
		t.Fatalf("totals month: %v", err)
	}
	if month.Minutes != 65 || month.Label != "今月" {
		t.Fatalf("unexpected month totals: %+v", month)
	}

	week, err := f.sessions.Totals(ctx, sessiondto.TotalsInput{Window: "trailing", Days: 7})
	if err != nil {
		t.Fatalf("totals trailing: %v", err)
	}
	if week.Minutes != 40 || len(week.ByCategory) != 1 {
		t.Fatalf("unexpected trailing totals: %+v", week)
	}

	if _, err := f.sessions.Totals(ctx, sessiondto.TotalsInput{Window: "fortnight"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid window, got %v", err)
	}
}

func TestAtMostOneOpenSessionAcrossRandomLifecycles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	m := f.material(t, "m")
	rng := rand.New(rand.NewSource(7))

	for step := 0; step < 60; step++ {
		f.clock.advance(time.Duration(rng.Intn(90)+1) * time.Minute)
		if rng.Intn(2) == 0 {
			_, err := f.sessions.Start(ctx, sessiondto.StartInput{MaterialID: m.ID})
			if err != nil && !errors.Is(err, apperrors.ErrActiveSessionExists) {
				t.Fatalf("step %d start: %v", step, err)
			}
		} else {
			_, err := f.sessions.Stop(ctx)
			if err != nil && !errors.Is(err, apperrors.ErrNoActiveSession) {
				t.Fatalf("step %d stop: %v", step, err)
			}
		}
		all, err := f.sessions.List(ctx, sessiondto.ListInput{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		open := 0
		for _, s := range all {
			if s.Open {
				open++
			}
		}
		if open > 1 {
			t.Fatalf("step %d: %d open sessions", step, open)
		}
	}
}
