package sqldb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studylog/internal/platform/sqldb"
)

func openTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	db, err := sqldb.Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)

	n, err := db.Migrate(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(sqldb.Migrations()), n)

	n, err = db.Migrate(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	status, err := db.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, len(sqldb.Migrations()))
	for _, s := range status {
		assert.True(t, s.IsApplied, "migration %d", s.Version)
		assert.NotEmpty(t, s.AppliedAt)
	}
}

func TestSingleOpenSessionIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Migrate(ctx)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO categories (name) VALUES (?)`, "数学")
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO materials (name, category_id) VALUES (?, 1)`, "微積分")
	require.NoError(t, err)

	now := sqldb.FormatTime(time.Now())
	_, err = db.Exec(ctx, `INSERT INTO sessions (material_id, start_time) VALUES (1, ?)`, now)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO sessions (material_id, start_time) VALUES (1, ?)`, now)
	require.Error(t, err)
	assert.True(t, sqldb.IsUniqueViolation(err))

	_, err = db.Exec(ctx, `INSERT INTO sessions (material_id, start_time, end_time) VALUES (1, ?, ?)`, now, now)
	require.NoError(t, err)
}

func TestForeignKeysAreEnforced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Migrate(ctx)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO materials (name, category_id) VALUES (?, 99)`, "orphan")
	require.Error(t, err)
	assert.True(t, sqldb.IsForeignKeyViolation(err))
}

func TestWithinRollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openTestDB(t)
	_, err := db.Migrate(ctx)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.Within(ctx, func(txCtx context.Context) error {
		if _, err := db.Exec(txCtx, `INSERT INTO categories (name) VALUES (?)`, "rolled back"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count))
	assert.Zero(t, count)
}

func TestRebind(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	assert.Equal(t, "SELECT ? , ?", db.Rebind("SELECT ? , ?"))
}

func TestTimeRoundTripAndLegacyLayouts(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 6, 7, 8, 9, 123000000, time.UTC)
	raw := sqldb.FormatTime(at)
	assert.Equal(t, "2024-05-06T07:08:09.123Z", raw)

	parsed, err := sqldb.ParseTime(raw)
	require.NoError(t, err)
	assert.True(t, at.Equal(parsed))

	legacy, err := sqldb.ParseTime("2024-05-06 07:08:09.5")
	require.NoError(t, err)
	assert.Equal(t, 7, legacy.Hour())
	assert.Equal(t, time.Local, legacy.Location())

	_, err = sqldb.ParseTime("yesterday")
	assert.Error(t, err)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	t.Parallel()
	_, err := sqldb.Open(context.Background(), "mysql", "x", nil)
	assert.Error(t, err)
}
