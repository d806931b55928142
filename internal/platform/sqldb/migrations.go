package sqldb

// Migration is one schema step. Statements are kept per dialect and applied
// one at a time so both drivers accept them.
type Migration struct {
	Version  int
	Name     string
	SQLite   []string
	Postgres []string
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Version   int
	Name      string
	AppliedAt string
	IsApplied bool
}

func (m Migration) statements(dialect Dialect) []string {
	if dialect == DialectPostgres {
		return m.Postgres
	}
	return m.SQLite
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_study_catalog",
		SQLite: []string{
			`CREATE TABLE IF NOT EXISTS categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS materials (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE RESTRICT
			)`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				material_id INTEGER NOT NULL REFERENCES materials(id) ON DELETE RESTRICT,
				start_time TEXT NOT NULL,
				end_time TEXT
			)`,
		},
		Postgres: []string{
			`CREATE TABLE IF NOT EXISTS categories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS materials (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE RESTRICT
			)`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id BIGSERIAL PRIMARY KEY,
				material_id BIGINT NOT NULL REFERENCES materials(id) ON DELETE RESTRICT,
				start_time TEXT NOT NULL,
				end_time TEXT
			)`,
		},
	},
	{
		Version: 2,
		Name:    "add_active_and_image_key",
		SQLite: []string{
			`ALTER TABLE categories ADD COLUMN is_active INTEGER NOT NULL DEFAULT 1`,
			`ALTER TABLE materials ADD COLUMN is_active INTEGER NOT NULL DEFAULT 1`,
			`ALTER TABLE materials ADD COLUMN image_key TEXT NOT NULL DEFAULT ''`,
		},
		Postgres: []string{
			`ALTER TABLE categories ADD COLUMN IF NOT EXISTS is_active BOOLEAN NOT NULL DEFAULT TRUE`,
			`ALTER TABLE materials ADD COLUMN IF NOT EXISTS is_active BOOLEAN NOT NULL DEFAULT TRUE`,
			`ALTER TABLE materials ADD COLUMN IF NOT EXISTS image_key TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		Version: 3,
		Name:    "single_open_session",
		SQLite: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_open ON sessions((end_time IS NULL)) WHERE end_time IS NULL`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_material ON sessions(material_id)`,
			`CREATE INDEX IF NOT EXISTS idx_materials_category ON materials(category_id)`,
		},
		Postgres: []string{
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_open ON sessions((end_time IS NULL)) WHERE end_time IS NULL`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_start_time ON sessions(start_time)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_material ON sessions(material_id)`,
			`CREATE INDEX IF NOT EXISTS idx_materials_category ON materials(category_id)`,
		},
	},
	{
		Version: 4,
		Name:    "create_exercise_tables",
		SQLite: []string{
			`CREATE TABLE IF NOT EXISTS exercise_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				is_active INTEGER NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS exercises (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				category_id INTEGER NOT NULL REFERENCES exercise_categories(id) ON DELETE RESTRICT,
				value_type TEXT NOT NULL CHECK (value_type IN ('count', 'duration')),
				is_active INTEGER NOT NULL DEFAULT 1
			)`,
			`CREATE TABLE IF NOT EXISTS exercise_sessions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				exercise_id INTEGER NOT NULL REFERENCES exercises(id) ON DELETE RESTRICT,
				value REAL NOT NULL,
				value_type TEXT NOT NULL,
				record_time TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_exercise_sessions_record_time ON exercise_sessions(record_time)`,
		},
		Postgres: []string{
			`CREATE TABLE IF NOT EXISTS exercise_categories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE TABLE IF NOT EXISTS exercises (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL,
				category_id BIGINT NOT NULL REFERENCES exercise_categories(id) ON DELETE RESTRICT,
				value_type TEXT NOT NULL CHECK (value_type IN ('count', 'duration')),
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			)`,
			`CREATE TABLE IF NOT EXISTS exercise_sessions (
				id BIGSERIAL PRIMARY KEY,
				exercise_id BIGINT NOT NULL REFERENCES exercises(id) ON DELETE RESTRICT,
				value DOUBLE PRECISION NOT NULL,
				value_type TEXT NOT NULL,
				record_time TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_exercise_sessions_record_time ON exercise_sessions(record_time)`,
		},
	},
}

// Migrations returns the known schema steps in version order.
func Migrations() []Migration {
	out := make([]Migration, len(migrations))
	copy(out, migrations)
	return out
}
