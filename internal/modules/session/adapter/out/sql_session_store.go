package out

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"studylog/internal/modules/session/domain"
	sessionout "studylog/internal/modules/session/port/out"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/sqldb"
)

const selectSessions = `SELECT s.id, s.material_id, m.name, m.category_id, c.name, s.start_time, s.end_time
FROM sessions s
JOIN materials m ON m.id = s.material_id
JOIN categories c ON c.id = m.category_id`

type SQLSessionStore struct {
	db *sqldb.DB
}

func NewSQLSessionStore(db *sqldb.DB) sessionout.Store {
	return &SQLSessionStore{db: db}
}

// InsertOpen inserts only while no open row exists. The partial unique
// index backs the same rule for concurrent writers.
func (s *SQLSessionStore) InsertOpen(ctx context.Context, materialID int64, start time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `INSERT INTO sessions (material_id, start_time)
SELECT CAST(? AS BIGINT), CAST(? AS TEXT)
WHERE NOT EXISTS (SELECT 1 FROM sessions WHERE end_time IS NULL)
RETURNING id`, materialID, sqldb.FormatTime(start)).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case sqldb.IsNoRows(err), sqldb.IsUniqueViolation(err):
		return 0, apperrors.ErrActiveSessionExists
	case sqldb.IsForeignKeyViolation(err):
		return 0, fmt.Errorf("%w: material %d", apperrors.ErrNotFound, materialID)
	default:
		return 0, fmt.Errorf("insert session: %w", err)
	}
}

func (s *SQLSessionStore) CloseOpen(ctx context.Context, end time.Time) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`UPDATE sessions SET end_time = ? WHERE end_time IS NULL RETURNING id`,
		sqldb.FormatTime(end),
	).Scan(&id)
	if sqldb.IsNoRows(err) {
		return 0, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return 0, fmt.Errorf("close session: %w", err)
	}
	return id, nil
}

func (s *SQLSessionStore) Update(ctx context.Context, session domain.Session) error {
	res, err := s.db.Exec(ctx,
		`UPDATE sessions SET material_id = ?, start_time = ?, end_time = ? WHERE id = ?`,
		session.MaterialID, sqldb.FormatTime(session.StartTime), sqldb.FormatNullTime(session.EndTime), session.ID,
	)
	switch {
	case err == nil:
	case sqldb.IsUniqueViolation(err):
		return apperrors.ErrActiveSessionExists
	case sqldb.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: material %d", apperrors.ErrNotFound, session.MaterialID)
	default:
		return fmt.Errorf("update session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: session %d", apperrors.ErrNotFound, session.ID)
	}
	return nil
}

func (s *SQLSessionStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: session %d", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *SQLSessionStore) FindByID(ctx context.Context, id int64) (domain.Session, error) {
	session, err := scanSession(s.db.QueryRow(ctx, selectSessions+` WHERE s.id = ?`, id))
	if sqldb.IsNoRows(err) {
		return domain.Session{}, fmt.Errorf("%w: session %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("find session: %w", err)
	}
	return session, nil
}

func (s *SQLSessionStore) FindOpen(ctx context.Context) (domain.Session, error) {
	session, err := scanSession(s.db.QueryRow(ctx, selectSessions+` WHERE s.end_time IS NULL ORDER BY s.start_time DESC LIMIT 1`))
	if sqldb.IsNoRows(err) {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("find open session: %w", err)
	}
	return session, nil
}

func (s *SQLSessionStore) List(ctx context.Context, filter domain.Filter) ([]domain.Session, error) {
	where := []string{}
	args := []any{}
	if filter.Since != nil {
		where = append(where, `s.start_time >= ?`)
		args = append(args, sqldb.FormatTime(*filter.Since))
	}
	if filter.Until != nil {
		where = append(where, `s.start_time < ?`)
		args = append(args, sqldb.FormatTime(*filter.Until))
	}
	if filter.MaterialID > 0 {
		where = append(where, `s.material_id = ?`)
		args = append(args, filter.MaterialID)
	}

	query := selectSessions
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	if filter.Ascending {
		query += ` ORDER BY s.start_time ASC, s.id ASC`
	} else {
		query += ` ORDER BY s.start_time DESC, s.id DESC`
	}
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := []domain.Session{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, session)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var (
		session  domain.Session
		startRaw string
		endRaw   sql.NullString
	)
	if err := row.Scan(&session.ID, &session.MaterialID, &session.MaterialName, &session.CategoryID, &session.CategoryName, &startRaw, &endRaw); err != nil {
		return domain.Session{}, err
	}
	start, err := sqldb.ParseTime(startRaw)
	if err != nil {
		return domain.Session{}, err
	}
	end, err := sqldb.ParseNullTime(endRaw)
	if err != nil {
		return domain.Session{}, err
	}
	session.StartTime = start
	session.EndTime = end
	return session, nil
}
