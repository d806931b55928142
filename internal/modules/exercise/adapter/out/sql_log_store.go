package out

import (
	"context"
	"fmt"
	"strings"

	"studylog/internal/modules/exercise/domain"
	exerciseout "studylog/internal/modules/exercise/port/out"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/sqldb"
)

const selectLogs = `SELECT l.id, l.exercise_id, e.name, e.category_id, c.name, l.value, l.value_type, l.record_time
FROM exercise_sessions l
JOIN exercises e ON e.id = l.exercise_id
JOIN exercise_categories c ON c.id = e.category_id`

type SQLLogStore struct {
	db *sqldb.DB
}

func NewSQLLogStore(db *sqldb.DB) exerciseout.Store {
	return &SQLLogStore{db: db}
}

func (s *SQLLogStore) Insert(ctx context.Context, log domain.Log) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO exercise_sessions (exercise_id, value, value_type, record_time) VALUES (?, ?, ?, ?) RETURNING id`,
		log.ExerciseID, log.Value, string(log.ValueType), sqldb.FormatTime(log.RecordTime),
	).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case sqldb.IsForeignKeyViolation(err):
		return 0, fmt.Errorf("%w: exercise %d", apperrors.ErrNotFound, log.ExerciseID)
	default:
		return 0, fmt.Errorf("insert exercise log: %w", err)
	}
}

func (s *SQLLogStore) Update(ctx context.Context, log domain.Log) error {
	res, err := s.db.Exec(ctx,
		`UPDATE exercise_sessions SET exercise_id = ?, value = ?, value_type = ?, record_time = ? WHERE id = ?`,
		log.ExerciseID, log.Value, string(log.ValueType), sqldb.FormatTime(log.RecordTime), log.ID,
	)
	switch {
	case err == nil:
	case sqldb.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: exercise %d", apperrors.ErrNotFound, log.ExerciseID)
	default:
		return fmt.Errorf("update exercise log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: exercise log %d", apperrors.ErrNotFound, log.ID)
	}
	return nil
}

func (s *SQLLogStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.Exec(ctx, `DELETE FROM exercise_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete exercise log: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: exercise log %d", apperrors.ErrNotFound, id)
	}
	return nil
}

func (s *SQLLogStore) FindByID(ctx context.Context, id int64) (domain.Log, error) {
	log, err := scanLog(s.db.QueryRow(ctx, selectLogs+` WHERE l.id = ?`, id))
	if sqldb.IsNoRows(err) {
		return domain.Log{}, fmt.Errorf("%w: exercise log %d", apperrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Log{}, fmt.Errorf("find exercise log: %w", err)
	}
	return log, nil
}

func (s *SQLLogStore) List(ctx context.Context, filter domain.Filter) ([]domain.Log, error) {
	where := []string{}
	args := []any{}
	if filter.Since != nil {
		where = append(where, `l.record_time >= ?`)
		args = append(args, sqldb.FormatTime(*filter.Since))
	}
	if filter.Until != nil {
		where = append(where, `l.record_time < ?`)
		args = append(args, sqldb.FormatTime(*filter.Until))
	}
	if filter.ExerciseID > 0 {
		where = append(where, `l.exercise_id = ?`)
		args = append(args, filter.ExerciseID)
	}
	query := selectLogs
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY l.record_time DESC, l.id DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, filter.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exercise logs: %w", err)
	}
	defer rows.Close()

	out := []domain.Log{}
	for rows.Next() {
		log, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exercise log: %w", err)
		}
		out = append(out, log)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLog(row rowScanner) (domain.Log, error) {
	var (
		log       domain.Log
		valueType string
		recorded  string
	)
	if err := row.Scan(&log.ID, &log.ExerciseID, &log.ExerciseName, &log.CategoryID, &log.CategoryName, &log.Value, &valueType, &recorded); err != nil {
		return domain.Log{}, err
	}
	at, err := sqldb.ParseTime(recorded)
	if err != nil {
		return domain.Log{}, err
	}
	log.ValueType = domain.ValueType(valueType)
	log.RecordTime = at
	return log, nil
}
