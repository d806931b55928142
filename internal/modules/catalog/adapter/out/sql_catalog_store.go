package out

import (
	"context"
	"database/sql"
	"fmt"

	"studylog/internal/modules/catalog/domain"
	catalogout "studylog/internal/modules/catalog/port/out"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/sqldb"
)

type tableSet struct {
	category  string
	item      string
	itemExtra string
	record    string
	recordFK  string
}

func tablesFor(kind domain.Kind) (tableSet, error) {
	switch kind {
	case domain.KindStudy:
		return tableSet{category: "categories", item: "materials", itemExtra: "image_key", record: "sessions", recordFK: "material_id"}, nil
	case domain.KindExercise:
		return tableSet{category: "exercise_categories", item: "exercises", itemExtra: "value_type", record: "exercise_sessions", recordFK: "exercise_id"}, nil
	default:
		return tableSet{}, kind.Validate()
	}
}

type SQLCatalogStore struct {
	db *sqldb.DB
}

func NewSQLCatalogStore(db *sqldb.DB) catalogout.Store {
	return &SQLCatalogStore{db: db}
}

func (s *SQLCatalogStore) InsertCategory(ctx context.Context, category domain.Category) (int64, error) {
	t, err := tablesFor(category.Kind)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, is_active) VALUES (?, ?) RETURNING id`, t.category),
		category.Name, category.Active,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", category.Kind.CategoryNoun(), err)
	}
	return id, nil
}

func (s *SQLCatalogStore) UpdateCategory(ctx context.Context, category domain.Category) error {
	t, err := tablesFor(category.Kind)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET name = ?, is_active = ? WHERE id = ?`, t.category),
		category.Name, category.Active, category.ID,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", category.Kind.CategoryNoun(), err)
	}
	return requireAffected(res, category.Kind.CategoryNoun(), category.ID)
}

func (s *SQLCatalogStore) DeleteCategory(ctx context.Context, kind domain.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.category), id)
	if err != nil {
		if sqldb.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %d is used by a %s", apperrors.ErrDependency, kind.CategoryNoun(), id, kind.ItemNoun())
		}
		return fmt.Errorf("delete %s: %w", kind.CategoryNoun(), err)
	}
	return requireAffected(res, kind.CategoryNoun(), id)
}

func (s *SQLCatalogStore) FindCategory(ctx context.Context, kind domain.Kind, id int64) (domain.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.Category{}, err
	}
	category := domain.Category{Kind: kind}
	err = s.db.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, name, is_active FROM %s WHERE id = ?`, t.category), id,
	).Scan(&category.ID, &category.Name, &category.Active)
	if sqldb.IsNoRows(err) {
		return domain.Category{}, fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, kind.CategoryNoun(), id)
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("find %s: %w", kind.CategoryNoun(), err)
	}
	return category, nil
}

func (s *SQLCatalogStore) ListCategories(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Category, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, name, is_active FROM %s`, t.category)
	args := []any{}
	if activeOnly {
		query += ` WHERE is_active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY name, id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.CategoryNoun(), err)
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		category := domain.Category{Kind: kind}
		if err := rows.Scan(&category.ID, &category.Name, &category.Active); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind.CategoryNoun(), err)
		}
		out = append(out, category)
	}
	return out, rows.Err()
}

func (s *SQLCatalogStore) CountItems(ctx context.Context, kind domain.Kind, categoryID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	return s.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE category_id = ?`, t.item), categoryID)
}

func (s *SQLCatalogStore) InsertItem(ctx context.Context, item domain.Item) (int64, error) {
	t, err := tablesFor(item.Kind)
	if err != nil {
		return 0, err
	}
	var id int64
	err = s.db.QueryRow(ctx,
		fmt.Sprintf(`INSERT INTO %s (name, category_id, is_active, %s) VALUES (?, ?, ?, ?) RETURNING id`, t.item, t.itemExtra),
		item.Name, item.CategoryID, item.Active, extraValue(item),
	).Scan(&id)
	if err != nil {
		if sqldb.IsForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, item.Kind.CategoryNoun(), item.CategoryID)
		}
		return 0, fmt.Errorf("insert %s: %w", item.Kind.ItemNoun(), err)
	}
	return id, nil
}

func (s *SQLCatalogStore) UpdateItem(ctx context.Context, item domain.Item) error {
	t, err := tablesFor(item.Kind)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(ctx,
		fmt.Sprintf(`UPDATE %s SET name = ?, category_id = ?, is_active = ?, %s = ? WHERE id = ?`, t.item, t.itemExtra),
		item.Name, item.CategoryID, item.Active, extraValue(item), item.ID,
	)
	if err != nil {
		if sqldb.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, item.Kind.CategoryNoun(), item.CategoryID)
		}
		return fmt.Errorf("update %s: %w", item.Kind.ItemNoun(), err)
	}
	return requireAffected(res, item.Kind.ItemNoun(), item.ID)
}

func (s *SQLCatalogStore) DeleteItem(ctx context.Context, kind domain.Kind, id int64) error {
	t, err := tablesFor(kind)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.item), id)
	if err != nil {
		if sqldb.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s %d has %ss", apperrors.ErrDependency, kind.ItemNoun(), id, kind.RecordNoun())
		}
		return fmt.Errorf("delete %s: %w", kind.ItemNoun(), err)
	}
	return requireAffected(res, kind.ItemNoun(), id)
}

func (s *SQLCatalogStore) FindItem(ctx context.Context, kind domain.Kind, id int64) (domain.Item, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return domain.Item{}, err
	}
	row := s.db.QueryRow(ctx, itemSelect(t)+` WHERE i.id = ?`, id)
	item, err := scanItem(kind, row)
	if sqldb.IsNoRows(err) {
		return domain.Item{}, fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, kind.ItemNoun(), id)
	}
	if err != nil {
		return domain.Item{}, fmt.Errorf("find %s: %w", kind.ItemNoun(), err)
	}
	return item, nil
}

func (s *SQLCatalogStore) ListItems(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Item, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return nil, err
	}
	query := itemSelect(t)
	args := []any{}
	if activeOnly {
		query += ` WHERE i.is_active = ? AND c.is_active = ?`
		args = append(args, true, true)
	}
	query += ` ORDER BY c.name, i.name, i.id`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.ItemNoun(), err)
	}
	defer rows.Close()

	out := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(kind, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind.ItemNoun(), err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLCatalogStore) CountRecords(ctx context.Context, kind domain.Kind, itemID int64) (int, error) {
	t, err := tablesFor(kind)
	if err != nil {
		return 0, err
	}
	return s.count(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = ?`, t.record, t.recordFK), itemID)
}

func (s *SQLCatalogStore) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count dependents: %w", err)
	}
	return n, nil
}

func itemSelect(t tableSet) string {
	return fmt.Sprintf(
		`SELECT i.id, i.name, i.category_id, c.name, i.is_active, i.%s FROM %s i JOIN %s c ON c.id = i.category_id`,
		t.itemExtra, t.item, t.category,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(kind domain.Kind, row rowScanner) (domain.Item, error) {
	item := domain.Item{Kind: kind}
	var extra sql.NullString
	if err := row.Scan(&item.ID, &item.Name, &item.CategoryID, &item.CategoryName, &item.Active, &extra); err != nil {
		return domain.Item{}, err
	}
	if kind == domain.KindExercise {
		item.ValueType = domain.ValueType(extra.String)
	} else {
		item.ImageKey = extra.String
	}
	return item, nil
}

func extraValue(item domain.Item) string {
	if item.Kind == domain.KindExercise {
		return string(item.ValueType)
	}
	return item.ImageKey
}

func requireAffected(res sql.Result, noun string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d", apperrors.ErrNotFound, noun, id)
	}
	return nil
}
