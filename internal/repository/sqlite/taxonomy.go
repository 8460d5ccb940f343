package sqlite

import (
	"context"
	"database/sql"

	"github.com/qalamdan/porsesh/pkg/models"
)

func (r *SQLiteRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name, slug, parent_id FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var c models.Category
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &parent); err != nil {
			return nil, err
		}
		if parent.Valid {
			c.ParentID = &parent.Int64
		}

		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, name FROM tags ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *SQLiteRepo) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, name FROM tags WHERE name = ?`, name)
	var t models.Tag
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &t, nil
}

// CreateTag inserts the tag if missing and returns its id either way.
func (r *SQLiteRepo) CreateTag(ctx context.Context, name string) (int64, error) {
	if _, err := r.conn.Exec(ctx, `INSERT OR IGNORE INTO tags (name) VALUES (?)`, name); err != nil {
		return 0, err
	}

	row := r.conn.QueryRow(ctx, `SELECT id FROM tags WHERE name = ?`, name)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}
