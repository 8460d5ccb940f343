package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/qalamdan/porsesh/pkg/models"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}
	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	level := u.Level
	if level < 1 {
		level = 1
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role, level, score, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, role, level, u.Score, ts, ts,
	)
	if err != nil {
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, level, score, created, updated FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, level, score, created, updated FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepo) UpdateUser(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	_, err := r.conn.Exec(ctx,
		`UPDATE users SET name = ?, email = ?, role = ?, level = ?, updated = ? WHERE id = ?`,
		u.Name, u.Email, u.Role, u.Level, now(), u.ID,
	)
	return err
}

func (r *SQLiteRepo) scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	var pw sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &pw, &u.Role, &u.Level, &u.Score, &u.Created, &u.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	if pw.Valid {
		u.PasswordHash = pw.String
	}

	return &u, nil
}
