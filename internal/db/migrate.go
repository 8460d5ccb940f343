package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Migrate applies migrations and optional seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `db/migrations/` that have not yet been recorded. Seed files
// are applied idempotently (they use INSERT OR IGNORE).
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	// ensure migrations table exists
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	if err := applyDir(ctx, d, migrationFS, "migrations", true); err != nil {
		return err
	}

	// seed files are optional; a missing seed dir is not an error
	if err := applyDir(ctx, d, seedFS, "seed", false); err != nil {
		return err
	}

	return nil
}

// applyDir executes the .sql files of dir in lexical order. When tracked is
// true each file is recorded in schema_migrations and skipped on later runs;
// seed files instead rely on their own idempotent statements.
func applyDir(ctx context.Context, d *DB, fsys embed.FS, dir string, tracked bool) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if !tracked {
			return nil
		}
		return fmt.Errorf("read %s dir: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		if tracked {
			// use filename (without extension) as migration version key
			version := strings.TrimSuffix(fname, path.Ext(fname))

			var count int
			row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
			if err := row.Scan(&count); err != nil {
				return fmt.Errorf("scan migration applied count: %w", err)
			}
			if count > 0 {
				// already applied
				continue
			}

			b, err := fs.ReadFile(fsys, path.Join(dir, fname))
			if err != nil {
				return fmt.Errorf("read migration %s: %w", fname, err)
			}
			if _, err := d.Exec(ctx, string(b)); err != nil {
				return fmt.Errorf("exec migration %s: %w", fname, err)
			}

			if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
				return fmt.Errorf("record migration %s: %w", fname, err)
			}
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, fname))
		if err != nil {
			return fmt.Errorf("read seed %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec seed %s: %w", fname, err)
		}
	}

	return nil
}
