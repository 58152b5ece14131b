// Package migrate applies on-disk SQL migrations and seed files in filename
// order, tracking what ran in bookkeeping tables.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	migrationsTable = "schema_migrations"
	seedsTable      = "schema_seeds"
)

// Runner executes migrations against a database. Migration files end in
// .up.sql with a matching .down.sql; seed files are plain .sql and run once.
type Runner struct {
	db            *sql.DB
	migrationsDir string
	seedsDir      string
}

func NewRunner(db *sql.DB, migrationsDir, seedsDir string) *Runner {
	return &Runner{db: db, migrationsDir: migrationsDir, seedsDir: seedsDir}
}

// Up applies every pending migration in order.
func (r *Runner) Up(ctx context.Context) error {
	if err := r.ensureTables(ctx); err != nil {
		return err
	}
	done, err := r.applied(ctx, migrationsTable)
	if err != nil {
		return err
	}
	names, err := listSQL(r.migrationsDir, ".up.sql")
	if err != nil {
		return err
	}
	for _, name := range names {
		if done[name] {
			continue
		}
		if err := r.runFile(ctx, filepath.Join(r.migrationsDir, name)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		if err := r.record(ctx, migrationsTable, name); err != nil {
			return err
		}
	}
	return nil
}

// Down rolls back the most recently applied migration.
func (r *Runner) Down(ctx context.Context) error {
	if err := r.ensureTables(ctx); err != nil {
		return err
	}
	history, err := r.history(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return errors.New("nothing to roll back")
	}
	last := history[len(history)-1]
	down := strings.TrimSuffix(last, ".up.sql") + ".down.sql"
	path := filepath.Join(r.migrationsDir, down)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no down file for %s", last)
	}
	if err := r.runFile(ctx, path); err != nil {
		return fmt.Errorf("roll back %s: %w", last, err)
	}
	_, err = r.db.ExecContext(ctx, fmt.Sprintf(`delete from %s where name = $1`, migrationsTable), last)
	return err
}

// Seed runs each seed file that has not run before.
func (r *Runner) Seed(ctx context.Context) error {
	if err := r.ensureTables(ctx); err != nil {
		return err
	}
	done, err := r.applied(ctx, seedsTable)
	if err != nil {
		return err
	}
	names, err := listSQL(r.seedsDir, ".sql")
	if err != nil {
		return err
	}
	for _, name := range names {
		if done[name] {
			continue
		}
		if err := r.runFile(ctx, filepath.Join(r.seedsDir, name)); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
		if err := r.record(ctx, seedsTable, name); err != nil {
			return err
		}
	}
	return nil
}

// Status lists applied migrations in application order.
func (r *Runner) Status(ctx context.Context) ([]string, error) {
	if err := r.ensureTables(ctx); err != nil {
		return nil, err
	}
	return r.history(ctx)
}

func (r *Runner) ensureTables(ctx context.Context) error {
	for _, table := range []string{migrationsTable, seedsTable} {
		ddl := fmt.Sprintf(`create table if not exists %s (
			name text primary key,
			applied_at timestamptz not null default now()
		)`, table)
		if _, err := r.db.ExecContext(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}

// runFile executes one SQL file inside a transaction.
func (r *Runner) runFile(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, stmt := range splitStatements(string(raw)) {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *Runner) record(ctx context.Context, table, name string) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`insert into %s(name) values ($1)`, table), name)
	return err
}

func (r *Runner) applied(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`select name from %s`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (r *Runner) history(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`select name from %s order by applied_at asc, name asc`, migrationsTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func listSQL(dir, suffix string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// splitStatements splits on semicolons outside single-quoted strings. Good
// enough for the DDL shipped here; no dollar-quoting support.
func splitStatements(sql string) []string {
	var (
		stmts    []string
		current  strings.Builder
		inString bool
	)
	for _, r := range sql {
		switch r {
		case '\'':
			inString = !inString
			current.WriteRune(r)
		case ';':
			current.WriteRune(r)
			if !inString {
				stmts = append(stmts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		stmts = append(stmts, current.String())
	}
	return stmts
}
