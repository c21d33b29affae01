// Package sqlite provides a SQLite-backed character repository.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/matzehuels/hanzitree/pkg/hanzi"
	"github.com/matzehuels/hanzitree/pkg/store"
	"github.com/matzehuels/hanzitree/pkg/store/sqlite/migrations"
)

const selectColumns = `SELECT id, character, pinyin, jyutping, definition, example,
        stroke_order, frequency, familiarity, created_at
   FROM characters`

// Store persists characters in SQLite.
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// Open opens (creating if needed) the database at path and applies the
// embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, db, migrations.FS, "."); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row scanner) (hanzi.Character, error) {
	var (
		c         hanzi.Character
		freq      sql.NullFloat64
		createdAt int64
	)
	err := row.Scan(
		&c.ID,
		&c.Character,
		&c.Pinyin,
		&c.Jyutping,
		&c.Definition,
		&c.Example,
		&c.StrokeOrder,
		&freq,
		&c.Familiarity,
		&createdAt,
	)
	if err != nil {
		return hanzi.Character{}, err
	}
	if freq.Valid {
		c.Frequency = &freq.Float64
	}
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit == 0 {
		limit = store.DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx,
		selectColumns+`
  ORDER BY created_at ASC, id ASC
  LIMIT ? OFFSET ?`,
		limit, max(opts.Offset, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	out := []hanzi.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("list characters: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	c, err := scanCharacter(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hanzi.Character{}, store.ErrNotFound
		}
		return hanzi.Character{}, fmt.Errorf("get character: %w", err)
	}
	return c, nil
}

func (s *Store) GetByCharacter(ctx context.Context, character string) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	c, err := scanCharacter(s.db.QueryRowContext(ctx, selectColumns+` WHERE character = ?`, strings.TrimSpace(character)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hanzi.Character{}, store.ErrNotFound
		}
		return hanzi.Character{}, fmt.Errorf("get character: %w", err)
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, w hanzi.Word) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	w, err := store.Prepare(w)
	if err != nil {
		return hanzi.Character{}, err
	}

	c := hanzi.Character{Word: w, CreatedAt: store.Now()}
	var freq sql.NullFloat64
	if w.Frequency != nil {
		freq = sql.NullFloat64{Float64: *w.Frequency, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO characters (
		   character, pinyin, jyutping, definition, example,
		   stroke_order, frequency, familiarity, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.Character, w.Pinyin, w.Jyutping, w.Definition, w.Example,
		w.StrokeOrder, freq, w.Familiarity, toMillis(c.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return hanzi.Character{}, store.ErrAlreadyExists
		}
		return hanzi.Character{}, fmt.Errorf("create character: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return hanzi.Character{}, fmt.Errorf("create character: %w", err)
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id int64) (hanzi.Character, error) {
	if err := ctx.Err(); err != nil {
		return hanzi.Character{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return hanzi.Character{}, fmt.Errorf("delete character: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	c, err := scanCharacter(tx.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return hanzi.Character{}, store.ErrNotFound
		}
		return hanzi.Character{}, fmt.Errorf("delete character: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id); err != nil {
		return hanzi.Character{}, fmt.Errorf("delete character: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return hanzi.Character{}, fmt.Errorf("delete character: %w", err)
	}
	return c, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count characters: %w", err)
	}
	return n, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "characters.character")
}

var _ store.Repository = (*Store)(nil)
