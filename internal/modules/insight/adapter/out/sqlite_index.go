package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"daybook/internal/modules/insight/domain"
	"daybook/internal/platform/tx"

	_ "modernc.org/sqlite"
)

type SQLiteIndex struct {
	db *sql.DB
	tx.SQLManager
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewSQLiteIndex(dbPath string) (*SQLiteIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection keeps transactions and plain queries on one handle.
	db.SetMaxOpenConns(1)
	index := &SQLiteIndex{db: db, SQLManager: tx.NewSQLManager(db)}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteIndex) conn(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *SQLiteIndex) ensureSchema(ctx context.Context) error {
	const notesDDL = `
CREATE TABLE IF NOT EXISTS notes (
  period TEXT NOT NULL,
  day INTEGER NOT NULL,
  text TEXT NOT NULL,
  PRIMARY KEY (period, day)
);
`
	const marksDDL = `
CREATE TABLE IF NOT EXISTS marks (
  period TEXT NOT NULL,
  habit TEXT NOT NULL,
  day INTEGER NOT NULL,
  checked INTEGER NOT NULL,
  PRIMARY KEY (period, habit, day)
);
`
	if _, err := s.db.ExecContext(ctx, notesDDL); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, marksDDL); err != nil {
		return fmt.Errorf("create marks table: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) Reset(ctx context.Context) error {
	db := s.conn(ctx)
	if _, err := db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("reset notes: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM marks`); err != nil {
		return fmt.Errorf("reset marks: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) ResetPeriod(ctx context.Context, periodKey string) error {
	db := s.conn(ctx)
	if _, err := db.ExecContext(ctx, `DELETE FROM notes WHERE period = ?`, periodKey); err != nil {
		return fmt.Errorf("reset period notes: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM marks WHERE period = ?`, periodKey); err != nil {
		return fmt.Errorf("reset period marks: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) UpsertNote(ctx context.Context, note domain.Note) error {
	const stmt = `
INSERT INTO notes (period, day, text)
VALUES (?, ?, ?)
ON CONFLICT(period, day) DO UPDATE SET
  text=excluded.text;
`
	if _, err := s.conn(ctx).ExecContext(ctx, stmt, note.Period, note.Day, note.Text); err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}

func (s *SQLiteIndex) UpsertMark(ctx context.Context, mark domain.Mark) error {
	const stmt = `
INSERT INTO marks (period, habit, day, checked)
VALUES (?, ?, ?, ?)
ON CONFLICT(period, habit, day) DO UPDATE SET
  checked=excluded.checked;
`
	checked := 0
	if mark.Checked {
		checked = 1
	}
	if _, err := s.conn(ctx).ExecContext(ctx, stmt, mark.Period, mark.Habit, mark.Day, checked); err != nil {
		return fmt.Errorf("upsert mark: %w", err)
	}
	return nil
}

// SearchNotes matches query as a plain substring of the stored text. Stored
// text is already lower-case, so callers lower-case the query.
func (s *SQLiteIndex) SearchNotes(ctx context.Context, query string) ([]domain.Note, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT period, day, text FROM notes WHERE instr(text, ?) > 0`, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.Period, &n.Day, &n.Text); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

func (s *SQLiteIndex) HabitCounts(ctx context.Context, periodKey string) (map[string]int, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT habit, SUM(checked) FROM marks WHERE period = ? GROUP BY habit`, periodKey)
	if err != nil {
		return nil, fmt.Errorf("count habits: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var habit string
		var n int
		if err := rows.Scan(&habit, &n); err != nil {
			return nil, fmt.Errorf("scan habit count: %w", err)
		}
		counts[habit] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habit counts: %w", err)
	}
	return counts, nil
}

func (s *SQLiteIndex) NotedDays(ctx context.Context, periodKey string) (int, error) {
	var n int
	if err := s.conn(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE period = ? AND text <> ''`, periodKey).Scan(&n); err != nil {
		return 0, fmt.Errorf("count noted days: %w", err)
	}
	return n, nil
}
