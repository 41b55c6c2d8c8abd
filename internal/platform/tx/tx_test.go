package tx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tx.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Exec(`CREATE TABLE items (name TEXT NOT NULL)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestWithinRollsBackOnError(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	m := NewSQLManager(db)
	boom := errors.New("boom")
	err := m.Within(context.Background(), func(ctx context.Context) error {
		tx, ok := From(ctx)
		if !ok {
			t.Fatalf("expected transaction on context")
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
			t.Fatalf("insert: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if n := count(t, db); n != 0 {
		t.Fatalf("expected rollback, found %d rows", n)
	}
}

func TestNestedWithinJoinsOuterTransaction(t *testing.T) {
	t.Parallel()
	db := openDB(t)
	m := NewSQLManager(db)
	err := m.Within(context.Background(), func(ctx context.Context) error {
		outer, _ := From(ctx)
		return m.Within(ctx, func(ctx context.Context) error {
			inner, _ := From(ctx)
			if inner != outer {
				t.Fatalf("nested call opened a second transaction")
			}
			_, err := inner.ExecContext(ctx, `INSERT INTO items (name) VALUES ('b')`)
			return err
		})
	})
	if err != nil {
		t.Fatalf("within: %v", err)
	}
	if n := count(t, db); n != 1 {
		t.Fatalf("expected committed row, found %d", n)
	}
}

func TestNoopManagerRunsCallback(t *testing.T) {
	t.Parallel()
	called := false
	if err := (NoopManager{}).Within(context.Background(), func(context.Context) error {
		called = true
		return nil
	}); err != nil || !called {
		t.Fatalf("noop manager did not run callback: %v", err)
	}
}
