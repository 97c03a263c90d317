package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE test_table (id INTEGER PRIMARY KEY, value TEXT)`)
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	return db
}

func count(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM test_table`).Scan(&n); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	return n
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
}

func TestWithTx_Success(t *testing.T) {
	db := setupTestDB(t)

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx failed: %v", err)
	}

	if got := count(t, db); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}
}

func TestWithTx_Rollback(t *testing.T) {
	db := setupTestDB(t)
	testErr := errors.New("test error")

	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO test_table (value) VALUES (?)`, "test"); err != nil {
			return err
		}
		return testErr
	})

	if !errors.Is(err, testErr) {
		t.Fatalf("WithTx should return the error: got %v, want %v", err, testErr)
	}
	if got := count(t, db); got != 0 {
		t.Errorf("count = %d, want 0 (rolled back)", got)
	}
}

func TestWithTx_CanceledContext(t *testing.T) {
	db := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := WithTx(ctx, db, func(*sql.Tx) error {
		called = true
		return nil
	})

	if err == nil {
		t.Fatal("expected error for canceled context")
	}
	if called {
		t.Error("fn should not run without a transaction")
	}
}

func TestNullFloat64ToPtr(t *testing.T) {
	if p := NullFloat64ToPtr(sql.NullFloat64{Float64: 0.7, Valid: false}); p != nil {
		t.Errorf("expected nil pointer, got %v", *p)
	}

	p := NullFloat64ToPtr(sql.NullFloat64{Float64: 0, Valid: true})
	if p == nil {
		t.Fatal("expected non-nil pointer for valid zero")
	}
	if *p != 0 {
		t.Errorf("*p = %v, want 0", *p)
	}
}

func TestNullStringValue(t *testing.T) {
	tests := []struct {
		name string
		in   sql.NullString
		want string
	}{
		{"valid", sql.NullString{String: "hello", Valid: true}, "hello"},
		{"invalid", sql.NullString{String: "hello", Valid: false}, ""},
		{"empty", sql.NullString{String: "", Valid: true}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NullStringValue(tt.in); got != tt.want {
				t.Errorf("NullStringValue() = %q, want %q", got, tt.want)
			}
		})
	}
}
