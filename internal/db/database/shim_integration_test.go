// +build integration

package database_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spoke-d/filament/internal/db/database"
)

func TestIntegrationPooledTxOutlivesAcquireWindow(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	defer db.Close()

	shim := database.NewPooledShimDB(db, 1, 50*time.Millisecond)

	tx, err := shim.Begin()
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	if _, err := tx.Exec("CREATE TABLE disks (id INTEGER PRIMARY KEY, name TEXT)"); err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}

	// The acquire window elapses while the transaction is still open; the
	// transaction must not be rolled back under us.
	time.Sleep(150 * time.Millisecond)

	if _, err := tx.Exec("INSERT INTO disks (name) VALUES ($1)", "sdb"); err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}

	// The committed write is visible to the next transaction, and the
	// single pooled connection has been released for it.
	check, err := shim.Begin()
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	defer check.Rollback()

	rows, err := check.Query("SELECT name FROM disks")
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("expected the committed row to be visible")
	}
	var name string
	if err := rows.Scan(&name); err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	if expected, actual := "sdb", name; expected != actual {
		t.Errorf("expected: %s, actual: %s", expected, actual)
	}
	if err := rows.Err(); err != nil {
		t.Errorf("expected err to be nil: %v", err)
	}
}

func TestIntegrationPooledBeginTimesOutWhenExhausted(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	defer db.Close()

	shim := database.NewPooledShimDB(db, 1, 50*time.Millisecond)

	tx, err := shim.Begin()
	if err != nil {
		t.Fatalf("expected err to be nil: %v", err)
	}
	defer tx.Rollback()

	if _, err := shim.Begin(); err == nil {
		t.Errorf("expected err not to be nil")
	}
}
