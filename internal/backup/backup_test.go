package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "envsync.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT)`,
		`INSERT INTO settings (key, value) VALUES ('sunrise', '06:30'), ('sunset', '18:30')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

// steppingClock advances one second per call so snapshot names differ.
func steppingClock() func() time.Time {
	at := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local)
	return func() time.Time {
		at = at.Add(time.Second)
		return at
	}
}

func countSettings(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&n); err != nil {
		t.Fatalf("failed to query %s: %v", path, err)
	}
	return n
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(path) != mgr.Dir() {
		t.Errorf("backup written to %s, want directory %s", path, mgr.Dir())
	}
	if n := countSettings(t, path); n != 2 {
		t.Errorf("expected 2 settings rows in backup, got %d", n)
	}
}

func TestCreateMissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error for missing database")
	}
}

func TestSameSecondNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	first, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	second, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatal("two backups in the same second share a name")
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(list))
	}
	for _, b := range list {
		if !b.Taken.Equal(fixed) {
			t.Errorf("backup %s parsed as %v, want %v", b.Path, b.Taken, fixed)
		}
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	for i := 0; i < MaxBackups+4; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != MaxBackups {
		t.Errorf("expected %d backups after rotation, got %d", MaxBackups, len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].Taken.After(list[i-1].Taken) {
			t.Errorf("backups not sorted newest first at %d", i)
		}
	}
}

func TestListEmpty(t *testing.T) {
	mgr := NewManager(setupTestDB(t))
	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("expected no backups, got %d", len(list))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = steppingClock()

	snap, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO settings (key, value) VALUES ('location', 'ip')"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(snap)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if n := countSettings(t, dbPath); n != 2 {
		t.Errorf("expected 2 rows after restore, got %d", n)
	}
	if previous == "" {
		t.Fatal("restore should snapshot the replaced database")
	}
	if n := countSettings(t, previous); n != 3 {
		t.Errorf("pre-restore snapshot should hold 3 rows, got %d", n)
	}
}

func TestRestoreInvalid(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "nope.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	junk := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(junk, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(junk); err == nil {
		t.Error("expected error for corrupt backup")
	}
	if n := countSettings(t, dbPath); n != 2 {
		t.Errorf("failed restore must leave the database alone, got %d rows", n)
	}
}
