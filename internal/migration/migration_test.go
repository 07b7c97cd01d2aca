package migration

import (
	"database/sql"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/envsync/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mapFS(files map[string]string) fstest.MapFS {
	out := fstest.MapFS{}
	for name, content := range files {
		out[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return out
}

func TestGetCurrentVersion(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(nil))

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}
	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5, got %d", version)
	}
}

func TestReadMigrationFiles(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"002_second.sql": "CREATE TABLE b (id INTEGER);",
		"001_first.sql":  "CREATE TABLE a (id INTEGER);",
		"README.md":      "not a migration",
	}))

	ms, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}
	if len(ms) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(ms))
	}
	if ms[0].Version != 1 || ms[0].Name != "first" || ms[1].Version != 2 {
		t.Errorf("unexpected order: %+v", ms)
	}
}

func TestApplyMigrationsIncremental(t *testing.T) {
	db := setupTestDB(t)
	files := map[string]string{
		"001_first.sql": "CREATE TABLE a (id INTEGER);",
	}

	applied, err := NewRunner(db, mapFS(files)).ApplyMigrations(nil)
	if err != nil || applied != 1 {
		t.Fatalf("first apply: applied=%d err=%v", applied, err)
	}

	files["002_second.sql"] = "CREATE TABLE b (id INTEGER);"
	var logs []string
	applied, err = NewRunner(db, mapFS(files)).ApplyMigrations(func(s string) { logs = append(logs, s) })
	if err != nil || applied != 1 {
		t.Fatalf("second apply: applied=%d err=%v", applied, err)
	}
	if len(logs) == 0 {
		t.Error("expected progress messages")
	}

	applied, err = NewRunner(db, mapFS(files)).ApplyMigrations(nil)
	if err != nil || applied != 0 {
		t.Errorf("no-op apply: applied=%d err=%v", applied, err)
	}
}

func TestMigrationRollbackOnError(t *testing.T) {
	db := setupTestDB(t)
	runner := NewRunner(db, mapFS(map[string]string{
		"001_ok.sql":     "CREATE TABLE a (id INTEGER);",
		"002_broken.sql": "CREATE TABLE b (id INTEGER); THIS IS NOT SQL;",
	}))

	applied, err := runner.ApplyMigrations(nil)
	if err == nil {
		t.Fatal("expected an error from the broken migration")
	}
	if applied != 1 {
		t.Errorf("expected 1 applied migration, got %d", applied)
	}
	version, _ := runner.GetCurrentVersion()
	if version != 1 {
		t.Errorf("version should stay at 1, got %d", version)
	}
}

func TestValidateVersionNewerDatabase(t *testing.T) {
	runner := NewRunner(setupTestDB(t), mapFS(map[string]string{
		"001_first.sql": "CREATE TABLE a (id INTEGER);",
	}))
	if err := runner.SetVersion(9); err != nil {
		t.Fatal(err)
	}
	err := runner.ValidateVersion()
	if err == nil || !strings.Contains(err.Error(), "newer than supported") {
		t.Errorf("expected newer-schema error, got %v", err)
	}
}

func TestFilenameValidation(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
	}{
		{"missing underscore", map[string]string{"001.sql": ""}},
		{"non numeric", map[string]string{"abc_init.sql": ""}},
		{"zero version", map[string]string{"000_init.sql": ""}},
		{"duplicate", map[string]string{"001_a.sql": "", "1_b.sql": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(setupTestDB(t), mapFS(tt.files)).ReadMigrationFiles(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	for _, dialect := range []string{"sqlite", "postgres"} {
		sub, err := fs.Sub(migrations.FS, dialect)
		if err != nil {
			t.Fatalf("%s: %v", dialect, err)
		}
		ms, err := NewRunner(nil, sub).ReadMigrationFiles()
		if err != nil {
			t.Fatalf("%s: %v", dialect, err)
		}
		if len(ms) == 0 {
			t.Errorf("%s: no migrations embedded", dialect)
		}
	}

	db := setupTestDB(t)
	sub, _ := fs.Sub(migrations.FS, "sqlite")
	if _, err := NewRunner(db, sub).ApplyMigrations(nil); err != nil {
		t.Fatalf("embedded sqlite migrations failed: %v", err)
	}
	for _, table := range []string{"settings", "automation_events"} {
		var n int
		if err := db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&n); err != nil || n != 1 {
			t.Errorf("table %s missing (err=%v)", table, err)
		}
	}
}

func TestPostgresPlaceholder(t *testing.T) {
	if got := NewDialectRunner(nil, nil, Postgres).insertVersionSQL(); !strings.Contains(got, "$1") {
		t.Errorf("postgres insert uses %q", got)
	}
	if got := NewRunner(nil, nil).insertVersionSQL(); !strings.Contains(got, "?") {
		t.Errorf("sqlite insert uses %q", got)
	}
}
