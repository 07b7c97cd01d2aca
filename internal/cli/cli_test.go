package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.Local)

func setupTestContext(t *testing.T) *Context {
	t.Helper()
	gokeyring.MockInit()
	t.Setenv(constants.WeatherKeyEnv, "")

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "envsync.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &Context{
		Store:     store,
		ConfigDir: dir,
		Now:       func() time.Time { return fixedNow },
	}
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	old := os.Stdout
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	runErr := fn()
	w.Close()
	os.Stdout = old
	return <-done, runErr
}

func TestDecideCmd(t *testing.T) {
	ctx := setupTestContext(t)

	tests := []struct {
		name string
		cmd  DecideCmd
		want string
	}{
		{"noon", DecideCmd{At: "12:00"}, "Day"},
		{"late night", DecideCmd{At: "23:30"}, "Night"},
		{"custom sunset", DecideCmd{At: "17:30", Sunset: "17:00"}, "Night"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := captureStdout(t, func() error { return tt.cmd.Run(ctx) })
			if err != nil {
				t.Fatalf("decide failed: %v", err)
			}
			if strings.TrimSpace(out) != tt.want {
				t.Errorf("decide = %q, want %q", strings.TrimSpace(out), tt.want)
			}
		})
	}
}

func TestDecideCmdWeatherCode(t *testing.T) {
	ctx := setupTestContext(t)
	code := 13
	cmd := DecideCmd{At: "12:00", Code: &code}

	out, err := captureStdout(t, func() error { return cmd.Run(ctx) })
	if err != nil {
		t.Fatalf("decide failed: %v", err)
	}
	if got := strings.TrimSpace(out); got != "Day+LightRain" {
		t.Errorf("decide = %q, want Day+LightRain", got)
	}
}

func TestDecideCmdInvalidTime(t *testing.T) {
	ctx := setupTestContext(t)
	cmd := DecideCmd{At: "noon"}
	if _, err := captureStdout(t, func() error { return cmd.Run(ctx) }); err == nil {
		t.Error("expected error for invalid --at")
	}
}

func TestSettingsSetCmd(t *testing.T) {
	ctx := setupTestContext(t)

	cmd := SettingsSetCmd{Key: constants.SettingSunrise, Value: "07:15"}
	if _, err := captureStdout(t, func() error { return cmd.Run(ctx) }); err != nil {
		t.Fatalf("settings set failed: %v", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.Sunrise != "07:15" {
		t.Errorf("sunrise = %q, want 07:15", settings.Sunrise)
	}

	bad := []SettingsSetCmd{
		{Key: "no_such_key", Value: "x"},
		{Key: constants.SettingSunset, Value: "25:99"},
		{Key: constants.SettingAutomationEnabled, Value: "yes"},
	}
	for _, c := range bad {
		if _, err := captureStdout(t, func() error { return c.Run(ctx) }); err == nil {
			t.Errorf("settings set %s=%s should fail", c.Key, c.Value)
		}
	}
}

func TestSettingsShowJSON(t *testing.T) {
	ctx := setupTestContext(t)
	cmd := SettingsShowCmd{JSON: true}

	out, err := captureStdout(t, func() error { return cmd.Run(ctx) })
	if err != nil {
		t.Fatalf("settings show failed: %v", err)
	}
	var got models.Settings
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not settings JSON: %v\n%s", err, out)
	}
	if got.Sunrise != constants.DefaultSunrise {
		t.Errorf("sunrise = %q, want default %q", got.Sunrise, constants.DefaultSunrise)
	}
}

func TestSettingsFormApply(t *testing.T) {
	base := models.DefaultSettings()
	fm := newSettingsForm(base)
	fm.Sunrise = "05:45"
	fm.Location = "  ip "
	fm.RefreshMinutes = "15"
	fm.WeatherSync = true

	got, err := fm.apply(base)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if got.Sunrise != "05:45" || got.Location != "ip" || got.RefreshMinutes != 15 || !got.WeatherSyncEnabled {
		t.Errorf("unexpected settings after apply: %+v", got)
	}

	fm.RefreshMinutes = "0"
	if _, err := fm.apply(base); err == nil {
		t.Error("zero refresh interval should be rejected")
	}
	fm.RefreshMinutes = "15"
	fm.Sunset = "dusk"
	if _, err := fm.apply(base); err == nil {
		t.Error("invalid sunset should be rejected")
	}
}

func TestMaskKey(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"abc":        "***",
		"abcd":       "****",
		"abcdef":     "ab**ef",
		"0123456789": "01******89",
	}
	for in, want := range tests {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeyringCommands(t *testing.T) {
	ctx := setupTestContext(t)

	if _, err := captureStdout(t, func() error { return (&KeyringGetCmd{}).Run(ctx) }); err == nil {
		t.Error("get without a stored key should fail")
	}
	if _, err := captureStdout(t, func() error { return (&KeyringSetCmd{Key: "secret-key-123"}).Run(ctx) }); err != nil {
		t.Fatalf("keyring set failed: %v", err)
	}
	out, err := captureStdout(t, func() error { return (&KeyringGetCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("keyring get failed: %v", err)
	}
	if strings.Contains(out, "secret-key-123") {
		t.Error("keyring get printed the unmasked key")
	}
	if !strings.Contains(out, "se**********23") {
		t.Errorf("unexpected masked output: %q", out)
	}
	if _, err := captureStdout(t, func() error { return (&KeyringDeleteCmd{}).Run(ctx) }); err != nil {
		t.Fatalf("keyring delete failed: %v", err)
	}
	if _, err := captureStdout(t, func() error { return (&KeyringDeleteCmd{}).Run(ctx) }); err == nil {
		t.Error("second delete should fail")
	}
}

func TestStatusCmdDryRun(t *testing.T) {
	ctx := setupTestContext(t)
	cmd := StatusCmd{JSON: true}

	out, err := captureStdout(t, func() error { return cmd.Run(ctx) })
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	var got dryStatus
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Environment != "Day" {
		t.Errorf("environment = %q, want Day", got.Environment)
	}
	if got.Weather != nil {
		t.Error("dry status without debug weather should carry no snapshot")
	}
}

func TestStatusCmdSimulate(t *testing.T) {
	ctx := setupTestContext(t)
	cmd := StatusCmd{Simulate: true}

	out, err := captureStdout(t, func() error { return cmd.Run(ctx) })
	if err != nil {
		t.Fatalf("status --simulate failed: %v", err)
	}
	if !strings.Contains(out, "Day") {
		t.Errorf("expected Day environment in output:\n%s", out)
	}

	events, err := ctx.Store.RecentEvents(models.SlotDay, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) == 0 {
		t.Error("simulated cycle should record the Day environment toggle")
	}
}

func TestHistoryCmd(t *testing.T) {
	ctx := setupTestContext(t)
	if err := ctx.Store.AppendEvent(models.AutomationEvent{
		At:     fixedNow,
		Slot:   models.SlotBooks,
		Rule:   "Books",
		Kind:   models.EventToggleIssued,
		Target: true,
	}); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error { return (&HistoryCmd{Limit: 10}).Run(ctx) })
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, string(models.EventToggleIssued)) {
		t.Errorf("history output missing event:\n%s", out)
	}

	if _, err := captureStdout(t, func() error { return (&HistoryCmd{Slot: "NotASlot", Limit: 10}).Run(ctx) }); err == nil {
		t.Error("unknown slot should be rejected")
	}
}

func TestRulesAndSlotsCmd(t *testing.T) {
	ctx := setupTestContext(t)
	tuning := "disabled:\n  - Whale\n"
	if err := os.WriteFile(filepath.Join(ctx.ConfigDir, constants.RulesFileName), []byte(tuning), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error { return (&RulesCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("rules failed: %v", err)
	}
	table, _, _ := strings.Cut(out, "Daily probabilities:")
	if strings.Contains(table, "Whale") || !strings.Contains(table, "Fireworks") {
		t.Errorf("unexpected rules output:\n%s", out)
	}

	out, err = captureStdout(t, func() error { return (&RulesCmd{All: true}).Run(ctx) })
	if err != nil {
		t.Fatalf("rules --all failed: %v", err)
	}
	if !strings.Contains(out, "Whale") {
		t.Errorf("rules --all should list disabled rules:\n%s", out)
	}

	out, err = captureStdout(t, func() error { return (&SlotsCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("slots failed: %v", err)
	}
	for _, slot := range models.AllSlots() {
		if !strings.Contains(out, string(slot)) {
			t.Errorf("slots output missing %s", slot)
		}
	}
}

func TestDebugCmds(t *testing.T) {
	ctx := setupTestContext(t)

	out, err := captureStdout(t, func() error { return (&DebugDBPathCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("debug db-path failed: %v", err)
	}
	var path map[string]string
	if err := json.Unmarshal([]byte(out), &path); err != nil {
		t.Fatalf("db-path output is not JSON: %v", err)
	}
	if path["path"] != ctx.Store.GetConfigPath() {
		t.Errorf("path = %q, want %q", path["path"], ctx.Store.GetConfigPath())
	}

	out, err = captureStdout(t, func() error { return (&DebugDumpEventsCmd{Limit: 5}).Run(ctx) })
	if err != nil {
		t.Fatalf("debug dump-events failed: %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("empty history should dump as [], got %q", out)
	}

	if _, err := captureStdout(t, func() error { return (&DebugDumpSettingsCmd{}).Run(ctx) }); err != nil {
		t.Errorf("debug dump-settings failed: %v", err)
	}
}

func TestDoctorCmd(t *testing.T) {
	ctx := setupTestContext(t)

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Schema version: OK") {
		t.Errorf("expected schema check to pass:\n%s", out)
	}
}

func TestDoctorCmdMissingWeatherKey(t *testing.T) {
	ctx := setupTestContext(t)
	settings, _ := ctx.Store.GetSettings()
	settings.WeatherSyncEnabled = true
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatal(err)
	}

	out, err := captureStdout(t, func() error { return (&DoctorCmd{}).Run(ctx) })
	if err == nil {
		t.Errorf("doctor should fail when weather sync has no key:\n%s", out)
	}
}

func TestBackupCommands(t *testing.T) {
	ctx := setupTestContext(t)

	out, err := captureStdout(t, func() error { return (&BackupCreateCmd{}).Run(ctx) })
	if err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	if !strings.Contains(out, "Backup created") {
		t.Errorf("unexpected create output: %q", out)
	}

	out, err = captureStdout(t, func() error { return (&BackupListCmd{JSON: true}).Run(ctx) })
	if err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	var list []struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(list))
	}

	restore := BackupRestoreCmd{File: filepath.Base(list[0].Path)}
	if _, err := captureStdout(t, func() error { return restore.Run(ctx) }); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
}
