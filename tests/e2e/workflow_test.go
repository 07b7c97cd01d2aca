//go:build !windows

package e2e

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"
)

const (
	TEST_READY_TIMEOUT  = 30 * time.Second
	TEST_SWITCH_TIMEOUT = 15 * time.Second
)

type harness struct {
	t      *testing.T
	cli    string
	config string
	env    []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("ENVSYNC_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "envsync")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it first with: go build -o bin/envsync ./cmd/envsync", cliPath)
	}

	// Isolate config, keyring lookups and logs in a temp home
	tempDir := t.TempDir()
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "XDG_CONFIG_HOME=") || strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "ENVSYNC_") {
			continue
		}
		env = append(env, e)
	}
	env = append(env, "XDG_CONFIG_HOME="+tempDir, "HOME="+tempDir)

	return &harness{
		t:      t,
		cli:    cliPath,
		config: filepath.Join(tempDir, "envsync", "envsync.db"),
		env:    env,
	}
}

func (h *harness) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, h.cli, append([]string{"--config", h.config}, args...)...)
	cmd.Env = h.env
	return cmd
}

func (h *harness) run(args ...string) string {
	h.t.Helper()
	out, err := h.command(context.Background(), args...).CombinedOutput()
	if err != nil {
		h.t.Fatalf("Command envsync %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func TestDecideWorkflow(t *testing.T) {
	h := newHarness(t)
	h.run("init")
	h.run("settings", "set", "sunset", "18:00")

	cases := map[string]string{
		"12:00": "Day",
		"18:10": "Sunset",
		"23:00": "Night",
	}
	for at, want := range cases {
		out := strings.TrimSpace(h.run("decide", "--at", at))
		if out != want {
			t.Errorf("decide --at %s = %q, want %q", at, out, want)
		}
	}

	if out := strings.TrimSpace(h.run("decide", "--at", "12:00", "--code", "13")); out != "Day+LightRain" {
		t.Errorf("decide with rain code = %q, want Day+LightRain", out)
	}
}

func TestSimulatedDaemon(t *testing.T) {
	h := newHarness(t)
	h.run("init")

	if out := h.run("status", "--simulate"); !strings.Contains(out, "Environment") {
		t.Fatalf("status --simulate printed no environment:\n%s", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	daemon := h.command(ctx, "run", "--simulate")
	stderr, err := daemon.StderrPipe()
	if err != nil {
		t.Fatalf("Failed to get stderr pipe: %v", err)
	}
	if err := daemon.Start(); err != nil {
		t.Fatalf("Failed to start daemon: %v", err)
	}
	t.Log("Daemon started")

	lines := make(chan string, 64)
	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(needle string, timeout time.Duration) {
		t.Helper()
		deadline := time.After(timeout)
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("Daemon exited before logging %q", needle)
				}
				if strings.Contains(line, needle) {
					t.Logf("Found log: %s", line)
					return
				}
			case <-deadline:
				t.Fatalf("Timed out waiting for %q", needle)
			}
		}
	}

	waitFor("Host ready", TEST_READY_TIMEOUT)

	// SIGUSR1 forces a reconcile and an environment apply without waiting out the startup delay
	if err := daemon.Process.Signal(syscall.SIGUSR1); err != nil {
		t.Fatalf("Failed to signal daemon: %v", err)
	}
	waitFor("Switching environment", TEST_SWITCH_TIMEOUT)

	if err := daemon.Process.Signal(os.Interrupt); err != nil {
		t.Fatalf("Failed to interrupt daemon: %v", err)
	}
	waitFor("Daemon stopped", TEST_SWITCH_TIMEOUT)
	for range lines {
	}
	if err := daemon.Wait(); err != nil {
		t.Errorf("Daemon exited with error: %v", err)
	}

	if out := h.run("history", "--limit", "50"); !strings.Contains(out, "environment") {
		t.Errorf("history shows no environment events:\n%s", out)
	}
}
