// Package hostbridge talks to the host process over its local HTTP bridge. The host
// advertises itself with a lockfile holding port|pid|secret.
package hostbridge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/envsync/internal/constants"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess
)

// ErrHostNotRunning is returned when no live host could be found
var ErrHostNotRunning = errors.New("envsync host is not running")

// Endpoint is a validated host address and shared secret.
type Endpoint struct {
	Port   int
	PID    int
	Secret string
}

// BaseURL returns the loopback URL of the bridge.
func (e Endpoint) BaseURL() string {
	return fmt.Sprintf("http://127.0.0.1:%d", e.Port)
}

// HostDir returns the directory holding the host lockfile. override wins when set.
func HostDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, constants.HostAppIdentifier), nil
}

// Discover reads the lockfile in dir and checks that the process it names is the host.
func Discover(dir string) (Endpoint, error) {
	return readLockfile(filepath.Join(dir, constants.HostLockfileName))
}

func readLockfile(path string) (Endpoint, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%w: no lockfile at %s", ErrHostNotRunning, path)
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Endpoint{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return Endpoint{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return Endpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Endpoint{}, errors.New("invalid process ID in lockfile")
	}
	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return Endpoint{}, errors.New("secret in lockfile is empty")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return Endpoint{}, fmt.Errorf("%w: process %d not found", ErrHostNotRunning, pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.HostExecutable) {
		return Endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.HostExecutable, process.Executable())
	}

	return Endpoint{Port: port, PID: pid, Secret: secret}, nil
}
