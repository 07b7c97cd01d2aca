// Package errors formats command failures for the terminal.
package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/envsync/internal/hostbridge"
	"github.com/julianstephens/envsync/internal/keyring"
	"github.com/julianstephens/envsync/internal/logger"
	"github.com/julianstephens/envsync/internal/storage"
)

// hints pairs well-known failures with the command that usually fixes them.
var hints = []struct {
	target error
	hint   string
}{
	{storage.ErrNotInitialized, "run 'envsync init' to create the database"},
	{hostbridge.ErrHostNotRunning, "start the scenery host, or pass --simulate to use an in-memory host"},
	{keyring.ErrNotFound, "store a key with 'envsync keyring set <key>'"},
	{keyring.ErrKeyringUnavailable, "set ENVSYNC_WEATHER_KEY instead of using the OS keyring"},
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Hint returns a suggested next step for err, or "".
func Hint(err error) string {
	for _, h := range hints {
		if stderrors.Is(err, h.target) {
			return h.hint
		}
	}
	return ""
}

// Fatal logs err, prints it with any hint and exits with code 1.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("Command execution failed", "error", err)
	fmt.Fprintln(os.Stderr, Format(err))
	if hint := Hint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
	os.Exit(1)
}
