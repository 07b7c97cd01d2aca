package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/envsync/internal/keyring"
)

// KeyringSetCmd stores the weather API key in the OS keyring
type KeyringSetCmd struct {
	Key string `arg:"" help:"Weather provider API key."`
}

func (cmd *KeyringSetCmd) Run(ctx *Context) error {
	if strings.TrimSpace(cmd.Key) == "" {
		return errors.New("API key must not be empty")
	}
	if err := keyring.SetAPIKey(cmd.Key); err != nil {
		return fmt.Errorf("failed to store API key in keyring: %w", err)
	}
	fmt.Println("✓ Weather API key stored in OS keyring")
	return nil
}

// KeyringGetCmd shows the stored weather API key, masked
type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *Context) error {
	key, source, err := keyring.ResolveAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no weather API key found. Use 'envsync keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve API key: %w", err)
	}
	fmt.Printf("Weather API key (%s): %s\n", source, maskKey(key))
	return nil
}

// KeyringDeleteCmd removes the weather API key from the OS keyring
type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no weather API key found in keyring")
		}
		return fmt.Errorf("failed to delete API key from keyring: %w", err)
	}
	fmt.Println("✓ Weather API key deleted from OS keyring")
	return nil
}

// KeyringStatusCmd checks the availability of the OS keyring
type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *Context) error {
	if !keyring.IsAvailable() {
		fmt.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}
	fmt.Println("✓ OS keyring is available")
	if _, err := keyring.GetAPIKey(); err == nil {
		fmt.Println("✓ Weather API key is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		fmt.Println("ℹ No weather API key stored in keyring")
	}
	return nil
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:2] + strings.Repeat("*", len(key)-4) + key[len(key)-2:]
}
