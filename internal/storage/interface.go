package storage

import (
	"errors"

	"github.com/julianstephens/envsync/internal/models"
)

// ErrNotInitialized is returned by Load when no database exists yet
var ErrNotInitialized = errors.New("storage not initialized, run 'envsync init' first")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Automation history
	AppendEvent(models.AutomationEvent) error
	RecentEvents(slot models.Slot, limit int) ([]models.AutomationEvent, error)

	// Utils
	SchemaVersion() (int, error)
	GetConfigPath() string
}
