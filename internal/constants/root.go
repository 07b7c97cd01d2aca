package constants

import "time"

const (
	AppName            = "envsync"
	DefaultKeyringUser = "weather-api-key"
	DefaultConfigPath  = "~/.config/envsync/envsync.db"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time-of-day format used for sunrise/sunset (HH:MM)
	TimeFormat = "15:04"

	// WeatherKeyEnv is consulted when the OS keyring has no weather API key
	WeatherKeyEnv = "ENVSYNC_WEATHER_KEY"

	// Host bridge constants
	HostLockfileName   = "envsync-host.lock"
	HostAppIdentifier  = "com.julianstephens.envsync"
	HostSecretHeader   = "X-Envsync-Secret"
	HostExecutable     = "envsync-host"
	HostRequestTimeout = 2 * time.Second
	HostReadTimeout    = 500 * time.Millisecond
	HostPollInterval   = 1 * time.Second
	// HostBackoff is how long slot calls fail fast after the host stops answering
	HostBackoff = 5 * time.Second

	LogDirName  = "logs"
	LogFileName = "envsync.log"

	// RulesFileName is the optional rule tuning file, read from the config directory
	RulesFileName = "rules.yaml"
)
