package models

import (
	"fmt"
	"time"

	"github.com/julianstephens/envsync/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingSunrise:
			settings.Sunrise = value
		case constants.SettingSunset:
			settings.Sunset = value
		case constants.SettingWeatherSyncEnabled:
			settings.WeatherSyncEnabled = value == "true"
		case constants.SettingLocation:
			settings.Location = value
		case constants.SettingRefreshMinutes:
			if _, err := fmt.Sscanf(value, "%d", &settings.RefreshMinutes); err != nil {
				return Settings{}, fmt.Errorf("parsing refresh_minutes: %w", err)
			}
		case constants.SettingAutomationEnabled:
			settings.AutomationEnabled = value == "true"
		case constants.SettingDebugWeather:
			settings.DebugWeather = value == "true"
		case constants.SettingDebugWeatherCode:
			if _, err := fmt.Sscanf(value, "%d", &settings.DebugWeatherCode); err != nil {
				return Settings{}, fmt.Errorf("parsing debug_weather_code: %w", err)
			}
		case constants.SettingDebugWeatherTemp:
			if _, err := fmt.Sscanf(value, "%d", &settings.DebugWeatherTemp); err != nil {
				return Settings{}, fmt.Errorf("parsing debug_weather_temp: %w", err)
			}
		case constants.SettingDebugWeatherText:
			settings.DebugWeatherText = value
		case constants.SettingLastSunSyncDate:
			settings.LastSunSyncDate = value
		case constants.SettingHostDir:
			settings.HostDir = value
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingSunrise:            settings.Sunrise,
		constants.SettingSunset:             settings.Sunset,
		constants.SettingWeatherSyncEnabled: fmt.Sprintf("%v", settings.WeatherSyncEnabled),
		constants.SettingLocation:           settings.Location,
		constants.SettingRefreshMinutes:     fmt.Sprintf("%d", settings.RefreshMinutes),
		constants.SettingAutomationEnabled:  fmt.Sprintf("%v", settings.AutomationEnabled),
		constants.SettingDebugWeather:       fmt.Sprintf("%v", settings.DebugWeather),
		constants.SettingDebugWeatherCode:   fmt.Sprintf("%d", settings.DebugWeatherCode),
		constants.SettingDebugWeatherTemp:   fmt.Sprintf("%d", settings.DebugWeatherTemp),
		constants.SettingDebugWeatherText:   settings.DebugWeatherText,
		constants.SettingLastSunSyncDate:    settings.LastSunSyncDate,
		constants.SettingHostDir:            settings.HostDir,
	}
}

// DefaultSettings returns a fully populated settings value.
func DefaultSettings() Settings {
	return Settings{
		Sunrise:            constants.DefaultSunrise,
		Sunset:             constants.DefaultSunset,
		WeatherSyncEnabled: constants.DefaultWeatherSyncEnabled,
		Location:           constants.DefaultLocation,
		RefreshMinutes:     constants.DefaultRefreshMinutes,
		AutomationEnabled:  constants.DefaultAutomationEnabled,
		DebugWeatherCode:   constants.DefaultDebugWeatherCode,
		DebugWeatherTemp:   constants.DefaultDebugWeatherTemp,
		DebugWeatherText:   constants.DefaultDebugWeatherText,
	}
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if settings.Sunrise == "" {
		settings.Sunrise = constants.DefaultSunrise
	}
	if settings.Sunset == "" {
		settings.Sunset = constants.DefaultSunset
	}
	if settings.Location == "" {
		settings.Location = constants.DefaultLocation
	}
	if settings.RefreshMinutes <= 0 {
		settings.RefreshMinutes = constants.DefaultRefreshMinutes
	}
	if settings.DebugWeatherText == "" {
		settings.DebugWeatherText = constants.DefaultDebugWeatherText
	}
}

// SetSetting applies a single key/value pair to settings, validating the value.
func SetSetting(settings *Settings, key, value string) error {
	m := SettingsToMap(*settings)
	if _, ok := m[key]; !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	switch key {
	case constants.SettingSunrise, constants.SettingSunset:
		if _, err := time.Parse(constants.TimeFormat, value); err != nil {
			return fmt.Errorf("%s must be HH:MM: %w", key, err)
		}
	case constants.SettingWeatherSyncEnabled, constants.SettingAutomationEnabled, constants.SettingDebugWeather:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	}
	m[key] = value
	updated, err := MapToSettings(m)
	if err != nil {
		return err
	}
	*settings = updated
	return nil
}
