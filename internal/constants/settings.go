package constants

const (
	// Settings keys
	SettingSunrise            = "sunrise"
	SettingSunset             = "sunset"
	SettingWeatherSyncEnabled = "weather_sync_enabled"
	SettingLocation           = "location"
	SettingRefreshMinutes     = "refresh_minutes"
	SettingAutomationEnabled  = "automation_enabled"
	SettingDebugWeather       = "debug_weather"
	SettingDebugWeatherCode   = "debug_weather_code"
	SettingDebugWeatherTemp   = "debug_weather_temp"
	SettingDebugWeatherText   = "debug_weather_text"
	SettingLastSunSyncDate    = "last_sun_sync_date"
	SettingHostDir            = "host_dir"

	// Default Settings Values
	DefaultSunrise            = "06:30"
	DefaultSunset             = "18:30"
	DefaultWeatherSyncEnabled = false
	DefaultLocation           = "beijing"
	DefaultRefreshMinutes     = 30
	DefaultAutomationEnabled  = true
	DefaultDebugWeatherCode   = 1
	DefaultDebugWeatherTemp   = 25
	DefaultDebugWeatherText   = "DebugWeather"
)
