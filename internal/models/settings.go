package models

// Settings represents the persisted configuration the daemon reads every cycle
type Settings struct {
	Sunrise            string `json:"sunrise"`              // local sunrise, e.g. "06:30"
	Sunset             string `json:"sunset"`               // local sunset, e.g. "18:30"
	WeatherSyncEnabled bool   `json:"weather_sync_enabled"` // whether weather and sun times are fetched
	Location           string `json:"location"`             // provider location, e.g. "beijing" or "ip"
	RefreshMinutes     int    `json:"refresh_minutes"`      // weather refresh interval
	AutomationEnabled  bool   `json:"automation_enabled"`   // whether the scenery rule engine runs
	DebugWeather       bool   `json:"debug_weather"`        // use the debug snapshot instead of the provider
	DebugWeatherCode   int    `json:"debug_weather_code"`
	DebugWeatherTemp   int    `json:"debug_weather_temp"`
	DebugWeatherText   string `json:"debug_weather_text"`
	LastSunSyncDate    string `json:"last_sun_sync_date"` // YYYY-MM-DD of the last successful sun sync
	HostDir            string `json:"host_dir"`           // directory holding the host lockfile, "" for default
}
