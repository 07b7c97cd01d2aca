package weather

import "github.com/julianstephens/envsync/internal/models"

// ConditionForCode maps a provider weather code to a coarse condition:
// 0–3 clear, 4–9 cloudy, 10–20 rainy, 21–25 snowy, else unknown. Foggy is never
// derived from a code.
func ConditionForCode(code int) models.WeatherCondition {
	switch {
	case code >= 0 && code <= 3:
		return models.ConditionClear
	case code >= 4 && code <= 9:
		return models.ConditionCloudy
	case code >= 10 && code <= 20:
		return models.ConditionRainy
	case code >= 21 && code <= 25:
		return models.ConditionSnowy
	default:
		return models.ConditionUnknown
	}
}

// IsGoodWeather reports whether scenery rules that need a clear sky may fire.
// A missing snapshot counts as good.
func IsGoodWeather(snap *models.WeatherSnapshot) bool {
	if snap == nil {
		return true
	}
	return snap.Code >= 0 && snap.Code <= 9
}

// IsBadWeather reports whether the base environment should be overridden to overcast.
// Sun showers and light snow (10, 13, 21, 22) are excluded; 4 counts as bad even though it
// classifies as cloudy.
func IsBadWeather(code int) bool {
	switch {
	case code == 10 || code == 13 || code == 21 || code == 22:
		return false
	case code == 4:
		return true
	case code >= 7 && code <= 31:
		return true
	case code >= 34 && code <= 36:
		return true
	default:
		return false
	}
}

// PrecipitationForCode maps a weather code to the precipitation overlay.
func PrecipitationForCode(code int) models.Precipitation {
	switch {
	case code >= 20 && code <= 25:
		return models.PrecipSnow
	case code == 11 || code == 12 || (code >= 16 && code <= 18):
		return models.PrecipThunderRain
	case code == 10 || code == 14 || code == 15:
		return models.PrecipHeavyRain
	case code == 13 || code == 19:
		return models.PrecipLightRain
	default:
		return models.PrecipNone
	}
}

// IsSnowing reports whether the snapshot shows snowfall.
func IsSnowing(snap *models.WeatherSnapshot) bool {
	return snap != nil && PrecipitationForCode(snap.Code) == models.PrecipSnow
}
