package models

import (
	"fmt"
	"time"
)

// WeatherCondition is the coarse classification of a provider weather code.
type WeatherCondition int

const (
	ConditionUnknown WeatherCondition = iota
	ConditionClear
	ConditionCloudy
	ConditionRainy
	ConditionSnowy
	ConditionFoggy
)

func (c WeatherCondition) String() string {
	switch c {
	case ConditionClear:
		return "Clear"
	case ConditionCloudy:
		return "Cloudy"
	case ConditionRainy:
		return "Rainy"
	case ConditionSnowy:
		return "Snowy"
	case ConditionFoggy:
		return "Foggy"
	default:
		return "Unknown"
	}
}

// WeatherSnapshot is the most recently fetched observation.
type WeatherSnapshot struct {
	Code               int              `json:"code"`
	Text               string           `json:"text"`
	TemperatureCelsius int              `json:"temperature"`
	Condition          WeatherCondition `json:"condition"`
	FetchedAt          time.Time        `json:"fetched_at"`
}

func (w WeatherSnapshot) String() string {
	return fmt.Sprintf("%s %d°C (code %d, %s)", w.Text, w.TemperatureCelsius, w.Code, w.Condition)
}

// SunTimes is one day of sunrise/sunset data, formatted HH:MM.
type SunTimes struct {
	Date    string `json:"date"`
	Sunrise string `json:"sunrise"`
	Sunset  string `json:"sunset"`
}
