package models

// BaseEnvironment is the single prevailing day/sunset/night/overcast state.
type BaseEnvironment int

const (
	EnvDay BaseEnvironment = iota
	EnvSunset
	EnvNight
	EnvCloudy
)

// BaseEnvironments lists every base environment in switch order.
var BaseEnvironments = []BaseEnvironment{EnvDay, EnvSunset, EnvNight, EnvCloudy}

func (e BaseEnvironment) String() string {
	switch e {
	case EnvDay:
		return "Day"
	case EnvSunset:
		return "Sunset"
	case EnvNight:
		return "Night"
	case EnvCloudy:
		return "Cloudy"
	default:
		return "Unknown"
	}
}

// Slot returns the host slot that renders e.
func (e BaseEnvironment) Slot() Slot {
	switch e {
	case EnvDay:
		return SlotDay
	case EnvSunset:
		return SlotSunset
	case EnvNight:
		return SlotNight
	default:
		return SlotCloudy
	}
}

// Precipitation is the rain/snow overlay axis, independent of the base environment.
type Precipitation int

const (
	PrecipNone Precipitation = iota
	PrecipLightRain
	PrecipHeavyRain
	PrecipThunderRain
	PrecipSnow
)

// PrecipitationSlots lists the overlay slots in switch order.
var PrecipitationSlots = []Slot{SlotThunderRain, SlotHeavyRain, SlotLightRain, SlotSnow}

func (p Precipitation) String() string {
	switch p {
	case PrecipLightRain:
		return "LightRain"
	case PrecipHeavyRain:
		return "HeavyRain"
	case PrecipThunderRain:
		return "ThunderRain"
	case PrecipSnow:
		return "Snow"
	default:
		return "None"
	}
}

// Slot returns the overlay slot for p, or "" for PrecipNone.
func (p Precipitation) Slot() Slot {
	switch p {
	case PrecipLightRain:
		return SlotLightRain
	case PrecipHeavyRain:
		return SlotHeavyRain
	case PrecipThunderRain:
		return SlotThunderRain
	case PrecipSnow:
		return SlotSnow
	default:
		return ""
	}
}
