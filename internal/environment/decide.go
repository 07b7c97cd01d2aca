// Package environment derives the base day/sunset/night/overcast environment and the
// precipitation overlay, and drives the host toward them.
package environment

import (
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/weather"
)

// Decision is the desired base environment and overlay.
type Decision struct {
	Base    models.BaseEnvironment `json:"base"`
	Overlay models.Precipitation   `json:"overlay"`
}

func (d Decision) String() string {
	if d.Overlay == models.PrecipNone {
		return d.Base.String()
	}
	return d.Base.String() + "+" + d.Overlay.String()
}

// Decide computes the environment for now. A nil snapshot means a purely time based
// decision with no overlay. Bad weather turns any non-night phase overcast.
func Decide(now time.Time, sched calendar.SunSchedule, snap *models.WeatherSnapshot) Decision {
	base := sched.Phase(now)
	if snap == nil {
		return Decision{Base: base}
	}
	if weather.IsBadWeather(snap.Code) && base != models.EnvNight {
		base = models.EnvCloudy
	}
	return Decision{Base: base, Overlay: weather.PrecipitationForCode(snap.Code)}
}
