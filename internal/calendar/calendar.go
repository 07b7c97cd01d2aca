// Package calendar holds the pure clock and calendar predicates the rules and the
// environment decider are built from.
package calendar

import (
	"fmt"
	"time"

	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
)

// Season is a meteorological season derived from the month.
type Season int

const (
	Spring Season = iota
	Summer
	Autumn
	Winter
)

func (s Season) String() string {
	switch s {
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Autumn:
		return "Autumn"
	default:
		return "Winter"
	}
}

// SeasonOf returns Mar–May spring, Jun–Aug summer, Sep–Nov autumn, otherwise winter.
func SeasonOf(t time.Time) Season {
	switch m := t.Month(); {
	case m >= time.March && m <= time.May:
		return Spring
	case m >= time.June && m <= time.August:
		return Summer
	case m >= time.September && m <= time.November:
		return Autumn
	default:
		return Winter
	}
}

// IsDay reports hour in [6,18).
func IsDay(t time.Time) bool {
	h := t.Hour()
	return h >= 6 && h < 18
}

// IsNight reports hour >= 19 or hour < 5. Hours 5 and 18 are neither day nor night.
func IsNight(t time.Time) bool {
	h := t.Hour()
	return h >= 19 || h < 5
}

// IsDate reports whether t falls on the given month and day.
func IsDate(t time.Time, month time.Month, day int) bool {
	return t.Month() == month && t.Day() == day
}

// MinuteOfDay returns minutes since local midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// SameDate reports whether a and b fall on the same calendar date in a's location.
func SameDate(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DateKey formats t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseClock parses an HH:MM time of day into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(constants.TimeFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// TimeOfDay returns t's offset from its local midnight.
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// SunSchedule is a configured sunrise and sunset, as offsets from local midnight.
type SunSchedule struct {
	Sunrise time.Duration
	Sunset  time.Duration
}

// ParseSunSchedule parses HH:MM sunrise and sunset strings.
func ParseSunSchedule(sunrise, sunset string) (SunSchedule, error) {
	rise, err := ParseClock(sunrise)
	if err != nil {
		return SunSchedule{}, fmt.Errorf("sunrise: %w", err)
	}
	set, err := ParseClock(sunset)
	if err != nil {
		return SunSchedule{}, fmt.Errorf("sunset: %w", err)
	}
	return SunSchedule{Sunrise: rise, Sunset: set}, nil
}

// DefaultSunSchedule is 06:30 / 18:30.
func DefaultSunSchedule() SunSchedule {
	s, _ := ParseSunSchedule(constants.DefaultSunrise, constants.DefaultSunset)
	return s
}

// Phase returns the purely time-based base environment: Sunset within ±30 minutes of
// sunset, Day from sunrise to the start of that window, Night otherwise.
func (s SunSchedule) Phase(t time.Time) models.BaseEnvironment {
	cur := TimeOfDay(t)
	sunsetStart := s.Sunset - constants.SunsetWindow
	sunsetEnd := s.Sunset + constants.SunsetWindow

	switch {
	case cur >= s.Sunrise && cur < sunsetStart:
		return models.EnvDay
	case cur >= sunsetStart && cur < sunsetEnd:
		return models.EnvSunset
	default:
		return models.EnvNight
	}
}
