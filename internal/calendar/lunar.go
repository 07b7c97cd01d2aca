package calendar

import "time"

// lunarNewYear holds the Gregorian date of the first day of the first lunar month.
var lunarNewYear = map[int]struct {
	month time.Month
	day   int
}{
	2000: {time.February, 5}, 2001: {time.January, 24}, 2002: {time.February, 12},
	2003: {time.February, 1}, 2004: {time.January, 22}, 2005: {time.February, 9},
	2006: {time.January, 29}, 2007: {time.February, 18}, 2008: {time.February, 7},
	2009: {time.January, 26}, 2010: {time.February, 14}, 2011: {time.February, 3},
	2012: {time.January, 23}, 2013: {time.February, 10}, 2014: {time.January, 31},
	2015: {time.February, 19}, 2016: {time.February, 8}, 2017: {time.January, 28},
	2018: {time.February, 16}, 2019: {time.February, 5}, 2020: {time.January, 25},
	2021: {time.February, 12}, 2022: {time.February, 1}, 2023: {time.January, 22},
	2024: {time.February, 10}, 2025: {time.January, 29}, 2026: {time.February, 17},
	2027: {time.February, 6}, 2028: {time.January, 26}, 2029: {time.February, 13},
	2030: {time.February, 3}, 2031: {time.January, 23}, 2032: {time.February, 11},
	2033: {time.January, 31}, 2034: {time.February, 19}, 2035: {time.February, 8},
	2036: {time.January, 28}, 2037: {time.February, 15}, 2038: {time.February, 4},
	2039: {time.January, 24}, 2040: {time.February, 12}, 2041: {time.February, 1},
	2042: {time.January, 22}, 2043: {time.February, 10}, 2044: {time.January, 30},
	2045: {time.February, 17}, 2046: {time.February, 6}, 2047: {time.January, 26},
	2048: {time.February, 14}, 2049: {time.February, 2}, 2050: {time.January, 23},
}

// LunarNewYear returns the first day of the lunar year that starts in the given
// Gregorian year. ok is false outside the supported range.
func LunarNewYear(year int, loc *time.Location) (time.Time, bool) {
	d, ok := lunarNewYear[year]
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, d.month, d.day, 0, 0, 0, 0, loc), true
}

// IsLunarNewYearPeriod reports whether t falls between lunar new year's eve and the
// fifth day of the first lunar month, inclusive.
func IsLunarNewYearPeriod(t time.Time) bool {
	newYear, ok := LunarNewYear(t.Year(), t.Location())
	if !ok {
		return false
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	eve := newYear.AddDate(0, 0, -1)
	fifth := newYear.AddDate(0, 0, 4)
	return !day.Before(eve) && !day.After(fifth)
}
