package rules

import (
	"math/rand/v2"
	"time"

	"github.com/julianstephens/envsync/internal/calendar"
	"github.com/julianstephens/envsync/internal/constants"
	"github.com/julianstephens/envsync/internal/models"
	"github.com/julianstephens/envsync/internal/weather"
)

// Rule names of the default set.
const (
	RuleFireworks     = "Fireworks"
	RuleCooking       = "CookingAudio"
	RuleAirCon        = "AC_Audio"
	RuleSakura        = "Sakura"
	RuleCicadas       = "Cicadas"
	RuleSpace         = "Space"
	RuleLocomotive    = "Locomotive"
	RuleBalloon       = "Balloon"
	RuleBooks         = "Books"
	RuleBlueButterfly = "BlueButterfly"
	RuleWindBell      = "WindBell"
	RuleHotSpring     = "HotSpring"
	RuleWhale         = "Whale"
)

// Odds keys. Each probabilistic rule uses its own name; HotSpring has a second key for snow.
const (
	OddsSpace         = RuleSpace
	OddsBlueButterfly = RuleBlueButterfly
	OddsWindBell      = RuleWindBell
	OddsHotSpring     = RuleHotSpring
	OddsHotSpringSnow = "HotSpringSnow"
	OddsWhale         = RuleWhale
)

// HardOverrideSlot, when active, forces every auto-managed slot off.
const HardOverrideSlot = models.SlotDeepSea

// DefaultSet builds the standard rule set in its fixed registration order.
func DefaultSet() *Set {
	s := NewSet()
	for _, r := range defaultRules() {
		// names and slots are static, so registration cannot fail
		_ = s.Register(r)
	}
	s.odds = map[string]float64{
		OddsSpace:         constants.ProbabilitySpace,
		OddsBlueButterfly: constants.ProbabilityBlueButterfly,
		OddsWindBell:      constants.ProbabilityWindBell,
		OddsHotSpring:     constants.ProbabilityHotSpring,
		OddsHotSpringSnow: constants.ProbabilityHotSpringSnow,
		OddsWhale:         constants.ProbabilityWhale,
	}
	return s
}

func defaultRules() []Rule {
	return []Rule{
		{Name: RuleFireworks, Slot: models.SlotFireworks, Condition: fireworks},
		{Name: RuleCooking, Slot: models.SlotCooking, Condition: cooking},
		{Name: RuleAirCon, Slot: models.SlotRoomNoise, Condition: airCon},
		{Name: RuleSakura, Slot: models.SlotSakura, Condition: sakura},
		{Name: RuleCicadas, Slot: models.SlotCicada, Condition: cicadas},
		{Name: RuleSpace, Slot: models.SlotSpace, Condition: space},
		{Name: RuleLocomotive, Slot: models.SlotLocomotive, Condition: locomotive},
		{Name: RuleBalloon, Slot: models.SlotBalloon, Condition: balloon},
		{Name: RuleBooks, Slot: models.SlotBooks, Condition: books},
		{Name: RuleBlueButterfly, Slot: models.SlotBlueButterfly, Condition: blueButterfly},
		{Name: RuleWindBell, Slot: models.SlotWindBell, Condition: windBell},
		{Name: RuleHotSpring, Slot: models.SlotHotSpring, Condition: hotSpring},
		{Name: RuleWhale, Slot: models.SlotWhale, Condition: whale, Suspends: true},
	}
}

func fireworks(ev Evaluation, _ *Memory) bool {
	newYear := calendar.IsDate(ev.Now, time.January, 1) || calendar.IsLunarNewYearPeriod(ev.Now)
	return calendar.IsNight(ev.Now) && newYear
}

// cooking holds around lunch and dinner, both bounds inclusive.
func cooking(ev Evaluation, _ *Memory) bool {
	m := calendar.MinuteOfDay(ev.Now)
	return (m >= 11*60+30 && m <= 12*60+30) || (m >= 17*60+30 && m <= 18*60+30)
}

func airCon(ev Evaluation, _ *Memory) bool {
	if ev.Weather == nil {
		return false
	}
	return ev.Weather.TemperatureCelsius > 30 || ev.Weather.TemperatureCelsius < 5
}

func sakura(ev Evaluation, _ *Memory) bool {
	return calendar.SeasonOf(ev.Now) == calendar.Spring && calendar.IsDay(ev.Now) && weather.IsGoodWeather(ev.Weather)
}

func cicadas(ev Evaluation, _ *Memory) bool {
	return calendar.SeasonOf(ev.Now) == calendar.Summer && calendar.IsDay(ev.Now) && weather.IsGoodWeather(ev.Weather)
}

func space(ev Evaluation, mem *Memory) bool {
	if !calendar.IsNight(ev.Now) || !weather.IsGoodWeather(ev.Weather) {
		return false
	}
	return rollDaily(ev, mem, ev.Chance(OddsSpace))
}

func locomotive(ev Evaluation, _ *Memory) bool {
	christmas := calendar.IsDate(ev.Now, time.December, 24) || calendar.IsDate(ev.Now, time.December, 25)
	return christmas && calendar.IsNight(ev.Now) && weather.IsGoodWeather(ev.Weather)
}

func balloon(ev Evaluation, _ *Memory) bool {
	return calendar.IsDate(ev.Now, time.June, 1) && calendar.IsDay(ev.Now) && weather.IsGoodWeather(ev.Weather)
}

func books(ev Evaluation, _ *Memory) bool {
	return calendar.IsDate(ev.Now, time.April, 23) || calendar.IsDate(ev.Now, time.September, 1)
}

// blueButterfly rolls once per 20 minute segment from a seed derived from the date and
// segment, so repeated evaluation inside a segment agrees. Once it fires it holds for one
// segment length and does not fire again that day.
func blueButterfly(ev Evaluation, mem *Memory) bool {
	month := ev.Now.Month()
	if month < time.May || month > time.June || !calendar.IsNight(ev.Now) || !weather.IsGoodWeather(ev.Weather) {
		return false
	}
	if mem.Triggered {
		return ev.Now.Sub(mem.StartedAt) < constants.BlueButterflySegment
	}

	if segmentRoll(ev.Now) < ev.Chance(OddsBlueButterfly) {
		mem.Rolled = true
		mem.Triggered = true
		mem.StartedAt = ev.Now
		return true
	}
	return false
}

// segmentRoll returns the deterministic roll for the segment containing t.
func segmentRoll(t time.Time) float64 {
	segment := calendar.MinuteOfDay(t) / int(constants.BlueButterflySegment/time.Minute)
	seed := uint64(t.Year()*10000 + t.YearDay()*100 + segment)
	return rand.New(rand.NewPCG(seed, seed)).Float64()
}

func windBell(ev Evaluation, mem *Memory) bool {
	month := ev.Now.Month()
	if month < time.July || month > time.August || !weather.IsGoodWeather(ev.Weather) {
		return false
	}
	return rollDaily(ev, mem, ev.Chance(OddsWindBell))
}

func hotSpring(ev Evaluation, mem *Memory) bool {
	month := ev.Now.Month()
	if month > time.February && month < time.November {
		return false
	}
	snowing := weather.IsSnowing(ev.Weather)
	if !weather.IsGoodWeather(ev.Weather) && !snowing {
		return false
	}
	p := ev.Chance(OddsHotSpring)
	if snowing {
		p = ev.Chance(OddsHotSpringSnow)
	}
	return rollDaily(ev, mem, p)
}

// whale ignores weather entirely.
func whale(ev Evaluation, mem *Memory) bool {
	return rollDaily(ev, mem, ev.Chance(OddsWhale))
}
