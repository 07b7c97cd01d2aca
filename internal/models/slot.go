package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Slot identifies one independently toggleable feature of the host.
type Slot string

// Scenery slots managed by the rule engine.
const (
	SlotFireworks     Slot = "fireworks"
	SlotCooking       Slot = "cook-simmer"
	SlotRoomNoise     Slot = "room-noise"
	SlotSakura        Slot = "sakura"
	SlotCicada        Slot = "cicada"
	SlotDeepSea       Slot = "deep-sea"
	SlotSpace         Slot = "space"
	SlotLocomotive    Slot = "locomotive"
	SlotBalloon       Slot = "balloon"
	SlotBooks         Slot = "books"
	SlotBlueButterfly Slot = "blue-butterfly"
	SlotWindBell      Slot = "wind-bell"
	SlotHotSpring     Slot = "hot-spring"
	SlotWhale         Slot = "whale"
)

// Base environment and precipitation slots managed by the environment decider.
const (
	SlotDay         Slot = "day"
	SlotSunset      Slot = "sunset"
	SlotNight       Slot = "night"
	SlotCloudy      Slot = "cloudy"
	SlotLightRain   Slot = "light-rain"
	SlotHeavyRain   Slot = "heavy-rain"
	SlotThunderRain Slot = "thunder-rain"
	SlotSnow        Slot = "snow"
)

var allSlots = []Slot{
	SlotFireworks, SlotCooking, SlotRoomNoise, SlotSakura, SlotCicada, SlotDeepSea,
	SlotSpace, SlotLocomotive, SlotBalloon, SlotBooks, SlotBlueButterfly, SlotWindBell,
	SlotHotSpring, SlotWhale,
	SlotDay, SlotSunset, SlotNight, SlotCloudy,
	SlotLightRain, SlotHeavyRain, SlotThunderRain, SlotSnow,
}

// AllSlots returns every known slot in a stable order.
func AllSlots() []Slot {
	out := make([]Slot, len(allSlots))
	copy(out, allSlots)
	return out
}

// IsKnown reports whether s is one of the known slots.
func (s Slot) IsKnown() bool {
	for _, known := range allSlots {
		if known == s {
			return true
		}
	}
	return false
}

func (s Slot) String() string {
	return string(s)
}

// ParseSlot resolves a user supplied slot name. Unknown names produce an error that
// suggests the closest known slot.
func ParseSlot(name string) (Slot, error) {
	normalized := Slot(strings.ToLower(strings.TrimSpace(strings.ReplaceAll(name, "_", "-"))))
	if normalized.IsKnown() {
		return normalized, nil
	}
	if suggestion := closestSlot(string(normalized)); suggestion != "" {
		return "", fmt.Errorf("unknown slot %q (did you mean %q?)", name, suggestion)
	}
	return "", fmt.Errorf("unknown slot %q", name)
}

func closestSlot(name string) Slot {
	type candidate struct {
		slot Slot
		dist int
	}
	var candidates []candidate
	for _, s := range allSlots {
		dist := levenshtein.ComputeDistance(name, string(s))
		if dist <= suggestionLimit(len(s)) {
			candidates = append(candidates, candidate{s, dist})
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	return candidates[0].slot
}

func suggestionLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 8:
		return 2
	default:
		return 3
	}
}
