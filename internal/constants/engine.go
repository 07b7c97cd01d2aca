package constants

import "time"

const (
	// ClickCooldown is the minimum gap between two toggles of the same slot.
	ClickCooldown = 2 * time.Second
	// VerifyDelay is how long after a toggle the live state is checked.
	VerifyDelay = 500 * time.Millisecond
	// ReconcileInterval drives the rule engine scan.
	ReconcileInterval = 5 * time.Second
	// VerifyPollInterval drives pending-action verification between scans.
	VerifyPollInterval = 250 * time.Millisecond
	// EnvironmentInterval drives the time-based environment decision.
	EnvironmentInterval = 30 * time.Second
	// SunSyncCheckInterval drives the sun schedule retry task.
	SunSyncCheckInterval = 1 * time.Second
	// StartupDelay postpones the first environment and weather cycle after the host is ready.
	StartupDelay = 10 * time.Second

	// SunsetWindow is the half-width of the sunset phase around the configured sunset time.
	SunsetWindow = 30 * time.Minute

	// WeatherFreshness is how long a fetched weather snapshot is served from cache.
	WeatherFreshness = 60 * time.Minute
	WeatherTimeout   = 10 * time.Second
	SunTimeout       = 15 * time.Second

	// Sun schedule sync retry policy
	SunSyncInitialDelay = 1 * time.Second
	SunSyncBackoff      = 2
	SunSyncMaxAttempts  = 10

	// Daily probabilities of the rare rules
	ProbabilitySpace         = 0.001
	ProbabilityWhale         = 0.0005
	ProbabilityWindBell      = 0.05
	ProbabilityHotSpring     = 0.05
	ProbabilityHotSpringSnow = 0.30
	ProbabilityBlueButterfly = 0.15

	// BlueButterflySegment is the length of one seeded roll segment and of the display window.
	BlueButterflySegment = 20 * time.Minute
)
