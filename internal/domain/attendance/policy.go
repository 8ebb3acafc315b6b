package attendance

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock cutoff within a calendar day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" cutoff.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// StatusPolicy classifies a check-in instant into a stored status.
// Both cutoffs are optional; with neither configured every check-in is
// classified as present, which is the default deployment behavior.
type StatusPolicy struct {
	LateAfter    *TimeOfDay
	HalfDayAfter *TimeOfDay
}

// NewStatusPolicy builds a policy from "HH:MM" cutoffs; empty strings
// disable the corresponding rule.
func NewStatusPolicy(lateAfter, halfDayAfter string) (StatusPolicy, error) {
	var policy StatusPolicy

	if lateAfter != "" {
		cutoff, err := ParseTimeOfDay(lateAfter)
		if err != nil {
			return StatusPolicy{}, err
		}
		policy.LateAfter = &cutoff
	}

	if halfDayAfter != "" {
		cutoff, err := ParseTimeOfDay(halfDayAfter)
		if err != nil {
			return StatusPolicy{}, err
		}
		policy.HalfDayAfter = &cutoff
	}

	return policy, nil
}

// Classify returns the status a check-in at t earns. The half-day cutoff
// is checked first so it wins when both are configured.
func (p StatusPolicy) Classify(t time.Time) Status {
	arrived := t.Hour()*60 + t.Minute()

	if p.HalfDayAfter != nil && arrived > p.HalfDayAfter.minutes() {
		return StatusHalfDay
	}
	if p.LateAfter != nil && arrived > p.LateAfter.minutes() {
		return StatusLate
	}
	return StatusPresent
}
