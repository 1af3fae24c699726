// Package rules holds the pure policy functions of the reconciliation
// engine: health bands and offstage drift, shelter scope capacity, standing
// tiers, and the world clock. Everything here is deterministic and free of
// I/O so the orchestrators stay testable.
package rules

import (
	"fmt"

	"github.com/frostline-games/worldstate/internal/entities/world"
)

// HealthRules tunes the offstage health simulation. All values are clamped
// to [0,10] before use so a corrupted store cannot produce runaway swings.
type HealthRules struct {
	DecayPer6h        int `json:"decay_per_6h"`
	RecoverPer12h     int `json:"recover_per_12h"`
	DecayMultiplier   int `json:"decay_multiplier"`
	RecoverMultiplier int `json:"recover_multiplier"`
}

// DefaultHealthRules returns the stock tuning.
func DefaultHealthRules() HealthRules {
	return HealthRules{
		DecayPer6h:        5,
		RecoverPer12h:     1,
		DecayMultiplier:   1,
		RecoverMultiplier: 1,
	}
}

// Normalized clamps every tuning value into [0,10].
func (r HealthRules) Normalized() HealthRules {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > 10 {
			return 10
		}
		return v
	}
	return HealthRules{
		DecayPer6h:        clamp(r.DecayPer6h),
		RecoverPer12h:     clamp(r.RecoverPer12h),
		DecayMultiplier:   clamp(r.DecayMultiplier),
		RecoverMultiplier: clamp(r.RecoverMultiplier),
	}
}

// ClampHealth bounds a health value into [0,100].
func ClampHealth(h int) int {
	if h < 0 {
		return 0
	}
	if h > 100 {
		return 100
	}
	return h
}

// HealthStatusFor derives the status band for a health value. Zero health
// is always deceased; the death settlement relies on that.
func HealthStatusFor(health int) string {
	switch {
	case health <= 0:
		return world.HealthDeceased
	case health < 30:
		return world.HealthCritical
	case health < 60:
		return world.HealthInjured
	case health < 80:
		return world.HealthStrained
	default:
		return world.HealthHealthy
	}
}

// NoChangeReason is the reason text written when an offstage interval was
// too short to move health at all.
const NoChangeReason = "0, no change"

// OffstageAdjustment computes the health drift for a character who spent
// the given hours offstage. Sheltered characters recover per 12h block,
// exposed characters decay per 6h block. Partial blocks do nothing.
func OffstageAdjustment(sheltered bool, hours int, r HealthRules) (delta int, reason string) {
	r = r.Normalized()
	if hours <= 0 {
		return 0, NoChangeReason
	}
	if sheltered {
		delta = r.RecoverPer12h * (hours / 12) * r.RecoverMultiplier
	} else {
		delta = -r.DecayPer6h * (hours / 6) * r.DecayMultiplier
	}
	return delta, AdjustmentReason(delta, sheltered)
}

// AdjustmentReason renders the reason text for a health delta that was
// actually applied. Callers clamp first and pass the post-clamp delta so
// the text never overstates the change.
func AdjustmentReason(delta int, sheltered bool) string {
	if delta == 0 {
		return NoChangeReason
	}
	if sheltered {
		return fmt.Sprintf("+%d, sheltered recovery", delta)
	}
	return fmt.Sprintf("%d, exposed decay", delta)
}
