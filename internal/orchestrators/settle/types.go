package settle

import (
	"github.com/frostline-games/worldstate/internal/entities/world"
)

// SettleDailyRollInput asks for the daily progression roll to be settled.
// Doc is mutated in place; Before is never written.
type SettleDailyRollInput struct {
	SessionID string
	TurnID    int
	Doc       *world.Document
	Before    *world.Document
}

// SettleDailyRollOutput reports what the settlement did.
type SettleDailyRollOutput struct {
	// Settled is true when a new ledger entry was recorded this turn.
	Settled bool
	// Seeded is true when the ledger was bootstrapped from the document's
	// legacy display fields.
	Seeded bool
	// Roll is the die value, when one was thrown.
	Roll *int
	// Upgraded is true when the shelter leveled up.
	Upgraded bool
	// Level is the shelter level after settlement.
	Level int
}

// ApplyScopeDeltaInput asks for the narrator's scope delta to be consumed.
// Doc is mutated in place.
type ApplyScopeDeltaInput struct {
	SessionID string
	Doc       *world.Document
}

// ApplyScopeDeltaOutput carries the scope after the delta was folded in.
type ApplyScopeDeltaOutput struct {
	Scope   map[string][]string
	Applied bool
}

// SettleOffstageInput asks for the offstage bundle to run: health drift,
// deaths, relationship tiers, and status bands. Doc is mutated in place;
// Before is never written.
type SettleOffstageInput struct {
	SessionID string
	Doc       *world.Document
	Before    *world.Document
}

// HealthChange records one character's simulated health drift.
type HealthChange struct {
	Name      string
	Delta     int
	Reason    string
	Sheltered bool
}

// SettleOffstageOutput reports the settlement results.
type SettleOffstageOutput struct {
	Simulated []HealthChange
	Deaths    []string
}

// SettleMissionInput asks for the mission stage machine to run. Doc is
// mutated in place; Before is never written.
type SettleMissionInput struct {
	SessionID string
	TurnID    int
	Doc       *world.Document
	Before    *world.Document
}

// SettleMissionOutput reports the stage machine's decisions.
type SettleMissionOutput struct {
	// Initialized is true when the mission block was seeded from scratch.
	Initialized bool
	// Advanced is true when the stage advanced this turn.
	Advanced bool
	// Stage is the stage name after settlement.
	Stage string
	// RemovedIntel lists intel keys cleaned up as stale.
	RemovedIntel []string
}
