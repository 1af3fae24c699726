package reconcile

import (
	"github.com/frostline-games/worldstate/internal/entities/world"
)

// MergeCharactersInput asks for temporary character entries to be folded
// into the core roster. Doc is mutated in place.
type MergeCharactersInput struct {
	Doc *world.Document
}

// MergeCharactersOutput reports which names were merged away.
type MergeCharactersOutput struct {
	Merged []string
}

// SanitizeStagesInput asks for stage flags to be repaired against the
// before-snapshot. Doc is mutated in place; Before is never written.
type SanitizeStagesInput struct {
	Doc    *world.Document
	Before *world.Document
}

// SanitizeStagesOutput reports the stage corrections that were applied.
type SanitizeStagesOutput struct {
	MovedOnstage  []string
	MovedOffstage []string
}

// ReconcileRoomsInput asks for location tags and occupant lists to be made
// consistent. Doc is mutated in place; Before is never written.
type ReconcileRoomsInput struct {
	Doc    *world.Document
	Before *world.Document
}

// LocationChange records one character's final location decision.
type LocationChange struct {
	Name       string
	Tag        string
	Resolution world.Resolution
}

// ReconcileRoomsOutput reports every location decision made.
type ReconcileRoomsOutput struct {
	Changes []LocationChange
}

// AdjustClockInput asks for the world clock to be repaired against the
// before-snapshot. Doc is mutated in place; Before is never written.
type AdjustClockInput struct {
	Doc    *world.Document
	Before *world.Document
}

// AdjustClockOutput reports whether a midnight rollover was patched in.
type AdjustClockOutput struct {
	Adjusted bool
	NewDate  string
}
