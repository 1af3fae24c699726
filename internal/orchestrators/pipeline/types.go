package pipeline

import (
	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/orchestrators/reconcile"
	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
)

// RunInput is one committed turn to reconcile. Doc is the document as the
// narrator left it and is repaired in place. Before is the document as it
// stood when the previous turn settled; the pipeline deep-copies it before
// any phase runs.
type RunInput struct {
	SessionID string
	TurnID    int
	Doc       *world.Document
	Before    *world.Document
}

// PhaseError records one phase that failed or panicked. The turn still
// settles; the failed phase's work is simply missing from it.
type PhaseError struct {
	Phase string
	Err   error
}

// RunOutput summarizes everything the transaction did.
type RunOutput struct {
	// Skipped is true when a retired instance declined the turn.
	Skipped bool

	// First phase.
	Merged          []string
	MovedOnstage    []string
	MovedOffstage   []string
	LocationChanges []reconcile.LocationChange
	ClockAdjusted   bool

	// Last phase.
	DailyRoll       *settle.SettleDailyRollOutput
	Scope           map[string][]string
	Simulated       []settle.HealthChange
	Deaths          []string
	MissionStage    string
	MissionAdvanced bool

	PhaseErrors []PhaseError
}
