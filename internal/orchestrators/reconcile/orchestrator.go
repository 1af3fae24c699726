// Package reconcile implements the structural first-phase repairs that run
// right after the narrator commits a turn: temp-character merging, stage
// sanitation, room/location consistency, and the midnight clock patch.
// Everything here is pure document surgery; no stores are touched.
package reconcile

//go:generate mockgen -destination=mock/mock_service.go -package=reconcilemock github.com/frostline-games/worldstate/internal/orchestrators/reconcile Service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/rules"
)

// Service defines the first-phase reconciliation operations, in the order
// the pipeline runs them.
type Service interface {
	MergeCharacters(ctx context.Context, input *MergeCharactersInput) (*MergeCharactersOutput, error)
	SanitizeStages(ctx context.Context, input *SanitizeStagesInput) (*SanitizeStagesOutput, error)
	ReconcileRooms(ctx context.Context, input *ReconcileRoomsInput) (*ReconcileRoomsOutput, error)
	AdjustClock(ctx context.Context, input *AdjustClockInput) (*AdjustClockOutput, error)
}

// Config holds the dependencies for the reconcile orchestrator
type Config struct {
	Logger *slog.Logger
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	return nil
}

type orchestrator struct {
	log *slog.Logger
}

// NewOrchestrator creates a new reconcile orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &orchestrator{log: log}, nil
}

// Ensure orchestrator implements Service
var _ Service = (*orchestrator)(nil)

// MergeCharacters folds temporary character entries whose name already
// exists in the core roster into the core record. The core record keeps
// every field it already has; the temp entry only fills blanks. Merged
// temp entries are removed so a name lives in exactly one map.
func (o *orchestrator) MergeCharacters(ctx context.Context, input *MergeCharactersInput) (*MergeCharactersOutput, error) {
	if input == nil || input.Doc == nil {
		return nil, errors.InvalidArgument("document is required")
	}
	doc := input.Doc

	var merged []string
	for name, tmp := range doc.TempCharacters {
		core, ok := doc.Characters[name]
		if !ok {
			continue
		}
		core.MergeFrom(tmp)
		delete(doc.TempCharacters, name)
		merged = append(merged, name)
	}
	sort.Strings(merged)

	if len(merged) > 0 {
		o.log.Info("merged duplicate temp characters", "names", merged)
	}
	return &MergeCharactersOutput{Merged: merged}, nil
}

// AdjustClock patches a missed midnight rollover: when the narrator moved
// the clock backwards (23:40 to 01:10) but kept the same date, the date
// and the day counter advance by one. Explicit narrator date changes are
// always trusted.
func (o *orchestrator) AdjustClock(ctx context.Context, input *AdjustClockInput) (*AdjustClockOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	doc, before := input.Doc, input.Before

	if doc.World.Date != before.World.Date || doc.World.Time == before.World.Time {
		return &AdjustClockOutput{}, nil
	}
	oldMin, okOld := rules.ClockMinutes(before.World.Time)
	newMin, okNew := rules.ClockMinutes(doc.World.Time)
	if !okOld || !okNew || newMin >= oldMin {
		return &AdjustClockOutput{}, nil
	}
	next, ok := rules.AddDays(doc.World.Date, 1)
	if !ok {
		return &AdjustClockOutput{}, nil
	}

	doc.World.Date = next
	doc.World.Day++
	o.log.Info("patched midnight rollover",
		"date", next, "time", doc.World.Time, "day", doc.World.Day)
	return &AdjustClockOutput{Adjusted: true, NewDate: next}, nil
}

// knownNames returns the set of tracked character names across both maps.
func knownNames(doc *world.Document) map[string]bool {
	known := make(map[string]bool, len(doc.Characters)+len(doc.TempCharacters))
	for name := range doc.Characters {
		known[name] = true
	}
	for name := range doc.TempCharacters {
		known[name] = true
	}
	return known
}
