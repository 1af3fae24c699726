package reconcile

import (
	"context"
	"sort"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
)

// SanitizeStages repairs stage flags the narrator forgot to update:
//
//   - An offstage character whose inner thoughts changed is clearly in the
//     scene; they move onstage.
//   - An offstage character with any other non-health edit likewise moves
//     onstage. Health and its reason are exempt because the offstage
//     simulator writes those itself.
//   - An onstage character whose record is completely untouched since last
//     turn has dropped out of the scene; they move offstage.
//
// A stage the narrator changed explicitly this turn is always trusted and
// never overridden.
func (o *orchestrator) SanitizeStages(ctx context.Context, input *SanitizeStagesInput) (*SanitizeStagesOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	doc, before := input.Doc, input.Before

	out := &SanitizeStagesOutput{}
	for _, name := range doc.CharacterNames() {
		ch := doc.Character(name)
		prev := before.Character(name)
		if ch == nil || prev == nil || ch.Dead() {
			continue
		}
		if ch.Stage != prev.Stage {
			// Narrator moved them on purpose.
			continue
		}

		switch ch.Stage {
		case world.StageOffstage:
			if ch.InnerThoughts != prev.InnerThoughts || nonHealthChanged(prev, ch) {
				ch.Stage = world.StageOnstage
				out.MovedOnstage = append(out.MovedOnstage, name)
			}
		case world.StageOnstage:
			if *ch == *prev {
				ch.Stage = world.StageOffstage
				out.MovedOffstage = append(out.MovedOffstage, name)
			}
		}
	}
	sort.Strings(out.MovedOnstage)
	sort.Strings(out.MovedOffstage)

	if len(out.MovedOnstage) > 0 || len(out.MovedOffstage) > 0 {
		o.log.Info("sanitized stages",
			"onstage", out.MovedOnstage, "offstage", out.MovedOffstage)
	}
	return out, nil
}

// nonHealthChanged reports whether any field other than health, its reason,
// its derived status, or the stage itself differs between the two records.
func nonHealthChanged(prev, cur *world.Character) bool {
	a, b := *prev, *cur
	a.Health, b.Health = 0, 0
	a.HealthReason, b.HealthReason = "", ""
	a.HealthStatus, b.HealthStatus = "", ""
	a.Stage, b.Stage = "", ""
	return a != b
}
