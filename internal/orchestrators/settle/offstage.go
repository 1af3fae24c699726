package settle

import (
	"context"
	"sort"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/rules"
)

// Death reason texts written when the settlement kills a character.
const (
	deathReasonStanding = "death (standing collapse)"
	deathReasonHealth   = "death (health depleted)"
)

// SettleOffstage runs the offstage bundle over every tracked character:
//
//  1. Offstage health drift. Characters offstage for the whole interval
//     recover while sheltered and decay while exposed. Skipped whenever
//     the narrator touched the character's health this turn.
//  2. Standing collapse. A standing below zero is lethal: health drops to
//     zero and the record is closed out. The negative standing is kept as
//     the tombstone.
//  3. Health depletion. Zero health closes the record out the same way.
//  4. Relationship tier derivation from standing, unless the narrator
//     rewrote the tier this turn.
//  5. Health status band derivation, always.
func (o *orchestrator) SettleOffstage(ctx context.Context, input *SettleOffstageInput) (*SettleOffstageOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	doc, before := input.Doc, input.Before

	scope, err := o.loadScope(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	healthRules, err := o.loadHealthRules(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	hours := o.elapsedHours(doc, before)
	out := &SettleOffstageOutput{}

	for _, name := range doc.CharacterNames() {
		ch := doc.Character(name)
		prev := before.Character(name)

		if change := o.simulateHealth(ch, prev, hours, scope, healthRules); change != nil {
			out.Simulated = append(out.Simulated, *change)
		}

		wasDead := prev != nil && prev.Dead()
		if !wasDead && o.settleDeath(ch) {
			out.Deaths = append(out.Deaths, name)
		}

		if !ch.Dead() {
			// A brand-new character has no before-tier to compare
			// against, so derivation always runs for them.
			if prev == nil || ch.Relationship == prev.Relationship {
				ch.Relationship = rules.RelationTierFor(ch.Standing)
			}
		}

		ch.Health = rules.ClampHealth(ch.Health)
		ch.HealthStatus = rules.HealthStatusFor(ch.Health)
	}
	sort.Strings(out.Deaths)

	if len(out.Deaths) > 0 {
		o.log.Info("settled deaths", "session_id", input.SessionID, "names", out.Deaths)
	}
	return out, nil
}

// elapsedHours computes the offstage interval from the world clock, with
// the day counter as fallback when the narrator mangled the date strings.
func (o *orchestrator) elapsedHours(doc, before *world.Document) int {
	if hours, ok := rules.ElapsedHours(
		before.World.Date, before.World.Time,
		doc.World.Date, doc.World.Time,
	); ok {
		return hours
	}
	if days := doc.World.Day - before.World.Day; days > 0 {
		return days * 24
	}
	return 0
}

// simulateHealth applies offstage drift to one character, or returns nil
// when the character is exempt.
func (o *orchestrator) simulateHealth(ch, prev *world.Character, hours int, scope map[string][]string, hr rules.HealthRules) *HealthChange {
	if ch == nil || prev == nil || hours <= 0 {
		return nil
	}
	if ch.Stage != world.StageOffstage || prev.Stage != world.StageOffstage {
		return nil
	}
	if prev.Dead() || prev.Health <= 0 {
		return nil
	}
	// Narrator edits to health win over the simulation. A rewritten
	// reason that still reads as the no-op text does not count.
	if ch.Health != prev.Health {
		return nil
	}
	if ch.HealthReason != prev.HealthReason && ch.HealthReason != rules.NoChangeReason {
		return nil
	}

	sheltered := rules.Sheltered(world.ParseTag(ch.Location), scope)
	delta, _ := rules.OffstageAdjustment(sheltered, hours, hr)
	// Re-derive the delta after clamping so the reason text reports what
	// actually moved, not what the formula wanted.
	next := rules.ClampHealth(prev.Health + delta)
	applied := next - prev.Health
	ch.Health = next
	ch.HealthReason = rules.AdjustmentReason(applied, sheltered)

	return &HealthChange{Name: ch.GetID(), Delta: applied, Reason: ch.HealthReason, Sheltered: sheltered}
}

// settleDeath closes out a character record when standing or health has
// reached a lethal value. Returns true when the character died this turn.
func (o *orchestrator) settleDeath(ch *world.Character) bool {
	if ch == nil {
		return false
	}

	if ch.Standing < 0 {
		ch.Health = 0
		ch.HealthReason = deathReasonStanding
		ch.HealthStatus = world.HealthDeceased
		ch.Stage = world.StageOffstage
		ch.ClearNarrative()
		// The negative standing stays; it is the record of why they died.
		ch.StandingReason = ""
		return true
	}

	// Zero health closes the record out even when the narrator already
	// wrote the deceased status; the caller's before-snapshot check keeps
	// old deaths from re-settling.
	if ch.Health <= 0 {
		ch.Health = 0
		if ch.HealthReason == "" {
			ch.HealthReason = deathReasonHealth
		}
		ch.HealthStatus = world.HealthDeceased
		ch.Stage = world.StageOffstage
		ch.ClearNarrative()
		ch.Standing = 0
		ch.StandingReason = ""
		return true
	}

	return false
}
