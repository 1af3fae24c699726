package settle

import (
	"context"
	"fmt"
	"regexp"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
	"github.com/frostline-games/worldstate/internal/repositories/session"
	"github.com/frostline-games/worldstate/internal/rules"
)

const (
	// MaxShelterLevel caps the shelter progression.
	MaxShelterLevel = 10

	// GuaranteeDays is the pity threshold: after this many settled days
	// without an upgrade, the next roll upgrades unconditionally.
	GuaranteeDays = 7

	// historyRetention is how many dated ledger entries are kept.
	historyRetention = 120
)

// Upgrade happens on a natural 7 or 10.
func upgradeReason(roll int) string {
	switch roll {
	case 10:
		return session.RollReasonLucky
	case 7:
		return session.RollReasonNormal
	default:
		return session.RollReasonNone
	}
}

var legacyDateRe = regexp.MustCompile(`\d{4}-\d{1,2}-\d{1,2}`)

// SettleDailyRoll settles the daily progression roll against the durable
// ledger. The ledger is the source of truth: the document's display fields
// are rewritten from it every turn and narrator edits to them are ignored.
//
// A roll settles when the world date advanced past the last settled date,
// or when the narrator filed a manual request; manual wins. At most one
// entry exists per world date, so replaying a turn is a no-op. Once the
// pity counter reaches GuaranteeDays the roll is skipped entirely and the
// upgrade is unconditional.
func (o *orchestrator) SettleDailyRoll(ctx context.Context, input *SettleDailyRollInput) (*SettleDailyRollOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID is required")
	}
	doc, before := input.Doc, input.Before

	state, err := o.loadUpgradeState(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}

	out := &SettleDailyRollOutput{Level: doc.Shelter.Level}

	today := doc.World.Date
	if _, ok := rules.DateNumber(today); !ok {
		o.log.Warn("world date unparseable, daily roll skipped",
			"session_id", input.SessionID, "date", today)
		return out, nil
	}

	// First contact with a legacy document: adopt its display fields as
	// ledger state without throwing a roll.
	if state.LastRollDate == "" {
		o.seedState(state, doc, today)
		out.Seeded = true
		if err := o.saveUpgradeState(ctx, input.SessionID, state, input.TurnID); err != nil {
			return nil, err
		}
	}

	// A ledger entry for today means this date is already settled; only
	// the display fields get rewritten (undoing narrator tampering). A
	// pending manual request is consumed here too, so a replayed turn
	// cannot relabel the next date's automatic settlement as manual.
	if record, ok := state.RollHistory[today]; ok {
		o.rewriteDisplay(doc, state, today, record)
		out.Level = doc.Shelter.Level
		if state.ManualRequest != nil {
			state.ManualRequest = nil
			o.log.Info("manual roll request dropped, date already settled",
				"session_id", input.SessionID, "date", today)
			if err := o.saveUpgradeState(ctx, input.SessionID, state, state.LastSettledTurn); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	// A manual request only fires on the date it was filed for; a request
	// without a date fires whenever it is seen.
	manual := state.ManualRequest != nil &&
		(state.ManualRequest.Date == "" || state.ManualRequest.Date == today)
	lastNum, _ := rules.DateNumber(state.LastRollDate)
	todayNum, _ := rules.DateNumber(today)
	if !manual && todayNum <= lastNum {
		// Nothing to settle; keep the display honest anyway.
		if record, ok := state.RollHistory[state.LastRollDate]; ok {
			o.rewriteDisplay(doc, state, state.LastRollDate, record)
		}
		return out, nil
	}

	// Throw the die, or skip it on a guarantee day.
	record := &session.RollRecord{
		Source:    session.RollSourceAuto,
		Timestamp: o.clock.Now(),
		EventID:   o.idGen.Generate(),
		TurnID:    input.TurnID,
		Trigger:   "date-advance",
	}
	if manual {
		record.Source = session.RollSourceManual
		record.Trigger = "manual-request"
	}

	if state.DaysSinceUpgrade >= GuaranteeDays {
		record.Upgraded = true
		record.Reason = session.RollReasonGuarantee
	} else {
		value, desc, err := o.roller.RollProgress()
		if err != nil {
			return nil, errors.Wrap(err, "progress roll failed")
		}
		record.Roll = &value
		record.Reason = upgradeReason(value)
		record.Upgraded = record.Reason != session.RollReasonNone
		o.log.Info("daily progress roll",
			"session_id", input.SessionID, "date", today, "roll", value, "detail", desc)
	}

	// Ledger first: the record must be durable before any document field
	// moves, so a failed write never leaves a phantom upgrade.
	if state.RollHistory == nil {
		state.RollHistory = make(map[string]*session.RollRecord)
	}
	state.RollHistory[today] = record
	state.LastRollDate = today
	if record.Upgraded {
		state.DaysSinceUpgrade = 0
	} else {
		state.DaysSinceUpgrade++
	}
	state.ManualRequest = nil
	state.LastEventID = record.EventID
	state.PruneHistory(historyRetention)
	if err := o.saveUpgradeState(ctx, input.SessionID, state, input.TurnID); err != nil {
		return nil, err
	}

	// Now the document. Level downgrades by the narrator are corrected;
	// a narrator-raised level absorbs the upgrade instead of stacking.
	baseline := doc.Shelter.Level
	if before.Shelter.Level > baseline {
		o.log.Warn("narrator lowered shelter level, corrected",
			"session_id", input.SessionID,
			"written", doc.Shelter.Level, "kept", before.Shelter.Level)
		baseline = before.Shelter.Level
	}
	level := baseline
	if record.Upgraded && baseline < MaxShelterLevel && doc.Shelter.Level <= before.Shelter.Level {
		level = baseline + 1
	}
	if level < 1 {
		level = 1
	}
	doc.Shelter.Level = level

	dedupeAbilities(&doc.Shelter)
	if level > baseline || record.Upgraded {
		grantLevelRewards(&doc.Shelter, level)
	}
	syncWings(&doc.Shelter, level)
	o.rewriteDisplay(doc, state, today, record)

	out.Settled = true
	out.Roll = record.Roll
	out.Upgraded = record.Upgraded
	out.Level = level
	return out, nil
}

// seedState bootstraps the ledger from a document that predates it. The
// legacy display text dates the last roll; without one, yesterday is
// assumed so today's roll still settles.
func (o *orchestrator) seedState(state *session.UpgradeState, doc *world.Document, today string) {
	seedDate := legacyDateRe.FindString(doc.Shelter.DailyRoll)
	if _, ok := rules.DateNumber(seedDate); !ok {
		if yesterday, ok := rules.AddDays(today, -1); ok {
			seedDate = yesterday
		} else {
			seedDate = today
		}
	}
	state.LastRollDate = seedDate
	if doc.Shelter.DaysSinceUpgrade > 0 {
		state.DaysSinceUpgrade = doc.Shelter.DaysSinceUpgrade
	}
	o.log.Info("seeded upgrade ledger from legacy document",
		"last_roll_date", seedDate, "days_since_upgrade", state.DaysSinceUpgrade)
}

// rewriteDisplay regenerates the narrator-visible roll text from the
// ledger. A mismatch means the narrator edited the text; the edit is
// logged and thrown away.
func (o *orchestrator) rewriteDisplay(doc *world.Document, state *session.UpgradeState, date string, record *session.RollRecord) {
	text := renderRollText(date, record)
	if doc.Shelter.DailyRoll != "" && doc.Shelter.DailyRoll != text {
		o.log.Warn("narrator edited roll text, ignored",
			"written", doc.Shelter.DailyRoll, "ledger", text)
	}
	doc.Shelter.DailyRoll = text
	doc.Shelter.DaysSinceUpgrade = state.DaysSinceUpgrade
}

// renderRollText formats one ledger entry for the narrator to read out.
func renderRollText(date string, record *session.RollRecord) string {
	if record == nil {
		return ""
	}
	if record.Reason == session.RollReasonGuarantee {
		return fmt.Sprintf("%s: guaranteed upgrade (%d-day pity)", date, GuaranteeDays)
	}
	roll := 0
	if record.Roll != nil {
		roll = *record.Roll
	}
	switch record.Reason {
	case session.RollReasonLucky:
		return fmt.Sprintf("%s: rolled %d, upgrade (lucky)", date, roll)
	case session.RollReasonNormal:
		return fmt.Sprintf("%s: rolled %d, upgrade", date, roll)
	default:
		return fmt.Sprintf("%s: rolled %d, no upgrade", date, roll)
	}
}

func (o *orchestrator) loadUpgradeState(ctx context.Context, sessionID string) (*session.UpgradeState, error) {
	out, err := o.sessionRepo.GetUpgradeState(ctx, session.GetUpgradeStateInput{SessionID: sessionID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &session.UpgradeState{}, nil
		}
		return nil, errors.Wrap(err, "failed to load upgrade state")
	}
	return out.State, nil
}

func (o *orchestrator) saveUpgradeState(ctx context.Context, sessionID string, state *session.UpgradeState, turnID int) error {
	state.LastSettledTurn = turnID
	if _, err := o.sessionRepo.SetUpgradeState(ctx, session.SetUpgradeStateInput{
		SessionID: sessionID,
		State:     state,
	}); err != nil {
		return errors.Wrap(err, "failed to store upgrade state")
	}
	return nil
}
