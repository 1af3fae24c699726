package settle_test

import (
	"time"

	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
	"github.com/frostline-games/worldstate/internal/repositories/session"
)

func (s *SettleTestSuite) TestDailyRollSeedsFromLegacyDisplay() {
	doc := settleDocument()
	doc.Shelter.DailyRoll = "2037-01-15: rolled 4, no upgrade"
	doc.Shelter.DaysSinceUpgrade = 3
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// The legacy text dates today's roll as already thrown; nothing settles.
	s.Assert().True(out.Seeded)
	s.Assert().False(out.Settled)
	s.Assert().Equal(0, s.roller.calls)

	state := s.upgradeState("sess-1")
	s.Assert().Equal("2037-01-15", state.LastRollDate)
	s.Assert().Equal(3, state.DaysSinceUpgrade)
}

func (s *SettleTestSuite) TestDailyRollSettlesOnFreshDocument() {
	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// No legacy text: the seed dates the last roll yesterday, so today
	// settles immediately.
	s.Assert().True(out.Seeded)
	s.Assert().True(out.Settled)
	s.Require().NotNil(out.Roll)
	s.Assert().Equal(3, *out.Roll)
	s.Assert().False(out.Upgraded)
	s.Assert().Equal(2, out.Level)
	s.Assert().Equal("2037-01-15: rolled 3, no upgrade", doc.Shelter.DailyRoll)
	s.Assert().Equal(1, doc.Shelter.DaysSinceUpgrade)

	state := s.upgradeState("sess-1")
	s.Assert().Equal("2037-01-15", state.LastRollDate)
	s.Require().Contains(state.RollHistory, "2037-01-15")
	s.Assert().Equal(session.RollSourceAuto, state.RollHistory["2037-01-15"].Source)
	s.Assert().Equal(5, state.LastSettledTurn)
}

func (s *SettleTestSuite) TestDailyRollUpgradeOnSeven() {
	s.roller.values = []int{7}
	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Upgraded)
	s.Assert().Equal(3, out.Level)
	s.Assert().Equal(3, doc.Shelter.Level)
	s.Assert().Equal("2037-01-15: rolled 7, upgrade", doc.Shelter.DailyRoll)
	s.Assert().Equal(0, doc.Shelter.DaysSinceUpgrade)
	// Level 3 opens the medical wing.
	s.Assert().True(doc.Shelter.Wings.MedicalWing)
	s.Assert().Contains(doc.Shelter.Abilities, "Medical Wing")

	state := s.upgradeState("sess-1")
	s.Assert().Equal(session.RollReasonNormal, state.RollHistory["2037-01-15"].Reason)
}

func (s *SettleTestSuite) TestDailyRollLuckyOnTen() {
	s.roller.values = []int{10}
	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Upgraded)
	s.Assert().Equal("2037-01-15: rolled 10, upgrade (lucky)", doc.Shelter.DailyRoll)

	state := s.upgradeState("sess-1")
	s.Assert().Equal(session.RollReasonLucky, state.RollHistory["2037-01-15"].Reason)
}

func (s *SettleTestSuite) TestDailyRollGuaranteeSkipsDie() {
	_, err := s.repo.SetUpgradeState(s.ctx, session.SetUpgradeStateInput{
		SessionID: "sess-1",
		State: &session.UpgradeState{
			LastRollDate:     "2037-01-14",
			DaysSinceUpgrade: settle.GuaranteeDays,
		},
	})
	s.Require().NoError(err)

	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 9, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Settled)
	s.Assert().True(out.Upgraded)
	s.Assert().Nil(out.Roll)
	s.Assert().Equal(0, s.roller.calls)
	s.Assert().Equal(3, doc.Shelter.Level)
	s.Assert().Equal("2037-01-15: guaranteed upgrade (7-day pity)", doc.Shelter.DailyRoll)

	state := s.upgradeState("sess-1")
	s.Assert().Equal(session.RollReasonGuarantee, state.RollHistory["2037-01-15"].Reason)
	s.Assert().Equal(0, state.DaysSinceUpgrade)
}

func (s *SettleTestSuite) TestDailyRollSameDateIsIdempotent() {
	doc := settleDocument()
	before := doc.Clone()

	first, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Require().True(first.Settled)

	// Replay the same turn.
	second, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 6, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)

	s.Assert().False(second.Settled)
	s.Assert().Equal(1, s.roller.calls)
	s.Assert().Equal(first.Level, second.Level)
}

func (s *SettleTestSuite) TestDailyRollManualRequestPrecedence() {
	// Today is already the last roll date, so only the manual request can
	// trigger a settlement.
	_, err := s.repo.SetUpgradeState(s.ctx, session.SetUpgradeStateInput{
		SessionID: "sess-1",
		State: &session.UpgradeState{
			LastRollDate:  "2037-01-15",
			ManualRequest: &session.ManualRollRequest{ID: "req-1", TurnID: 4, Date: "2037-01-15"},
		},
	})
	s.Require().NoError(err)

	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Settled)

	state := s.upgradeState("sess-1")
	s.Assert().Nil(state.ManualRequest)
	s.Assert().Equal(session.RollSourceManual, state.RollHistory["2037-01-15"].Source)
}

func (s *SettleTestSuite) TestDailyRollConsumesManualRequestOnSettledDate() {
	// Today is already in the ledger, so the request has nothing to do.
	roll := 3
	_, err := s.repo.SetUpgradeState(s.ctx, session.SetUpgradeStateInput{
		SessionID: "sess-1",
		State: &session.UpgradeState{
			LastRollDate: "2037-01-15",
			RollHistory: map[string]*session.RollRecord{
				"2037-01-15": {Roll: &roll, Reason: session.RollReasonNone, Source: session.RollSourceAuto},
			},
			ManualRequest:   &session.ManualRollRequest{ID: "req-1", TurnID: 4, Date: "2037-01-15"},
			LastSettledTurn: 4,
		},
	})
	s.Require().NoError(err)

	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().False(out.Settled)

	state := s.upgradeState("sess-1")
	s.Assert().Nil(state.ManualRequest)
	s.Assert().Equal(4, state.LastSettledTurn)

	// The next day's settlement is the automatic path, not a late manual.
	doc.World.Date = "2037-01-16"
	out, err = s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 6, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().True(out.Settled)

	state = s.upgradeState("sess-1")
	s.Require().Contains(state.RollHistory, "2037-01-16")
	s.Assert().Equal(session.RollSourceAuto, state.RollHistory["2037-01-16"].Source)
	s.Assert().Equal("date-advance", state.RollHistory["2037-01-16"].Trigger)
}

func (s *SettleTestSuite) TestDailyRollManualRequestForOtherDateNotHonored() {
	_, err := s.repo.SetUpgradeState(s.ctx, session.SetUpgradeStateInput{
		SessionID: "sess-1",
		State: &session.UpgradeState{
			LastRollDate:  "2037-01-14",
			ManualRequest: &session.ManualRollRequest{ID: "req-1", TurnID: 2, Date: "2037-01-14"},
		},
	})
	s.Require().NoError(err)

	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().True(out.Settled)

	// The date advance settles; the request filed for an older date does
	// not get to claim it.
	state := s.upgradeState("sess-1")
	s.Require().Contains(state.RollHistory, "2037-01-15")
	s.Assert().Equal(session.RollSourceAuto, state.RollHistory["2037-01-15"].Source)
	s.Assert().Equal("date-advance", state.RollHistory["2037-01-15"].Trigger)
	s.Assert().Nil(state.ManualRequest)
}

func (s *SettleTestSuite) TestDailyRollRewritesTamperedDisplay() {
	doc := settleDocument()
	before := doc.Clone()

	_, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	rendered := doc.Shelter.DailyRoll

	// Narrator rewrites the roll text; the replay restores it.
	doc.Shelter.DailyRoll = "2037-01-15: rolled 10, upgrade (lucky)"
	_, err = s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 6, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)

	s.Assert().Equal(rendered, doc.Shelter.DailyRoll)
}

func (s *SettleTestSuite) TestDailyRollCorrectsNarratorDowngrade() {
	doc := settleDocument()
	doc.Shelter.Level = 4
	before := doc.Clone()
	doc.Shelter.Level = 2

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(4, out.Level)
	s.Assert().Equal(4, doc.Shelter.Level)
}

func (s *SettleTestSuite) TestDailyRollNarratorRaiseAbsorbsUpgrade() {
	s.roller.values = []int{7}
	doc := settleDocument()
	before := doc.Clone()
	doc.Shelter.Level = 3

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// The narrator already raised the level; the rolled upgrade does not
	// stack on top of it.
	s.Assert().True(out.Upgraded)
	s.Assert().Equal(3, doc.Shelter.Level)
}

func (s *SettleTestSuite) TestDailyRollSkipsUnparseableDate() {
	doc := settleDocument()
	doc.World.Date = "deep winter"
	before := doc.Clone()

	out, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().False(out.Settled)
	s.Assert().False(out.Seeded)
	s.Assert().Equal(0, s.roller.calls)
}

func (s *SettleTestSuite) TestDailyRollStampsLedgerTimestamp() {
	doc := settleDocument()
	before := doc.Clone()

	_, err := s.svc.SettleDailyRoll(s.ctx, &settle.SettleDailyRollInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	state := s.upgradeState("sess-1")
	record := state.RollHistory["2037-01-15"]
	s.Require().NotNil(record)
	s.Assert().Equal(s.clock.now, record.Timestamp.In(time.UTC))
	s.Assert().NotEmpty(record.EventID)
	s.Assert().Equal(record.EventID, state.LastEventID)
}
