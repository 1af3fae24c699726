package settle_test

import (
	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
	"github.com/frostline-games/worldstate/internal/repositories/session"
)

// offstageDocument returns a before/after pair one day apart with a single
// offstage character at the given location.
func offstageDocument(location string, health int) (doc, before *world.Document) {
	doc = settleDocument()
	doc.Characters["Tomas"] = &world.Character{
		Name:     "Tomas",
		Health:   health,
		Standing: 45,
		Stage:    world.StageOffstage,
		Location: location,
	}
	before = doc.Clone()
	doc.World.Date = "2037-01-16"
	return doc, before
}

func (s *SettleTestSuite) TestOffstageExposedDecay() {
	doc, before := offstageDocument("outdoor/street", 60)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().Equal(-20, out.Simulated[0].Delta)
	s.Assert().False(out.Simulated[0].Sheltered)
	s.Assert().Equal(40, doc.Characters["Tomas"].Health)
	s.Assert().Equal("-20, exposed decay", doc.Characters["Tomas"].HealthReason)
	s.Assert().Equal(world.HealthInjured, doc.Characters["Tomas"].HealthStatus)
}

func (s *SettleTestSuite) TestOffstageShelteredRecovery() {
	doc, before := offstageDocument("core/master-bedroom", 60)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().Equal(2, out.Simulated[0].Delta)
	s.Assert().True(out.Simulated[0].Sheltered)
	s.Assert().Equal(62, doc.Characters["Tomas"].Health)
	s.Assert().Equal("+2, sheltered recovery", doc.Characters["Tomas"].HealthReason)
}

func (s *SettleTestSuite) TestOffstageAnnexedRoomCountsAsSheltered() {
	_, err := s.repo.SetScope(s.ctx, session.SetScopeInput{
		SessionID: "sess-1",
		Scope:     map[string][]string{"20": {"2004"}},
	})
	s.Require().NoError(err)

	doc, before := offstageDocument("floor20/2004", 60)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().True(out.Simulated[0].Sheltered)
}

func (s *SettleTestSuite) TestOffstageOutOfScopeRoomDecays() {
	doc, before := offstageDocument("floor20/2004", 60)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().False(out.Simulated[0].Sheltered)
}

func (s *SettleTestSuite) TestOffstageSkipsNarratorHealthEdit() {
	doc, before := offstageDocument("outdoor/street", 60)
	doc.Characters["Tomas"].Health = 75
	doc.Characters["Tomas"].HealthReason = "patched up by Mara"

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Empty(out.Simulated)
	s.Assert().Equal(75, doc.Characters["Tomas"].Health)
	s.Assert().Equal("patched up by Mara", doc.Characters["Tomas"].HealthReason)
}

func (s *SettleTestSuite) TestOffstageSkipsOnstageCharacters() {
	doc, before := offstageDocument("outdoor/street", 60)
	doc.Characters["Tomas"].Stage = world.StageOnstage
	before.Characters["Tomas"].Stage = world.StageOnstage

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Empty(out.Simulated)
	s.Assert().Equal(60, doc.Characters["Tomas"].Health)
}

func (s *SettleTestSuite) TestOffstageNoTimeElapsedNoDrift() {
	doc, before := offstageDocument("outdoor/street", 60)
	doc.World.Date = before.World.Date

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Empty(out.Simulated)
}

func (s *SettleTestSuite) TestOffstageDayCounterFallback() {
	doc, before := offstageDocument("outdoor/street", 60)
	// Mangled dates; the day counter still shows one day passed.
	doc.World.Date = "mid-january"
	before.World.Date = "deep winter"
	doc.World.Day = before.World.Day + 1

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().Equal(-20, out.Simulated[0].Delta)
}

func (s *SettleTestSuite) TestStandingCollapseIsLethal() {
	doc, before := offstageDocument("core/living-room", 60)
	doc.Characters["Tomas"].Standing = -10
	doc.Characters["Tomas"].Clothing = "gray parka"
	doc.Characters["Tomas"].InnerThoughts = "they will regret this"

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal([]string{"Tomas"}, out.Deaths)
	ch := doc.Characters["Tomas"]
	s.Assert().Equal(0, ch.Health)
	s.Assert().Equal(world.HealthDeceased, ch.HealthStatus)
	s.Assert().Equal(world.StageOffstage, ch.Stage)
	// The negative standing stays as the record of why they died.
	s.Assert().Equal(-10, ch.Standing)
	s.Assert().Empty(ch.Clothing)
	s.Assert().Empty(ch.InnerThoughts)
	s.Assert().Empty(ch.Location)
}

func (s *SettleTestSuite) TestHealthDepletionIsLethal() {
	doc, before := offstageDocument("outdoor/street", 10)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// 10 health minus a full day of exposure bottoms out at zero.
	s.Assert().Equal([]string{"Tomas"}, out.Deaths)
	ch := doc.Characters["Tomas"]
	s.Assert().Equal(0, ch.Health)
	s.Assert().Equal(world.HealthDeceased, ch.HealthStatus)
	s.Assert().Equal(0, ch.Standing)
}

func (s *SettleTestSuite) TestNarratorAuthoredDeathClosedOut() {
	doc, before := offstageDocument("outdoor/street", 60)
	// The narrator kills Tomas outright, status included.
	doc.Characters["Tomas"].Health = 0
	doc.Characters["Tomas"].HealthStatus = world.HealthDeceased
	doc.Characters["Tomas"].Stage = world.StageOnstage
	doc.Characters["Tomas"].Clothing = "gray parka"

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal([]string{"Tomas"}, out.Deaths)
	ch := doc.Characters["Tomas"]
	s.Assert().Equal(world.StageOffstage, ch.Stage)
	s.Assert().Empty(ch.Clothing)
	s.Assert().Empty(ch.Location)
	s.Assert().Equal(0, ch.Standing)
}

func (s *SettleTestSuite) TestOffstageRecoveryClampedAtFullHealth() {
	doc, before := offstageDocument("core/master-bedroom", 99)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// The formula wants +2 but only +1 fits; the reason reports what
	// actually moved.
	s.Require().Len(out.Simulated, 1)
	s.Assert().Equal(1, out.Simulated[0].Delta)
	s.Assert().Equal(100, doc.Characters["Tomas"].Health)
	s.Assert().Equal("+1, sheltered recovery", doc.Characters["Tomas"].HealthReason)
}

func (s *SettleTestSuite) TestOffstageRecoveryAtFullHealthIsNoChange() {
	doc, before := offstageDocument("core/master-bedroom", 100)

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().Len(out.Simulated, 1)
	s.Assert().Equal(0, out.Simulated[0].Delta)
	s.Assert().Equal(100, doc.Characters["Tomas"].Health)
	s.Assert().Equal("0, no change", doc.Characters["Tomas"].HealthReason)
}

func (s *SettleTestSuite) TestAlreadyDeadNotReportedAgain() {
	doc, before := offstageDocument("outdoor/street", 60)
	before.Characters["Tomas"].Health = 0
	before.Characters["Tomas"].HealthStatus = world.HealthDeceased
	doc.Characters["Tomas"].Health = 0
	doc.Characters["Tomas"].HealthStatus = world.HealthDeceased

	out, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Empty(out.Deaths)
}

func (s *SettleTestSuite) TestRelationTierDerivedFromStanding() {
	doc, before := offstageDocument("core/living-room", 60)
	doc.Characters["Tomas"].Relationship = before.Characters["Tomas"].Relationship
	doc.Characters["Tomas"].Standing = 65

	_, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(world.RelationLoyal, doc.Characters["Tomas"].Relationship)
}

func (s *SettleTestSuite) TestNewCharacterTierDerived() {
	doc, before := offstageDocument("core/living-room", 60)
	// Introduced this turn; no before-record to compare against.
	doc.Characters["Petra"] = &world.Character{
		Name:         "Petra",
		Health:       70,
		Standing:     65,
		Stage:        world.StageOnstage,
		Relationship: world.RelationDevoted,
	}

	_, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(world.RelationLoyal, doc.Characters["Petra"].Relationship)
}

func (s *SettleTestSuite) TestNarratorRelationEditWins() {
	doc, before := offstageDocument("core/living-room", 60)
	before.Characters["Tomas"].Relationship = world.RelationTrading
	doc.Characters["Tomas"].Relationship = world.RelationDevoted
	doc.Characters["Tomas"].Standing = 30

	_, err := s.svc.SettleOffstage(s.ctx, &settle.SettleOffstageInput{
		SessionID: "sess-1", Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(world.RelationDevoted, doc.Characters["Tomas"].Relationship)
}
