package settle_test

import (
	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/orchestrators/settle"
)

const (
	stageOne = "Signals in the Static"
	stageTwo = "The Relay Station"
)

// missionDocument returns a document already on the first stage with its
// goals in place.
func missionDocument() *world.Document {
	doc := settleDocument()
	doc.Mission = world.Mission{
		Stage: stageOne,
		Goals: map[string]*world.Goal{
			"collect_intel": {Description: "Chase down intel fragments about the relay station", Target: 3},
			"fix_receiver":  {Description: "Restore the shortwave receiver to working order", Target: 1},
		},
	}
	return doc
}

func (s *SettleTestSuite) TestMissionInitialized() {
	doc := settleDocument()
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 1, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Initialized)
	s.Assert().Equal(stageOne, out.Stage)
	s.Assert().Contains(doc.Mission.Goals, "collect_intel")
	s.Assert().Contains(doc.Mission.Goals, "fix_receiver")
	s.Assert().Len(doc.Mission.Intel, 3)
	s.Assert().Equal(map[string]bool{"0": false, "1": false}, doc.Mission.GoalStatus)
}

func (s *SettleTestSuite) TestMissionUnknownStageLeftUntouched() {
	doc := settleDocument()
	doc.Mission.Stage = "A Stage That Does Not Exist"
	doc.Mission.Goals = map[string]*world.Goal{
		"find_generator": {Description: "Track down the garage generator", Target: 2, Current: 1},
	}
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 1, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	// Narrator-authored stage and goals survive; only advancement is off.
	s.Assert().False(out.Initialized)
	s.Assert().False(out.Advanced)
	s.Assert().Equal("A Stage That Does Not Exist", doc.Mission.Stage)
	s.Require().Contains(doc.Mission.Goals, "find_generator")
	s.Assert().Equal(1, doc.Mission.Goals["find_generator"].Current)
	s.Assert().Empty(doc.Mission.Intel)
	s.Assert().Equal(map[string]bool{"0": false}, doc.Mission.GoalStatus)
}

func (s *SettleTestSuite) TestMissionEmptyStageWithGoalsNotReset() {
	doc := settleDocument()
	doc.Mission.Goals = map[string]*world.Goal{
		"find_generator": {Description: "Track down the garage generator", Target: 2},
	}
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 1, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().False(out.Initialized)
	s.Assert().Contains(doc.Mission.Goals, "find_generator")
}

func (s *SettleTestSuite) TestMissionIntelGoalSyncedFromCompletedIntel() {
	doc := missionDocument()
	doc.Mission.Intel = map[string]*world.Intel{
		"log-001": {ID: "LOG-001", Status: world.IntelCompleted},
		"log-002": {ID: "LOG-002", Status: world.IntelUnexplored},
	}
	before := doc.Clone()

	_, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 2, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(1, doc.Mission.Goals["collect_intel"].Current)
}

func (s *SettleTestSuite) TestMissionIntelGoalNeverDecreases() {
	doc := missionDocument()
	doc.Mission.Goals["collect_intel"].Current = 2
	before := doc.Clone()

	_, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 2, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal(2, doc.Mission.Goals["collect_intel"].Current)
}

func (s *SettleTestSuite) TestMissionAdvancesWhenAllGoalsDone() {
	doc := missionDocument()
	doc.Mission.Goals["collect_intel"].Current = 3
	doc.Mission.Goals["fix_receiver"].Current = 1
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 8, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().True(out.Advanced)
	s.Assert().Equal(stageTwo, out.Stage)
	s.Assert().Equal(stageTwo, doc.Mission.Stage)
	// Stage rewards land in the shelter's ability list.
	s.Assert().Contains(doc.Shelter.Abilities, "Frequency Log")
	// Fresh goal table for the new stage.
	s.Assert().Contains(doc.Mission.Goals, "scout_route")
	s.Assert().NotContains(doc.Mission.Goals, "fix_receiver")
	s.Assert().Equal(map[string]bool{"0": false, "1": false, "2": false}, doc.Mission.GoalStatus)
}

func (s *SettleTestSuite) TestMissionDoesNotAdvanceWithOpenGoals() {
	doc := missionDocument()
	doc.Mission.Goals["fix_receiver"].Current = 1
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 4, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().False(out.Advanced)
	s.Assert().Equal(stageOne, out.Stage)
	s.Assert().Equal(map[string]bool{"0": false, "1": true}, doc.Mission.GoalStatus)
}

func (s *SettleTestSuite) TestMissionNarratorStageChangeDefersAdvance() {
	doc := missionDocument()
	before := doc.Clone()
	doc.Mission.Stage = stageTwo
	doc.Mission.Goals = map[string]*world.Goal{
		"scout_route": {Description: "Scout a safe route to the relay station", Target: 1, Current: 1},
	}

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 6, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().False(out.Advanced)
	s.Assert().Equal(stageTwo, out.Stage)
}

func (s *SettleTestSuite) TestMissionStaleCompletedIntelRemoved() {
	doc := missionDocument()
	doc.Mission.Intel = map[string]*world.Intel{
		"log-001": {ID: "LOG-001", Status: world.IntelCompleted},
	}
	doc.Mission.Meta = &world.MissionMeta{
		IntelCreated:   map[string]int{"log-001": 1},
		IntelCompleted: map[string]int{"log-001": 2},
	}
	before := doc.Clone()

	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Assert().Equal([]string{"log-001"}, out.RemovedIntel)
	s.Assert().NotContains(doc.Mission.Intel, "log-001")
}

func (s *SettleTestSuite) TestMissionStaleUnexploredIntelRemovedLater() {
	doc := missionDocument()
	doc.Mission.Intel = map[string]*world.Intel{
		"log-001": {ID: "LOG-001", Status: world.IntelUnexplored},
	}
	doc.Mission.Meta = &world.MissionMeta{
		IntelCreated: map[string]int{"log-001": 1},
	}
	before := doc.Clone()

	// Turn 4: unexplored intel is still within its horizon.
	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 4, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().Empty(out.RemovedIntel)

	// Turn 6: past the horizon, gone.
	out, err = s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 6, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)
	s.Assert().Equal([]string{"log-001"}, out.RemovedIntel)
}

func (s *SettleTestSuite) TestMissionNarratorGoalCleanedUpAfterCompletion() {
	doc := missionDocument()
	doc.Mission.Goals["find_cat"] = &world.Goal{Description: "Find the missing cat", Target: 1, Current: 1}
	before := doc.Clone()

	// First settle stamps the completion turn.
	_, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 10, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().Contains(doc.Mission.Goals, "find_cat")

	// Three turns later it is swept.
	_, err = s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 13, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)
	s.Assert().NotContains(doc.Mission.Goals, "find_cat")
}

func (s *SettleTestSuite) TestMissionCompletedStageGoalSweptThenAdvancesOnRemainder() {
	doc := missionDocument()
	doc.Mission.Goals["fix_receiver"].Current = 1
	before := doc.Clone()

	// Turn 5 stamps the completion; the goal is still on the table.
	_, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 5, Doc: doc, Before: before,
	})
	s.Require().NoError(err)
	s.Assert().Contains(doc.Mission.Goals, "fix_receiver")

	// Three turns later the completed goal is swept like any other.
	_, err = s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 8, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)
	s.Assert().NotContains(doc.Mission.Goals, "fix_receiver")
	s.Assert().Contains(doc.Mission.Goals, "collect_intel")

	// Finishing the remaining goal advances the stage; the swept goal
	// counts as done.
	doc.Mission.Goals["collect_intel"].Current = 3
	out, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 9, Doc: doc, Before: doc.Clone(),
	})
	s.Require().NoError(err)
	s.Assert().True(out.Advanced)
	s.Assert().Equal(stageTwo, doc.Mission.Stage)
	s.Assert().Contains(doc.Shelter.Abilities, "Frequency Log")
}

func (s *SettleTestSuite) TestMissionMetaStampsLastTurn() {
	doc := missionDocument()
	before := doc.Clone()

	_, err := s.svc.SettleMission(s.ctx, &settle.SettleMissionInput{
		SessionID: "sess-1", TurnID: 7, Doc: doc, Before: before,
	})
	s.Require().NoError(err)

	s.Require().NotNil(doc.Mission.Meta)
	s.Assert().Equal(7, doc.Mission.Meta.LastTurn)
}
