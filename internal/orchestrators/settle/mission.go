package settle

import (
	"context"
	"fmt"
	"sort"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
)

// The main questline: four ordered stages, each with fixed goals. The
// narrator moves the progress counters; the settlement owns completion
// flags, stage advancement, and rewards.

// intelGoalKey marks the goal whose progress is derived from completed
// intel entries instead of narrator counters.
const intelGoalKey = "collect_intel"

type goalDef struct {
	key         string
	description string
	target      int
}

type stageDef struct {
	name    string
	goals   []goalDef
	rewards map[string]world.Ability
}

var stageDefs = []stageDef{
	{
		name: "Signals in the Static",
		goals: []goalDef{
			{key: intelGoalKey, description: "Chase down intel fragments about the relay station", target: 3},
			{key: "fix_receiver", description: "Restore the shortwave receiver to working order", target: 1},
		},
		rewards: map[string]world.Ability{
			"Frequency Log": {Description: "A notebook of active broadcast frequencies across the district."},
		},
	},
	{
		name: "The Relay Station",
		goals: []goalDef{
			{key: "scout_route", description: "Scout a safe route to the relay station", target: 1},
			{key: "gather_supplies", description: "Stockpile cold-weather supplies for the expedition", target: 5},
			{key: "recruit_guide", description: "Convince someone who knows the station to come along", target: 1},
		},
		rewards: map[string]world.Ability{
			"Relay Access": {Description: "Working credentials for the relay station's service doors."},
		},
	},
	{
		name: "Voices from the South",
		goals: []goalDef{
			{key: "decode_broadcast", description: "Decode the repeating broadcast from the southern convoy", target: 1},
			{key: "map_corridor", description: "Map the ice-free corridor the convoy is using", target: 3},
		},
		rewards: map[string]world.Ability{
			"Convoy Charts": {Description: "Route charts marking the convoy's fuel caches."},
		},
	},
	{
		name: "The Long Drive",
		goals: []goalDef{
			{key: "ready_vehicle", description: "Winterize a vehicle for the drive south", target: 1},
			{key: "fuel_reserve", description: "Secure enough fuel for the full corridor", target: 4},
			{key: "final_call", description: "Decide who rides along", target: 1},
		},
	},
}

// defaultIntel seeds the discoverable leads on a fresh mission block.
var defaultIntel = map[string]world.Intel{
	"log-001": {
		ID:          "LOG-001",
		Description: "A maintenance log fragment mentioning an intact relay uplink on the district's edge.",
		Value:       "high",
		Risk:        "low",
		Status:      world.IntelUnexplored,
	},
	"log-002": {
		ID:          "LOG-002",
		Description: "A half-burned duty roster naming the relay station's last caretaker.",
		Value:       "medium",
		Risk:        "medium",
		Status:      world.IntelUnexplored,
	},
	"signal-003": {
		ID:          "SIGNAL-003",
		Description: "A repeating shortwave pulse on 4.625 MHz, strongest after midnight.",
		Value:       "high",
		Risk:        "high",
		Status:      world.IntelUnexplored,
	},
}

// Staleness horizons, in turns.
const (
	staleResolvedTurns   = 3
	staleUnexploredTurns = 5
	staleGoalTurns       = 3
)

// SettleMission runs the mission stage machine: seeds a fresh mission
// block, syncs intel into the intel goal, stamps and cleans up stale
// entries, rebuilds the completion flags, and advances the stage when
// every goal is done. A stage name the narrator changed this turn is
// trusted and advancement is skipped.
func (o *orchestrator) SettleMission(ctx context.Context, input *SettleMissionInput) (*SettleMissionOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	doc, before := input.Doc, input.Before
	m := &doc.Mission
	out := &SettleMissionOutput{}

	idx := stageIndex(m.Stage)
	if idx < 0 {
		if m.Stage == "" && len(m.Goals) == 0 {
			o.initializeMission(m, input.TurnID)
			out.Initialized = true
			idx = 0
		} else {
			// An unrecognized stage name is narrator-authored detail.
			// The goal table stays untouched and advancement is off
			// until the name matches a known stage again.
			o.log.Warn("unknown mission stage, advancement skipped",
				"session_id", input.SessionID, "stage", m.Stage)
		}
	}

	meta := m.EnsureMeta()
	o.stampIntel(m, input.TurnID)
	syncIntelGoal(m)
	out.RemovedIntel = o.cleanupIntel(m, input.TurnID)
	o.cleanupGoals(m, input.TurnID)
	rebuildGoalStatus(m, idx)

	narratorMoved := doc.Mission.Stage != before.Mission.Stage && stageIndex(before.Mission.Stage) >= 0
	if idx >= 0 && !narratorMoved && allGoalsDone(m) && idx+1 < len(stageDefs) {
		mergeAbilities(&doc.Shelter, stageDefs[idx].rewards)
		idx++
		applyStage(m, idx)
		rebuildGoalStatus(m, idx)
		out.Advanced = true
		o.log.Info("mission stage advanced",
			"session_id", input.SessionID, "stage", m.Stage, "turn_id", input.TurnID)
	}

	meta.LastTurn = input.TurnID
	out.Stage = m.Stage
	return out, nil
}

// stageIndex maps a stage name to its position, -1 when unknown.
func stageIndex(name string) int {
	for i, def := range stageDefs {
		if def.name == name {
			return i
		}
	}
	return -1
}

// initializeMission seeds an empty mission block with the first stage and
// the default intel.
func (o *orchestrator) initializeMission(m *world.Mission, turnID int) {
	applyStage(m, 0)
	if len(m.Intel) == 0 {
		m.Intel = make(map[string]*world.Intel, len(defaultIntel))
		meta := m.EnsureMeta()
		for key, seed := range defaultIntel {
			entry := seed
			m.Intel[key] = &entry
			meta.IntelCreated[key] = turnID
		}
	}
	o.log.Info("initialized mission", "stage", m.Stage)
}

// applyStage resets the goal table to a stage's definitions.
func applyStage(m *world.Mission, idx int) {
	def := stageDefs[idx]
	m.Stage = def.name
	m.Goals = make(map[string]*world.Goal, len(def.goals))
	for _, g := range def.goals {
		m.Goals[g.key] = &world.Goal{Description: g.description, Target: g.target}
	}
	m.GoalStatus = nil
	if m.Meta != nil {
		m.Meta.GoalCompleted = nil
	}
}

// stampIntel records creation and status-change turns for every intel
// entry, so staleness cleanup has something to count from.
func (o *orchestrator) stampIntel(m *world.Mission, turnID int) {
	meta := m.EnsureMeta()
	for key, entry := range m.Intel {
		if entry == nil {
			continue
		}
		if _, ok := meta.IntelCreated[key]; !ok {
			meta.IntelCreated[key] = turnID
		}
		switch entry.Status {
		case world.IntelExplored:
			if _, ok := meta.IntelExplored[key]; !ok {
				meta.IntelExplored[key] = turnID
			}
		case world.IntelCompleted:
			if _, ok := meta.IntelCompleted[key]; !ok {
				meta.IntelCompleted[key] = turnID
			}
		}
	}
}

// syncIntelGoal derives the intel goal's counter from completed intel.
// The counter never runs past its target and never decreases.
func syncIntelGoal(m *world.Mission) {
	goal, ok := m.Goals[intelGoalKey]
	if !ok || goal == nil {
		return
	}
	completed := 0
	for _, entry := range m.Intel {
		if entry != nil && entry.Status == world.IntelCompleted {
			completed++
		}
	}
	if completed > goal.Target {
		completed = goal.Target
	}
	if completed > goal.Current {
		goal.Current = completed
	}
}

// cleanupIntel drops stale intel: resolved entries a few turns after they
// resolved, untouched ones after a longer horizon.
func (o *orchestrator) cleanupIntel(m *world.Mission, turnID int) []string {
	meta := m.EnsureMeta()
	var removed []string
	for key, entry := range m.Intel {
		if entry == nil {
			continue
		}
		stale := false
		switch entry.Status {
		case world.IntelCompleted:
			stale = turnID-meta.IntelCompleted[key] >= staleResolvedTurns && meta.IntelCompleted[key] > 0
		case world.IntelExplored:
			stale = turnID-meta.IntelExplored[key] >= staleResolvedTurns && meta.IntelExplored[key] > 0
		default:
			stale = turnID-meta.IntelCreated[key] >= staleUnexploredTurns && meta.IntelCreated[key] > 0
		}
		if stale {
			removed = append(removed, key)
		}
	}
	sort.Strings(removed)
	for _, key := range removed {
		delete(m.Intel, key)
		delete(meta.IntelCreated, key)
		delete(meta.IntelExplored, key)
		delete(meta.IntelCompleted, key)
	}
	return removed
}

// cleanupGoals drops completed goals a few turns after completion, stage
// and narrator goals alike. Advancement afterwards judges whatever goals
// remain, so a swept stage goal counts as done.
func (o *orchestrator) cleanupGoals(m *world.Mission, turnID int) {
	meta := m.EnsureMeta()
	for key := range meta.GoalCompleted {
		if _, ok := m.Goals[key]; !ok {
			delete(meta.GoalCompleted, key)
		}
	}
	for key, goal := range m.Goals {
		if goal == nil {
			continue
		}
		if !goal.Done() {
			delete(meta.GoalCompleted, key)
			continue
		}
		if _, ok := meta.GoalCompleted[key]; !ok {
			meta.GoalCompleted[key] = turnID
			continue
		}
		if turnID-meta.GoalCompleted[key] >= staleGoalTurns {
			delete(m.Goals, key)
			delete(meta.GoalCompleted, key)
		}
	}
}

// rebuildGoalStatus derives the completion flags, keyed by position in the
// stage definition order followed by narrator-added goals sorted by key.
// With an unknown stage (idx < 0) every goal is treated as narrator-added.
func rebuildGoalStatus(m *world.Mission, idx int) {
	m.GoalStatus = make(map[string]bool, len(m.Goals))
	pos := 0
	seen := make(map[string]bool, len(m.Goals))
	if idx >= 0 {
		for _, g := range stageDefs[idx].goals {
			if goal, ok := m.Goals[g.key]; ok {
				m.GoalStatus[fmt.Sprintf("%d", pos)] = goal.Done()
				seen[g.key] = true
				pos++
			}
		}
	}
	extra := make([]string, 0, len(m.Goals))
	for key := range m.Goals {
		if !seen[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	for _, key := range extra {
		m.GoalStatus[fmt.Sprintf("%d", pos)] = m.Goals[key].Done()
		pos++
	}
}

// allGoalsDone reports whether every goal still on the table is complete.
// An empty table never advances.
func allGoalsDone(m *world.Mission) bool {
	if len(m.Goals) == 0 {
		return false
	}
	for _, goal := range m.Goals {
		if goal == nil || !goal.Done() {
			return false
		}
	}
	return true
}
