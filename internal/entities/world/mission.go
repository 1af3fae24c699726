package world

// Intel status values. Intel moves unexplored -> explored -> completed;
// stale entries are cleaned up by the mission settlement.
const (
	IntelUnexplored = "unexplored"
	IntelExplored   = "explored"
	IntelCompleted  = "completed"
)

// Mission is the main questline state: the current stage, its goals, and
// the intel fragments the narrator surfaces for the player to chase.
type Mission struct {
	Stage      string            `json:"stage"`
	Goals      map[string]*Goal  `json:"goals"`
	GoalStatus map[string]bool   `json:"goal_status,omitempty"` // keyed "0","1",... derived
	Intel      map[string]*Intel `json:"intel,omitempty"`

	// Meta is script-owned bookkeeping, keyed by turn number. Not shown
	// to the player.
	Meta *MissionMeta `json:"meta,omitempty"`
}

// Goal is one stage objective with a progress counter.
type Goal struct {
	Description string `json:"description"`
	Current     int    `json:"current"`
	Target      int    `json:"target"`
}

// Done reports whether the goal has been met. Goals with no target never
// complete.
func (g *Goal) Done() bool {
	return g != nil && g.Target > 0 && g.Current >= g.Target
}

// Intel is a discoverable lead: a log fragment, a signal, a rumor.
type Intel struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Value       string `json:"value"`
	Risk        string `json:"risk"`
	Status      string `json:"status"`
}

// MissionMeta is the settlement's private bookkeeping: which turn each
// intel entry and goal changed state on, for staleness cleanup.
type MissionMeta struct {
	LastTurn       int            `json:"last_turn"`
	IntelCreated   map[string]int `json:"intel_created,omitempty"`
	IntelExplored  map[string]int `json:"intel_explored,omitempty"`
	IntelCompleted map[string]int `json:"intel_completed,omitempty"`
	GoalCompleted  map[string]int `json:"goal_completed,omitempty"`
}

// EnsureMeta returns the meta block, allocating it on first use.
func (m *Mission) EnsureMeta() *MissionMeta {
	if m.Meta == nil {
		m.Meta = &MissionMeta{}
	}
	if m.Meta.IntelCreated == nil {
		m.Meta.IntelCreated = make(map[string]int)
	}
	if m.Meta.IntelExplored == nil {
		m.Meta.IntelExplored = make(map[string]int)
	}
	if m.Meta.IntelCompleted == nil {
		m.Meta.IntelCompleted = make(map[string]int)
	}
	if m.Meta.GoalCompleted == nil {
		m.Meta.GoalCompleted = make(map[string]int)
	}
	return m.Meta
}
