package world

import "encoding/json"

// Shelter is the player's fortified apartment and everything bolted onto
// it: level, unlocked abilities, expansion wings, and the active scope of
// annexed rooms.
type Shelter struct {
	Level int `json:"level"` // 1..10

	// Display fields the narrator reads out. The settlement rewrites them
	// from the durable ledger; narrator edits to them are ignored.
	DailyRoll        string `json:"daily_roll"`
	DaysSinceUpgrade int    `json:"days_since_upgrade"`

	Abilities map[string]Ability `json:"abilities,omitempty"`
	Wings     Wings              `json:"wings"`

	// ActiveScope mirrors the session store's scope for the narrator to
	// read. floor -> annexed room numbers. Script-owned.
	ActiveScope map[string][]string `json:"active_scope,omitempty"`

	// ScopeDelta is the narrator's one-shot request to annex or release
	// rooms. Consumed and cleared by the settlement.
	ScopeDelta *ScopeDelta `json:"scope_delta,omitempty"`
}

// Ability is a shelter capability unlocked by upgrades or mission rewards.
type Ability struct {
	Description string `json:"description"`
}

// Wings tracks the major shelter expansions.
type Wings struct {
	MedicalWing bool `json:"medical_wing"`
	Workshop    bool `json:"workshop"`
	VehicleBay  bool `json:"vehicle_bay"`
}

// ScopeDelta is the narrator-writable request to change the shelter scope.
// Add and Remove map floors to room numbers. Note is free text, kept only
// for the narrator's own bookkeeping.
type ScopeDelta struct {
	Add    map[string][]string `json:"add,omitempty"`
	Remove map[string][]string `json:"remove,omitempty"`
	Note   string              `json:"note,omitempty"`
}

// Empty reports whether the delta requests no change.
func (d *ScopeDelta) Empty() bool {
	return d == nil || (len(d.Add) == 0 && len(d.Remove) == 0)
}

// UnmarshalJSON accepts both the structured {add, remove, note} form and
// the bare shorthand the narrator often writes, a plain floor-to-rooms
// map, which is treated as an add request.
func (d *ScopeDelta) UnmarshalJSON(raw []byte) error {
	type structured ScopeDelta
	var s structured
	if err := json.Unmarshal(raw, &s); err == nil && (len(s.Add) > 0 || len(s.Remove) > 0 || s.Note != "") {
		*d = ScopeDelta(s)
		return nil
	}
	var bare map[string]json.RawMessage
	if err := json.Unmarshal(raw, &bare); err != nil {
		return err
	}
	add := make(map[string][]string)
	for key, val := range bare {
		switch key {
		case "add", "remove", "note":
			continue
		}
		var rooms []string
		if err := json.Unmarshal(val, &rooms); err == nil && len(rooms) > 0 {
			add[key] = rooms
		}
	}
	*d = ScopeDelta{}
	if len(add) > 0 {
		d.Add = add
	}
	return nil
}
