package world

import (
	"github.com/KirkDiggler/rpg-toolkit/core"
)

// Stage says whether a character is present in the current scene.
type Stage string

const (
	StageOnstage  Stage = "onstage"
	StageOffstage Stage = "offstage"
)

// Health status bands, derived from the health value. Deceased is terminal.
const (
	HealthHealthy  = "healthy"
	HealthStrained = "strained"
	HealthInjured  = "injured"
	HealthCritical = "critical"
	HealthDeceased = "deceased"
)

// Relationship tiers, derived from standing. Ordered from hostile to
// devoted; the deriver owns these, the narrator's edits are respected.
const (
	RelationNone     = "none"
	RelationGuarded  = "guarded"
	RelationTrading  = "trading"
	RelationObedient = "obedient"
	RelationLoyal    = "loyal"
	RelationDevoted  = "devoted"
)

// Character is one tracked person in the world document.
// NOTE: This is a data-only struct. All derivation (status bands,
// relationship tiers, offstage decay) is done by the rules package and the
// settlement orchestrators, not here.
type Character struct {
	Name             string `json:"name"`
	Health           int    `json:"health"`
	HealthReason     string `json:"health_reason"`
	HealthStatus     string `json:"health_status"`
	Standing         int    `json:"standing"`
	StandingReason   string `json:"standing_reason"`
	Relationship     string `json:"relationship"`
	RelationTendency string `json:"relation_tendency"`
	Stage            Stage  `json:"stage"`
	Location         string `json:"location"`

	// Narrative surface, freely rewritten by the narrator. Cleared on death.
	Clothing      string `json:"clothing"`
	Appearance    string `json:"appearance"`
	Demeanor      string `json:"demeanor"`
	Posture       string `json:"posture"`
	InnerThoughts string `json:"inner_thoughts"`
}

var _ core.Entity = (*Character)(nil)

// GetID implements core.Entity. Characters are keyed by name.
func (c *Character) GetID() string { return c.Name }

// GetType implements core.Entity.
func (c *Character) GetType() string { return "character" }

// Onstage reports whether the character is in the current scene.
func (c *Character) Onstage() bool { return c.Stage == StageOnstage }

// Dead reports whether the character has been settled as deceased.
func (c *Character) Dead() bool {
	return c.HealthStatus == HealthDeceased || c.Health <= 0
}

// Clone returns a deep copy.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

// ClearNarrative wipes the free-form narrative fields and the location.
// Used when a character dies: the body is no longer tracked in a room.
func (c *Character) ClearNarrative() {
	c.Clothing = ""
	c.Appearance = ""
	c.Demeanor = ""
	c.Posture = ""
	c.InnerThoughts = ""
	c.Location = ""
}

// MergeFrom fills the character's blank fields from a temporary duplicate
// entry. Existing values always win; the temp entry only contributes where
// the core record has nothing.
func (c *Character) MergeFrom(tmp *Character) {
	if tmp == nil {
		return
	}
	if c.HealthReason == "" {
		c.HealthReason = tmp.HealthReason
	}
	if c.HealthStatus == "" {
		c.HealthStatus = tmp.HealthStatus
	}
	if c.Health == 0 && tmp.Health != 0 {
		c.Health = tmp.Health
	}
	if c.Standing == 0 && tmp.Standing != 0 {
		c.Standing = tmp.Standing
	}
	if c.StandingReason == "" {
		c.StandingReason = tmp.StandingReason
	}
	if c.Relationship == "" {
		c.Relationship = tmp.Relationship
	}
	if c.RelationTendency == "" {
		c.RelationTendency = tmp.RelationTendency
	}
	if c.Stage == "" {
		c.Stage = tmp.Stage
	}
	if c.Location == "" {
		c.Location = tmp.Location
	}
	if c.Clothing == "" {
		c.Clothing = tmp.Clothing
	}
	if c.Appearance == "" {
		c.Appearance = tmp.Appearance
	}
	if c.Demeanor == "" {
		c.Demeanor = tmp.Demeanor
	}
	if c.Posture == "" {
		c.Posture = tmp.Posture
	}
	if c.InnerThoughts == "" {
		c.InnerThoughts = tmp.InnerThoughts
	}
}
