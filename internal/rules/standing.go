package rules

import "github.com/frostline-games/worldstate/internal/entities/world"

// RelationTierFor derives the relationship tier from a standing value.
// Standing outside [0,100] is clamped for the derivation only; a negative
// standing is meaningful elsewhere (it triggers the collapse death) and is
// never rewritten here.
func RelationTierFor(standing int) string {
	if standing < 0 {
		standing = 0
	}
	if standing > 100 {
		standing = 100
	}
	switch {
	case standing <= 0:
		return world.RelationNone
	case standing < 20:
		return world.RelationGuarded
	case standing < 40:
		return world.RelationTrading
	case standing < 60:
		return world.RelationObedient
	case standing < 90:
		return world.RelationLoyal
	default:
		return world.RelationDevoted
	}
}
