package rules

import (
	"regexp"
	"sort"
	"strings"

	"github.com/frostline-games/worldstate/internal/entities/world"
)

var roomNumberRe = regexp.MustCompile(`^\d{4}$`)

// FloorRoomCapacity is how many rooms the shelter scope may cover on a
// floor at a given level. The home floor opens immediately and grows one
// room per level; the floor below unlocks at level 4.
func FloorRoomCapacity(level int, floor string) int {
	switch floor {
	case "20":
		limit := level + 1
		if limit > 7 {
			limit = 7
		}
		if limit < 0 {
			limit = 0
		}
		return limit
	case "19":
		if level < 4 {
			return 0
		}
		limit := level - 3
		if limit > 8 {
			limit = 8
		}
		return limit
	default:
		return 0
	}
}

// NormalizeScope canonicalizes a scope map: room numbers trimmed and
// validated, duplicates dropped, sorted ascending, capped at the floor's
// capacity (lowest numbers win), unsupported floors and empty floors
// removed. The home room is never part of the scope.
func NormalizeScope(scope map[string][]string, level int) map[string][]string {
	out := make(map[string][]string)
	for floor, rooms := range scope {
		floor = strings.TrimSpace(floor)
		if !world.IsSupportedFloor(floor) {
			continue
		}
		seen := make(map[string]bool)
		var kept []string
		for _, room := range rooms {
			room = strings.TrimSpace(room)
			if !roomNumberRe.MatchString(room) {
				continue
			}
			if floor == world.HomeFloor && room == world.HomeRoom {
				continue
			}
			if seen[room] {
				continue
			}
			seen[room] = true
			kept = append(kept, room)
		}
		sort.Strings(kept)
		if limit := FloorRoomCapacity(level, floor); len(kept) > limit {
			kept = kept[:limit]
		}
		if len(kept) > 0 {
			out[floor] = kept
		}
	}
	return out
}

// ApplyScopeDelta folds a narrator delta into the current scope and
// returns the normalized result. Removals always apply; additions only
// stick while the floor stays under capacity.
func ApplyScopeDelta(scope map[string][]string, delta *world.ScopeDelta, level int) map[string][]string {
	next := NormalizeScope(scope, level)
	if delta == nil {
		return next
	}
	for floor, rooms := range delta.Remove {
		floor = strings.TrimSpace(floor)
		drop := make(map[string]bool, len(rooms))
		for _, room := range rooms {
			drop[strings.TrimSpace(room)] = true
		}
		var kept []string
		for _, room := range next[floor] {
			if !drop[room] {
				kept = append(kept, room)
			}
		}
		next[floor] = kept
	}
	for floor, rooms := range delta.Add {
		floor = strings.TrimSpace(floor)
		if !world.IsSupportedFloor(floor) {
			continue
		}
		limit := FloorRoomCapacity(level, floor)
		have := make(map[string]bool, len(next[floor]))
		for _, room := range next[floor] {
			have[room] = true
		}
		candidates := make([]string, 0, len(rooms))
		for _, room := range rooms {
			candidates = append(candidates, strings.TrimSpace(room))
		}
		sort.Strings(candidates)
		for _, room := range candidates {
			if len(next[floor]) >= limit {
				break
			}
			if !roomNumberRe.MatchString(room) || have[room] {
				continue
			}
			if floor == world.HomeFloor && room == world.HomeRoom {
				continue
			}
			have[room] = true
			next[floor] = append(next[floor], room)
		}
	}
	return NormalizeScope(next, level)
}

// Sheltered reports whether a location is inside the shelter: the core and
// entrance zones always, the home apartment always, annexed rooms while
// they are in scope.
func Sheltered(t world.Tag, scope map[string][]string) bool {
	switch t.Kind {
	case world.TagCore, world.TagEntrance:
		return true
	case world.TagFloor:
		if t.IsHome() {
			return true
		}
		if !world.IsSupportedFloor(t.Floor) {
			return false
		}
		for _, room := range scope[t.Floor] {
			if room == t.Room {
				return true
			}
		}
		return false
	default:
		return false
	}
}
