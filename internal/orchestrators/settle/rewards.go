package settle

import (
	"sort"
	"strings"

	"github.com/frostline-games/worldstate/internal/entities/world"
)

// levelRewards are the abilities each shelter level unlocks. Granting is
// non-destructive: an ability the document already has keeps whatever
// description the narrator gave it.
var levelRewards = map[int]map[string]world.Ability{
	2: {
		"Water Recycler": {Description: "Closed-loop greywater reclamation; the shelter no longer draws on stored water."},
	},
	3: {
		"Medical Wing": {Description: "A stocked treatment room off the master bathroom. Sheltered recovery accelerates."},
	},
	4: {
		"Floor Access": {Description: "The stairwell door to the 19th floor is breached and reinforced."},
	},
	5: {
		"Workshop": {Description: "A fabrication bench with salvaged power tools in the annexed rooms."},
	},
	6: {
		"Cold Storage": {Description: "An insulated larder holding a month of provisions at outdoor temperature."},
	},
	7: {
		"Vehicle Bay": {Description: "The parking level ramp is cleared; one vehicle can be kept warm and fueled."},
	},
	8: {
		"Long-Range Antenna": {Description: "A mast on the roofline; broadcasts reach across the frozen district."},
	},
	9: {
		"Greenhouse": {Description: "Grow-lights and planters in a sealed annexed room; fresh food year round."},
	},
	10: {
		"Autonomous Defenses": {Description: "Sensor-triggered deterrents covering every approach to the shelter."},
	},
}

// grantLevelRewards merges every reward up to and including the given
// level into the shelter's ability map. Idempotent.
func grantLevelRewards(sh *world.Shelter, level int) {
	for l := 1; l <= level; l++ {
		mergeAbilities(sh, levelRewards[l])
	}
}

// syncWings keeps the wing flags in step with the level. Wings never lock
// again once opened.
func syncWings(sh *world.Shelter, level int) {
	if level >= 3 {
		sh.Wings.MedicalWing = true
	}
	if level >= 5 {
		sh.Wings.Workshop = true
	}
	if level >= 7 {
		sh.Wings.VehicleBay = true
	}
}

// mergeAbilities folds granted abilities into the shelter non-destructively.
// Names are matched after normalization so narrator spelling variants
// (smart quotes, fullwidth brackets, stray whitespace) do not create
// duplicates. Existing descriptions are kept; blank ones are filled.
func mergeAbilities(sh *world.Shelter, grants map[string]world.Ability) {
	if len(grants) == 0 {
		return
	}
	if sh.Abilities == nil {
		sh.Abilities = make(map[string]world.Ability)
	}

	existing := make(map[string]string, len(sh.Abilities))
	for name := range sh.Abilities {
		existing[normalizeAbilityName(name)] = name
	}

	for name, grant := range grants {
		key := normalizeAbilityName(name)
		if have, ok := existing[key]; ok {
			cur := sh.Abilities[have]
			if cur.Description == "" {
				cur.Description = grant.Description
				sh.Abilities[have] = cur
			}
			continue
		}
		sh.Abilities[name] = grant
		existing[key] = name
	}
}

// dedupeAbilities collapses ability entries whose names normalize to the
// same key. The entry with the longer description survives under the name
// the narrator wrote first in sorted order.
func dedupeAbilities(sh *world.Shelter) {
	if len(sh.Abilities) < 2 {
		return
	}
	byKey := make(map[string]string)
	names := make([]string, 0, len(sh.Abilities))
	for name := range sh.Abilities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		key := normalizeAbilityName(name)
		keep, ok := byKey[key]
		if !ok {
			byKey[key] = name
			continue
		}
		kept := sh.Abilities[keep]
		dup := sh.Abilities[name]
		if len(dup.Description) > len(kept.Description) {
			kept.Description = dup.Description
			sh.Abilities[keep] = kept
		}
		delete(sh.Abilities, name)
	}
}

var abilityNameReplacer = strings.NewReplacer(
	"‘", "'", "’", "'", // smart single quotes
	"“", `"`, "”", `"`, // smart double quotes
	"（", "(", "）", ")", // fullwidth parens
	"【", "(", "】", ")", // lenticular brackets
)

// normalizeAbilityName canonicalizes an ability name for duplicate
// matching only; stored names keep their original spelling.
func normalizeAbilityName(name string) string {
	s := abilityNameReplacer.Replace(name)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
