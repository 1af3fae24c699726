package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/frostline-games/worldstate/internal/entities/world"
	"github.com/frostline-games/worldstate/internal/errors"
)

// ReconcileRooms makes location tags and occupant lists agree again after
// the narrator's rewrite. The tag on the character record is the source of
// truth; the occupant lists are derived from it. Entries in the lists that
// are not tracked characters (placeholder macros, unnamed residents) are
// preserved where the narrator put them.
func (o *orchestrator) ReconcileRooms(ctx context.Context, input *ReconcileRoomsInput) (*ReconcileRoomsOutput, error) {
	if input == nil || input.Doc == nil || input.Before == nil {
		return nil, errors.InvalidArgument("document and before-snapshot are required")
	}
	doc, before := input.Doc, input.Before
	known := knownNames(doc)

	// Legacy documents carry occupant lists but no tags. Back-fill a tag
	// from the lists when neither turn has one.
	listTag := make(map[string]string)
	for _, t := range doc.Rooms.AllTags() {
		for _, name := range doc.Rooms.Occupants(t) {
			if _, ok := listTag[name]; !ok {
				listTag[name] = t.String()
			}
		}
	}
	for _, name := range doc.CharacterNames() {
		ch := doc.Character(name)
		if ch.Location != "" {
			continue
		}
		if prev := before.Character(name); prev != nil && prev.Location != "" {
			continue
		}
		if tag, ok := listTag[name]; ok {
			ch.Location = tag
		}
	}

	// Resolve every character's final tag.
	out := &ReconcileRoomsOutput{}
	final := make(map[string]world.Tag)
	for _, name := range doc.CharacterNames() {
		ch := doc.Character(name)
		if ch.Dead() {
			// The deceased are not tracked in rooms.
			ch.Location = ""
			continue
		}
		oldLoc := ""
		if prev := before.Character(name); prev != nil {
			oldLoc = prev.Location
		}
		tag, res := world.ResolveLocation(oldLoc, ch.Location)
		if res == world.ResolutionKeepOld || res == world.ResolutionInvalidNone {
			o.log.Warn("invalid location tag",
				"character", ch.GetID(), "written", ch.Location, "resolved", tag)
		}
		ch.Location = tag
		final[name] = world.ParseTag(tag)
		out.Changes = append(out.Changes, LocationChange{Name: name, Tag: tag, Resolution: res})
	}

	// Rebuild every occupant list the document or the snapshot tracks,
	// plus any list a character's final tag now points at.
	targets := make(map[string]world.Tag)
	for _, t := range doc.Rooms.AllTags() {
		targets[t.String()] = t
	}
	for _, t := range before.Rooms.AllTags() {
		targets[t.String()] = t
	}
	for _, t := range final {
		st := storageTag(t)
		if st.Valid() && (st.Kind != world.TagFloor || world.IsSupportedFloor(st.Floor)) {
			targets[st.String()] = st
		}
	}

	// Snapshot the narrator's lists before any of them are replaced.
	afterLists := make(map[string][]string, len(targets))
	for key, t := range targets {
		afterLists[key] = doc.Rooms.Occupants(t)
	}
	for _, t := range targets {
		doc.Rooms.SetOccupants(t, o.rebuildList(t, afterLists[t.String()], before, known, final))
	}
	return out, nil
}

// rebuildList computes the final occupant list for one room.
func (o *orchestrator) rebuildList(t world.Tag, afterList []string, before *world.Document, known map[string]bool, final map[string]world.Tag) []string {
	beforeList := before.Rooms.Occupants(t)
	tagKey := t.String()

	list := make([]string, 0, len(afterList))
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			list = append(list, name)
		}
	}

	// Untracked entries stay where the narrator listed them.
	for _, name := range afterList {
		if !known[name] {
			add(name)
		}
	}
	// Placeholder macros the narrator dropped come back; the host expands
	// them, the narrator must not be able to lose them.
	for _, name := range beforeList {
		if !known[name] && isMacro(name) {
			add(name)
		}
	}

	inRoom := func(name string) bool {
		ft, ok := final[name]
		return ok && storageTag(ft).String() == tagKey
	}

	// Tracked characters: narrator's ordering first, then hold-overs from
	// last turn, then new arrivals sorted by name.
	for _, name := range afterList {
		if known[name] && inRoom(name) {
			add(name)
		}
	}
	for _, name := range beforeList {
		if known[name] && inRoom(name) {
			add(name)
		}
	}
	var arrivals []string
	for name := range final {
		if inRoom(name) && !seen[name] {
			arrivals = append(arrivals, name)
		}
	}
	sort.Strings(arrivals)
	for _, name := range arrivals {
		add(name)
	}
	return list
}

// storageTag maps a logical tag onto the list that displays it: a bare
// entrance tag shows up in guest room A.
func storageTag(t world.Tag) world.Tag {
	if t.Kind == world.TagEntrance && t.Room == "" {
		return world.Tag{Kind: world.TagEntrance, Room: world.RoomGuestA}
	}
	return t
}

func isMacro(name string) bool {
	return strings.Contains(name, "{{")
}
