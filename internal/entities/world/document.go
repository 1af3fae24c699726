// Package world defines the typed world-state document the narrator
// rewrites each turn and the reconciliation engine repairs afterwards.
package world

import (
	"encoding/json"
	"sort"
)

// Document is the whole world state for one session. The narrator may
// rewrite any of it between turns; the reconcilers bring the structured
// parts back into line afterwards.
type Document struct {
	World          WorldInfo             `json:"world"`
	Shelter        Shelter               `json:"shelter"`
	Rooms          Rooms                 `json:"rooms"`
	Mission        Mission               `json:"mission"`
	Characters     map[string]*Character `json:"characters"`
	TempCharacters map[string]*Character `json:"temp_characters,omitempty"`
	OtherResidents []string              `json:"other_residents,omitempty"`
}

// WorldInfo carries the world clock and setting.
type WorldInfo struct {
	Address string `json:"address"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM
	Day     int    `json:"day"`  // days survived, monotonic
}

// Rooms holds the occupant lists per room, keyed by the same names the
// location tags use.
type Rooms struct {
	Entrance map[string][]string            `json:"entrance"`
	Core     map[string][]string            `json:"core"`
	Floors   map[string]map[string][]string `json:"floors"`
	Outdoor  map[string][]string            `json:"outdoor"`
}

// Occupants returns the occupant list a parsed tag addresses, or nil when
// the tag does not map to a tracked list (invalid tags, unsupported
// floors). Bare "entrance" displays into guest room A.
func (r *Rooms) Occupants(t Tag) []string {
	switch t.Kind {
	case TagEntrance:
		room := t.Room
		if room == "" {
			room = RoomGuestA
		}
		return r.Entrance[room]
	case TagCore:
		return r.Core[t.Room]
	case TagFloor:
		if !IsSupportedFloor(t.Floor) {
			return nil
		}
		return r.Floors[t.Floor][t.Room]
	case TagOutdoor:
		return r.Outdoor[t.Area]
	default:
		return nil
	}
}

// SetOccupants replaces the occupant list a parsed tag addresses. Lists on
// unsupported floors are not tracked and the call is a no-op.
func (r *Rooms) SetOccupants(t Tag, names []string) {
	switch t.Kind {
	case TagEntrance:
		room := t.Room
		if room == "" {
			room = RoomGuestA
		}
		if r.Entrance == nil {
			r.Entrance = make(map[string][]string)
		}
		r.Entrance[room] = names
	case TagCore:
		if r.Core == nil {
			r.Core = make(map[string][]string)
		}
		r.Core[t.Room] = names
	case TagFloor:
		if !IsSupportedFloor(t.Floor) {
			return
		}
		if r.Floors == nil {
			r.Floors = make(map[string]map[string][]string)
		}
		if r.Floors[t.Floor] == nil {
			r.Floors[t.Floor] = make(map[string][]string)
		}
		r.Floors[t.Floor][t.Room] = names
	case TagOutdoor:
		if r.Outdoor == nil {
			r.Outdoor = make(map[string][]string)
		}
		r.Outdoor[t.Area] = names
	}
}

// AllTags returns the tag of every tracked occupant list, in a stable
// order: entrance rooms, core rooms, supported floors ascending by room,
// then outdoor areas sorted by name.
func (r *Rooms) AllTags() []Tag {
	var tags []Tag
	for _, room := range EntranceRooms {
		if _, ok := r.Entrance[room]; ok {
			tags = append(tags, Tag{Kind: TagEntrance, Room: room})
		}
	}
	for _, room := range CoreRooms {
		if _, ok := r.Core[room]; ok {
			tags = append(tags, Tag{Kind: TagCore, Room: room})
		}
	}
	for _, floor := range SupportedFloors {
		rooms := make([]string, 0, len(r.Floors[floor]))
		for room := range r.Floors[floor] {
			rooms = append(rooms, room)
		}
		sort.Strings(rooms)
		for _, room := range rooms {
			tags = append(tags, Tag{Kind: TagFloor, Floor: floor, Room: room})
		}
	}
	areas := make([]string, 0, len(r.Outdoor))
	for area := range r.Outdoor {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	for _, area := range areas {
		tags = append(tags, Tag{Kind: TagOutdoor, Area: area})
	}
	return tags
}

// Character looks a character up by name across both the core and the
// temporary maps.
func (d *Document) Character(name string) *Character {
	if c, ok := d.Characters[name]; ok {
		return c
	}
	if c, ok := d.TempCharacters[name]; ok {
		return c
	}
	return nil
}

// CharacterNames returns the names of all tracked characters, core map
// first, sorted within each map.
func (d *Document) CharacterNames() []string {
	names := make([]string, 0, len(d.Characters)+len(d.TempCharacters))
	core := make([]string, 0, len(d.Characters))
	for name := range d.Characters {
		core = append(core, name)
	}
	sort.Strings(core)
	names = append(names, core...)
	tmp := make([]string, 0, len(d.TempCharacters))
	for name := range d.TempCharacters {
		if _, dup := d.Characters[name]; !dup {
			tmp = append(tmp, name)
		}
	}
	sort.Strings(tmp)
	return append(names, tmp...)
}

// Clone returns a deep copy of the document. Used for the before-snapshot
// the reconcilers diff against; the document is JSON-shaped by
// construction so a marshal round trip is exact.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		// The document contains only JSON-safe types; marshal cannot fail.
		panic("world: clone marshal: " + err.Error())
	}
	var out Document
	if err := json.Unmarshal(raw, &out); err != nil {
		panic("world: clone unmarshal: " + err.Error())
	}
	return &out
}
