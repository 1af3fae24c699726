package world

import (
	"regexp"
	"strings"
)

// Location tags address a single place in the shelter or the surrounding
// city. The grammar is deliberately small so the narrator can write tags
// freely and the reconciler can still make sense of them:
//
//	""                        nowhere (offstage or unknown)
//	entrance                  the entrance zone as a whole
//	entrance/<room>           hall, decontamination, guest-a, guest-b
//	core/<room>               living-room, dining-kitchen, master-bedroom, master-bathroom
//	floor<N>/<room>           a numbered apartment, e.g. floor19/1904
//	outdoor/<area>            anywhere outside the tower
//
// Anything else is invalid. Invalid tags never error; they resolve to
// nothing and the previous tag wins.

// TagKind classifies a parsed location tag.
type TagKind string

const (
	TagNone     TagKind = "none"
	TagEntrance TagKind = "entrance"
	TagCore     TagKind = "core"
	TagFloor    TagKind = "floor"
	TagOutdoor  TagKind = "outdoor"
)

// Entrance room names.
const (
	RoomHall            = "hall"
	RoomDecontamination = "decontamination"
	RoomGuestA          = "guest-a"
	RoomGuestB          = "guest-b"
)

// Core room names.
const (
	RoomLivingRoom     = "living-room"
	RoomDiningKitchen  = "dining-kitchen"
	RoomMasterBedroom  = "master-bedroom"
	RoomMasterBathroom = "master-bathroom"
)

// HomeFloor and HomeRoom identify the player's own apartment. It is always
// inside the shelter and never part of the expandable scope.
const (
	HomeFloor = "20"
	HomeRoom  = "2001"
)

// SupportedFloors lists the floors the shelter can expand onto, in
// precedence order.
var SupportedFloors = []string{"20", "19"}

// EntranceRooms lists the entrance zone rooms in display order.
var EntranceRooms = []string{RoomHall, RoomDecontamination, RoomGuestA, RoomGuestB}

// CoreRooms lists the core zone rooms in display order.
var CoreRooms = []string{RoomLivingRoom, RoomDiningKitchen, RoomMasterBedroom, RoomMasterBathroom}

var (
	floorTagRe  = regexp.MustCompile(`^floor(\d+)/(\d{4})$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// entranceAliases folds narrator spelling variants onto canonical entrance
// room names.
var entranceAliases = map[string]string{
	"hall":            RoomHall,
	"entry-hall":      RoomHall,
	"decontamination": RoomDecontamination,
	"decon":           RoomDecontamination,
	"isolation":       RoomDecontamination,
	"guest-a":         RoomGuestA,
	"guest-room-a":    RoomGuestA,
	"guest-b":         RoomGuestB,
	"guest-room-b":    RoomGuestB,
}

var coreAliases = map[string]string{
	"living-room":     RoomLivingRoom,
	"living":          RoomLivingRoom,
	"dining-kitchen":  RoomDiningKitchen,
	"kitchen":         RoomDiningKitchen,
	"dining":          RoomDiningKitchen,
	"master-bedroom":  RoomMasterBedroom,
	"bedroom":         RoomMasterBedroom,
	"master-bathroom": RoomMasterBathroom,
	"bathroom":        RoomMasterBathroom,
}

// Tag is a parsed location tag.
type Tag struct {
	Kind  TagKind
	Room  string // entrance/core room name, or the 4-digit apartment number
	Floor string // floor number, TagFloor only
	Area  string // free-form area, TagOutdoor only
}

// ParseTag normalizes and parses a raw location tag. It never fails: raw
// text that does not match the grammar parses as TagNone.
func ParseTag(raw string) Tag {
	s := NormalizeTag(raw)
	if s == "" {
		return Tag{Kind: TagNone}
	}
	if s == "entrance" {
		return Tag{Kind: TagEntrance}
	}
	if room, ok := strings.CutPrefix(s, "entrance/"); ok {
		if canonical, ok := entranceAliases[room]; ok {
			return Tag{Kind: TagEntrance, Room: canonical}
		}
		return Tag{Kind: TagNone}
	}
	if room, ok := strings.CutPrefix(s, "core/"); ok {
		if canonical, ok := coreAliases[room]; ok {
			return Tag{Kind: TagCore, Room: canonical}
		}
		return Tag{Kind: TagNone}
	}
	if m := floorTagRe.FindStringSubmatch(s); m != nil {
		return Tag{Kind: TagFloor, Floor: m[1], Room: m[2]}
	}
	if area, ok := strings.CutPrefix(s, "outdoor/"); ok && area != "" {
		return Tag{Kind: TagOutdoor, Area: area}
	}
	return Tag{Kind: TagNone}
}

// NormalizeTag strips whitespace, lowercases, and folds known synonyms
// onto the canonical tag spelling. It does not validate: the result may
// still fail to parse.
func NormalizeTag(raw string) string {
	s := whitespaceRe.ReplaceAllString(raw, "")
	s = strings.ToLower(s)
	s = strings.TrimSuffix(s, "/")
	if rest, ok := strings.CutPrefix(s, "outside/"); ok {
		s = "outdoor/" + rest
	}
	if room, ok := strings.CutPrefix(s, "entrance/"); ok {
		if canonical, ok := entranceAliases[room]; ok {
			s = "entrance/" + canonical
		}
	}
	if room, ok := strings.CutPrefix(s, "core/"); ok {
		if canonical, ok := coreAliases[room]; ok {
			s = "core/" + canonical
		}
	}
	return s
}

// String renders the tag back into its canonical text form.
func (t Tag) String() string {
	switch t.Kind {
	case TagEntrance:
		if t.Room == "" {
			return "entrance"
		}
		return "entrance/" + t.Room
	case TagCore:
		return "core/" + t.Room
	case TagFloor:
		return "floor" + t.Floor + "/" + t.Room
	case TagOutdoor:
		return "outdoor/" + t.Area
	default:
		return ""
	}
}

// Valid reports whether the tag names an actual place.
func (t Tag) Valid() bool { return t.Kind != TagNone }

// IsHome reports whether the tag is the player's own apartment.
func (t Tag) IsHome() bool {
	return t.Kind == TagFloor && t.Floor == HomeFloor && t.Room == HomeRoom
}

// IsSupportedFloor reports whether the shelter scope can cover rooms on
// the given floor.
func IsSupportedFloor(floor string) bool {
	for _, f := range SupportedFloors {
		if f == floor {
			return true
		}
	}
	return false
}

// Resolution records how a character's final location tag was chosen when
// reconciling the narrator's new tag against the previous turn's tag.
type Resolution string

const (
	// ResolutionExplicit means the new tag was valid and won outright.
	ResolutionExplicit Resolution = "explicit"
	// ResolutionExplicitNone means the narrator cleared a previously
	// valid tag on purpose.
	ResolutionExplicitNone Resolution = "explicit-none"
	// ResolutionNone means both tags were empty.
	ResolutionNone Resolution = "none"
	// ResolutionKeepOld means the new tag was garbage and the previous
	// valid tag was kept.
	ResolutionKeepOld Resolution = "invalid-keep-old"
	// ResolutionInvalidNone means the new tag was garbage and there was
	// no previous tag to fall back to.
	ResolutionInvalidNone Resolution = "invalid-to-none"
)

// ResolveLocation picks a character's final location tag from the previous
// turn's tag and the narrator's freshly written one. A valid new tag always
// wins. An empty new tag is an intentional clear. An invalid non-empty new
// tag falls back to the old tag when that one is still valid.
func ResolveLocation(oldRaw, newRaw string) (string, Resolution) {
	newTag := ParseTag(newRaw)
	oldTag := ParseTag(oldRaw)

	if newTag.Valid() {
		return newTag.String(), ResolutionExplicit
	}
	if strings.TrimSpace(newRaw) == "" {
		if oldTag.Valid() {
			return "", ResolutionExplicitNone
		}
		return "", ResolutionNone
	}
	if oldTag.Valid() {
		return oldTag.String(), ResolutionKeepOld
	}
	return "", ResolutionInvalidNone
}
