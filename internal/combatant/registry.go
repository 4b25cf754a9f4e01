package combatant

import (
	"errors"
	"strings"
)

// SelfFlags is the friendly + mine + player affiliation mask carried by
// units the local client controls.
const SelfFlags uint64 = 0x511

var ErrMissingCombatant = errors.New("player combatant not identified")

type Combatant struct {
	GUID   string
	TeamID int
	SpecID int
	Name   string
	Realm  string
}

// Registry tracks the combatants announced for the current activity. It is
// owned by the ingestion loop and is not safe for concurrent use.
type Registry struct {
	byGUID map[string]*Combatant
	player *Combatant
}

func NewRegistry() *Registry {
	return &Registry{byGUID: make(map[string]*Combatant)}
}

// Record adds or replaces a combatant. A replaced entry keeps a name that was
// resolved earlier.
func (r *Registry) Record(guid string, teamID, specID int) {
	if existing, ok := r.byGUID[guid]; ok {
		existing.TeamID = teamID
		existing.SpecID = specID
		return
	}
	r.byGUID[guid] = &Combatant{GUID: guid, TeamID: teamID, SpecID: specID}
}

// TryIdentifySelf marks guid as the local player when flags carry the self
// mask. The first match sticks until Clear.
func (r *Registry) TryIdentifySelf(guid, nameRealm string, flags uint64) bool {
	if r.player != nil {
		return false
	}
	c, ok := r.byGUID[guid]
	if !ok {
		return false
	}
	if !IsSelf(flags) {
		return false
	}
	c.Name, c.Realm = Ambiguate(nameRealm)
	r.player = c
	return true
}

func (r *Registry) Player() (Combatant, bool) {
	if r.player == nil {
		return Combatant{}, false
	}
	return *r.player, true
}

func (r *Registry) HasPlayer() bool {
	return r.player != nil
}

func (r *Registry) Get(guid string) (Combatant, bool) {
	c, ok := r.byGUID[guid]
	if !ok {
		return Combatant{}, false
	}
	return *c, true
}

func (r *Registry) Len() int {
	return len(r.byGUID)
}

func (r *Registry) Clear() {
	clear(r.byGUID)
	r.player = nil
}

func IsSelf(flags uint64) bool {
	return flags&SelfFlags == SelfFlags
}

// Ambiguate splits "Name-Realm". Names without a realm return an empty realm.
func Ambiguate(nameRealm string) (string, string) {
	name, realm, _ := strings.Cut(nameRealm, "-")
	return name, realm
}
