package activity

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryTwoVTwo       Category = "2v2"
	CategoryThreeVThree   Category = "3v3"
	CategorySkirmish      Category = "Skirmish"
	CategorySoloShuffle   Category = "Solo Shuffle"
	CategoryMythicPlus    Category = "Mythic+"
	CategoryRaids         Category = "Raids"
	CategoryBattlegrounds Category = "Battlegrounds"
)

var Categories = []Category{
	CategoryTwoVTwo,
	CategoryThreeVThree,
	CategorySkirmish,
	CategorySoloShuffle,
	CategoryMythicPlus,
	CategoryRaids,
	CategoryBattlegrounds,
}

// Time appended after the logical end of an activity so the recording keeps
// the score screen or kill animation.
const (
	ArenaOverrun      = 3 * time.Second
	MythicPlusOverrun = 5 * time.Second
	RaidOverrun       = 15 * time.Second
)

func (c Category) IsArena() bool {
	switch c {
	case CategoryTwoVTwo, CategoryThreeVThree, CategorySkirmish, CategorySoloShuffle:
		return true
	}
	return false
}

// BracketCategory maps the ARENA_MATCH_START bracket field to a category.
func BracketCategory(bracket string) (Category, bool) {
	switch strings.TrimSpace(bracket) {
	case "2v2":
		return CategoryTwoVTwo, true
	case "3v3":
		return CategoryThreeVThree, true
	case "Skirmish":
		return CategorySkirmish, true
	case "Solo Shuffle", "Rated Solo Shuffle":
		return CategorySoloShuffle, true
	}
	return CategorySkirmish, false
}
