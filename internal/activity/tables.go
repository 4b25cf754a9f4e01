package activity

// Battlegrounds by zone ID. Entering one of these zones starts a recording.
var Battlegrounds = map[int]string{
	30:   "Alterac Valley",
	2107: "Arathi Basin",
	1681: "Arathi Basin",
	1105: "Deepwind Gorge",
	2245: "Deepwind Gorge",
	566:  "Eye of the Storm",
	968:  "Eye of the Storm",
	628:  "Isle of Conquest",
	1803: "Seething Shore",
	727:  "Silvershard Mines",
	998:  "Temple of Kotmogu",
	761:  "The Battle for Gilneas",
	726:  "Twin Peaks",
	489:  "Warsong Gulch",
	2106: "Warsong Gulch",
}

var Arenas = map[int]string{
	1672: "Blade's Edge",
	617:  "Dalaran Sewers",
	1505: "Nagrand Arena",
	572:  "Ruins of Lordaeron",
	2167: "The Robodrome",
	1134: "Tiger's Peak",
	980:  "Tol'Viron",
	1504: "Black Rook Hold",
	2373: "Empyrean Domain",
	1552: "Ashamane's Fall",
	1911: "Mugambala",
	1825: "Hook Point",
	2509: "Maldraxxus Coliseum",
	2547: "Enigma Crucible",
}

var RaidEncounters = map[int]string{
	// Castle Nathria
	2398: "Shriekwing",
	2418: "Huntsman",
	2402: "Sun King",
	2405: "Xy'mox",
	2383: "Hungering",
	2406: "Inerva",
	2412: "Council",
	2399: "Sludgefist",
	2417: "SLG",
	2407: "Denathrius",

	// Sanctum of Domination
	2523: "The Tarragrue",
	2433: "Jailer's Eye",
	2429: "The Nine",
	2432: "Ner'zhul",
	2434: "Souldrender",
	2430: "Painsmith",
	2436: "Guardian",
	2431: "Fatescribe",
	2422: "Kel'Thuzad",
	2435: "Sylvanas",

	// Sepulcher of the First Ones
	2537: "Jailer",
	2512: "Guardian",
	2529: "Halondrus",
	2539: "Lihuvim",
	2540: "Dausegne",
	2542: "Skolex",
	2543: "Lords",
	2544: "Pantheon",
	2546: "Anduin",
	2549: "Rygelon",
	2553: "Xy'mox",
}

var DungeonsByZoneID = map[int]string{
	1651: "Return to Karazhan",
	1208: "Grimrail Depot",
	1195: "Iron Docks",
	2097: "Operation: Mechagon",
	2291: "De Other Side",
	2287: "Halls of Atonement",
	2290: "Mists of Tirna Scithe",
	2289: "Plaguefall",
	2284: "Sanguine Depths",
	2285: "Spires of Ascension",
	2286: "The Necrotic Wake",
	2293: "Theater of Pain",
	2441: "Tazavesh the Veiled Market",
}

var DungeonsByMapID = map[int]string{
	166: "Grimrail Depot",
	169: "Iron Docks",
	206: "Neltharion's Lair",
	227: "Karazhan: Lower",
	234: "Karazhan: Upper",
	369: "Mechagon: Junkyard",
	370: "Mechagon: Workshop",
	375: "Mists of Tirna Scithe",
	376: "The Necrotic Wake",
	377: "De Other Side",
	378: "Halls of Atonement",
	379: "Plaguefall",
	380: "Sanguine Depths",
	381: "Spires of Ascension",
	382: "Theater of Pain",
	391: "Tazavesh: Streets",
	392: "Tazavesh: Gambit",
}

var DungeonEncounters = map[int]string{
	1715: "Rocketspark and Borka",
	1732: "Nitrogg Thundertower",
	1736: "Skylord Tovra",
	1748: "Grimrail Enforcers",
	1749: "Fleshrender Nok'gar",
	1750: "Oshir",
	1754: "Skulloc, Son of Gruul",
	1790: "Rokmora",
	1791: "Ularogg Cragshaper",
	1792: "Naraxas",
	1793: "Dargrul the Underking",
	1954: "Maiden of Virtue",
	1957: "Opera Hall",
	1960: "Attumen the Huntsman",
	1961: "Moroes",
	1964: "The Curator",
	1959: "Mana Devourer",
	1965: "Shade of Medivh",
	2017: "Viz'aduum the Watcher",
	2257: "Tussle Tonks",
	2258: "K.U.-J.0.",
	2259: "Machinist's Garden",
	2260: "King Mechagon",
	2290: "King Gobbamak",
	2291: "HK-8 Aerial Oppression Unit",
	2292: "Gunker",
	2312: "Trixie & Naeno",
	2356: "Ventunax",
	2357: "Kin-Tara",
	2358: "Oryphrion",
	2359: "Devos, Paragon of Loyalty",
	2360: "Kryxis the Voracious",
	2361: "Executor Tarvold",
	2362: "Grand Proctor Beryllia",
	2363: "General Kaal",
	2364: "Kul'tharok",
	2365: "Gorechop",
	2366: "Xav the Unfallen",
	2391: "An Affront of Challengers",
	2404: "Mordretha",
	2380: "Echelon",
	2381: "Lord Chamberlain",
	2401: "Halkias, the Sin-Stained Goliath",
	2403: "High Adjudicator Aleez",
	2382: "Globgrog",
	2384: "Doctor Ickus",
	2385: "Domina Venomblade",
	2386: "Stradama Margrave",
	2387: "Blightbone",
	2388: "Amarth, The Harvester",
	2389: "Surgeon Stitchflesh",
	2390: "Nalthor the Rimebinder",
	2394: "The Manastorms",
	2395: "Hakkar, the Soulflayer",
	2396: "Mueh'zala",
	2400: "Dealer Xy'exa",
	2397: "Ingra Maloch",
	2392: "Mistcaller",
	2393: "Tred'ova",
	2419: "Timecap'n Hooktail",
	2426: "Hylbrande",
	2442: "So'leah",
	2424: "Mailroom Mayhem",
	2425: "Zo'phex the Sentinel",
	2441: "The Grand Menagerie",
	2437: "So'azmi",
	2440: "Myza's Oasis",
}

var RaidInstances = map[int]string{
	13224: "Castle Nathria",
	13561: "Sanctum of Domination",
	13742: "Sepulcher of the First Ones",
}

var Affixes = map[int]string{
	1:   "Overflowing",
	2:   "Skittish",
	3:   "Volcanic",
	4:   "Necrotic",
	6:   "Raging",
	7:   "Bolstering",
	8:   "Sanguine",
	9:   "Tyrannical",
	10:  "Fortified",
	11:  "Bursting",
	12:  "Grievous",
	13:  "Explosive",
	14:  "Quaking",
	117: "Reaping",
	120: "Awakened",
	121: "Prideful",
	122: "Inspiring",
	123: "Spiteful",
	124: "Storming",
	128: "Tormented",
	130: "Encrypted",
	131: "Shrouded",
}

type Difficulty struct {
	ID        string
	Label     string
	PartyType string
}

var Difficulties = map[int]Difficulty{
	1:   {"normal", "Normal", "party"},
	2:   {"heroic", "Heroic", "party"},
	3:   {"normal", "10 Player", "raid"},
	4:   {"normal", "25 Player", "raid"},
	5:   {"heroic", "Heroic (10P)", "raid"},
	6:   {"heroic", "Heroic (25P)", "raid"},
	7:   {"lfr", "Looking For Raid", "raid"},
	8:   {"mythic", "Mythic Keystone", "party"},
	9:   {"normal", "40 Player", "raid"},
	14:  {"normal", "Normal", "raid"},
	15:  {"heroic", "Heroic", "raid"},
	16:  {"mythic", "Mythic", "raid"},
	17:  {"lfr", "Looking For Raid", "raid"},
	23:  {"mythic", "Mythic", "party"},
	24:  {"normal", "Timewalking", "party"},
	33:  {"normal", "Timewalking", "raid"},
	34:  {"pvp", "PvP", "pvp"},
	150: {"normal", "Normal", "party"},
	151: {"lfr", "Looking For Raid (TW)", "raid"},
}

type Spec struct {
	Class string
	Name  string
	Role  string
}

var Specs = map[int]Spec{
	250: {"Death Knight", "Blood", "tank"},
	251: {"Death Knight", "Frost", "damage"},
	252: {"Death Knight", "Unholy", "damage"},
	577: {"Demon Hunter", "Havoc", "damage"},
	581: {"Demon Hunter", "Vengeance", "tank"},
	102: {"Druid", "Balance", "damage"},
	103: {"Druid", "Feral", "damage"},
	104: {"Druid", "Guardian", "tank"},
	105: {"Druid", "Restoration", "healer"},
	253: {"Hunter", "Beast Mastery", "damage"},
	254: {"Hunter", "Marksmanship", "damage"},
	255: {"Hunter", "Survival", "damage"},
	62:  {"Mage", "Arcane", "damage"},
	63:  {"Mage", "Fire", "damage"},
	64:  {"Mage", "Frost", "damage"},
	268: {"Monk", "Brewmaster", "tank"},
	269: {"Monk", "Windwalker", "damage"},
	270: {"Monk", "Mistweaver", "healer"},
	65:  {"Paladin", "Holy", "healer"},
	66:  {"Paladin", "Protection", "tank"},
	70:  {"Paladin", "Retribution", "damage"},
	256: {"Priest", "Discipline", "healer"},
	257: {"Priest", "Holy", "healer"},
	258: {"Priest", "Shadow", "damage"},
	259: {"Rogue", "Assassination", "damage"},
	260: {"Rogue", "Outlaw", "damage"},
	261: {"Rogue", "Subtlety", "damage"},
	262: {"Shaman", "Elemental", "damage"},
	263: {"Shaman", "Enhancement", "damage"},
	264: {"Shaman", "Restoration", "healer"},
	265: {"Warlock", "Affliction", "damage"},
	266: {"Warlock", "Demonology", "damage"},
	267: {"Warlock", "Destruction", "damage"},
	71:  {"Warrior", "Arms", "damage"},
	72:  {"Warrior", "Fury", "damage"},
	73:  {"Warrior", "Protection", "tank"},
}

// ZoneName resolves any zone ID known to the recorder.
func ZoneName(zoneID int) string {
	for _, table := range []map[int]string{Arenas, Battlegrounds, DungeonsByZoneID, RaidInstances} {
		if name, ok := table[zoneID]; ok {
			return name
		}
	}
	return ""
}

func EncounterName(encounterID int) string {
	if name, ok := RaidEncounters[encounterID]; ok {
		return name
	}
	return DungeonEncounters[encounterID]
}

func IsBattleground(zoneID int) bool {
	_, ok := Battlegrounds[zoneID]
	return ok
}
