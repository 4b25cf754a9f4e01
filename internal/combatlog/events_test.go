package combatlog

import (
	"errors"
	"testing"
	"time"
)

func mustLine(t *testing.T, raw string) *LogLine {
	t.Helper()
	line, err := NewLogLine(raw)
	if err != nil {
		t.Fatalf("NewLogLine(%q): %v", raw, err)
	}
	return line
}

func TestParseArenaEvents(t *testing.T) {
	now := time.Date(2022, time.August, 10, 0, 0, 0, 0, time.UTC)

	start, err := ParseArenaMatchStart(mustLine(t, "8/3 22:09:58.548  ARENA_MATCH_START,2547,33,2v2,1"), now)
	if err != nil {
		t.Fatalf("ParseArenaMatchStart: %v", err)
	}
	if start.ZoneID != 2547 || start.Bracket != "2v2" || !start.Rated {
		t.Fatalf("unexpected start event: %+v", start)
	}

	end, err := ParseArenaMatchEnd(mustLine(t, "8/3 22:12:14.889  ARENA_MATCH_END,0,8,1673,1668"), now)
	if err != nil {
		t.Fatalf("ParseArenaMatchEnd: %v", err)
	}
	if end.WinningTeam != 0 || end.Duration != 8 || end.TeamMMR != [2]int{1673, 1668} {
		t.Fatalf("unexpected end event: %+v", end)
	}
	if got := end.Time.Sub(start.Time); got != 136341*time.Millisecond {
		t.Fatalf("unexpected match span %s", got)
	}
}

func TestParseChallengeModeEvents(t *testing.T) {
	now := time.Date(2022, time.August, 10, 0, 0, 0, 0, time.UTC)

	start, err := ParseChallengeModeStart(mustLine(t, `8/4 20:00:00.000  CHALLENGE_MODE_START,"Mists of Tirna Scithe",2290,375,12,[10,11,3,121]`), now)
	if err != nil {
		t.Fatalf("ParseChallengeModeStart: %v", err)
	}
	if start.ZoneName != "Mists of Tirna Scithe" || start.ZoneID != 2290 || start.MapID != 375 || start.Level != 12 {
		t.Fatalf("unexpected start event: %+v", start)
	}
	if len(start.Affixes) != 4 || start.Affixes[3] != 121 {
		t.Fatalf("unexpected affixes: %v", start.Affixes)
	}

	end, err := ParseChallengeModeEnd(mustLine(t, "8/4 20:30:00.000  CHALLENGE_MODE_END,2290,1,12,1436498"), now)
	if err != nil {
		t.Fatalf("ParseChallengeModeEnd: %v", err)
	}
	if !end.Success || end.Level != 12 || end.Elapsed != 1436498*time.Millisecond {
		t.Fatalf("unexpected end event: %+v", end)
	}
}

func TestParseSpellAuraAppliedReadsHexFlags(t *testing.T) {
	raw := `8/3 22:09:59.365  SPELL_AURA_APPLIED,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,110310,"Dampening",0x1,DEBUFF`
	ev, err := ParseSpellAuraApplied(mustLine(t, raw), time.Now())
	if err != nil {
		t.Fatalf("ParseSpellAuraApplied: %v", err)
	}
	if ev.SourceFlags != 0x511 || ev.SourceName != "Alexsmite-TarrenMill" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseUnitDied(t *testing.T) {
	raw := `8/4 20:07:00.200  UNIT_DIED,0000000000000000,nil,0x80000000,0x80000000,Creature-0-1-2290-1-164804-1,"Droman Oulfarran",0xa48,0x0,0`
	now := time.Date(2022, time.August, 10, 0, 0, 0, 0, time.UTC)
	ev, err := ParseUnitDied(mustLine(t, raw), now)
	if err != nil {
		t.Fatalf("ParseUnitDied: %v", err)
	}
	if ev.DestGUID != "Creature-0-1-2290-1-164804-1" || ev.DestName != "Droman Oulfarran" || ev.DestFlags != 0xa48 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	want := time.Date(2022, time.August, 4, 20, 7, 0, 200_000_000, time.UTC)
	if !ev.Time.Equal(want) {
		t.Fatalf("Time = %v, want %v", ev.Time, want)
	}
}

func TestParseCombatantInfoSpec(t *testing.T) {
	ev, err := ParseCombatantInfo(mustLine(t, sampleCombatantInfo), time.Now())
	if err != nil {
		t.Fatalf("ParseCombatantInfo: %v", err)
	}
	if ev.GUID != "Player-1084-08A89569" || ev.TeamID != 0 || ev.SpecID != 256 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestParseEventErrors(t *testing.T) {
	now := time.Now()
	if _, err := ParseEncounterEnd(mustLine(t, "8/3 22:12:14.889  ENCOUNTER_END,2398,\"Shriekwing\",15"), now); !errors.Is(err, ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if _, err := ParseZoneChange(mustLine(t, "8/3 22:12:14.889  ZONE_CHANGE,abc,\"Somewhere\",0"), now); !errors.Is(err, ErrMalformedLogLine) {
		t.Fatalf("expected ErrMalformedLogLine, got %v", err)
	}
	if _, err := ParseZoneChange(mustLine(t, "garbage  ZONE_CHANGE,1,\"Somewhere\",0"), now); !errors.Is(err, ErrBadTimestamp) {
		t.Fatalf("expected ErrBadTimestamp, got %v", err)
	}
}
