package activity

import (
	"testing"
	"time"

	"warcraft-recorder/internal/combatant"
	"warcraft-recorder/internal/dispatch"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/recorder"
)

type stopCall struct {
	meta    recorder.Metadata
	overrun time.Duration
}

type fakeRecorder struct {
	starts         int
	stops          []stopCall
	buffersStarted int
	buffersStopped int
}

func (r *fakeRecorder) Start() { r.starts++ }
func (r *fakeRecorder) Stop(meta recorder.Metadata, overrun time.Duration) {
	r.stops = append(r.stops, stopCall{meta: meta, overrun: overrun})
}
func (r *fakeRecorder) StartBuffer() { r.buffersStarted++ }
func (r *fakeRecorder) StopBuffer() { r.buffersStopped++ }

func (r *fakeRecorder) lastStop(t *testing.T) stopCall {
	t.Helper()
	if len(r.stops) == 0 {
		t.Fatalf("expected a stop signal")
	}
	return r.stops[len(r.stops)-1]
}

type harness struct {
	t          *testing.T
	rec        *fakeRecorder
	combatants *combatant.Registry
	machine    *Machine
	dispatcher *dispatch.Dispatcher
	now        time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := logging.New(false)
	logger.SetTerminalOutputEnabled(false)

	rec := &fakeRecorder{}
	combatants := combatant.NewRegistry()
	machine := NewMachine(rec, combatants, logger)
	d := dispatch.New(logger, time.Hour, dispatch.Callbacks{})
	machine.Register(d)
	return &harness{
		t:          t,
		rec:        rec,
		combatants: combatants,
		machine:    machine,
		dispatcher: d,
		now:        time.Date(2022, time.August, 10, 12, 0, 0, 0, time.Local),
	}
}

func (h *harness) feed(lines ...string) {
	h.t.Helper()
	for _, line := range lines {
		if !h.dispatcher.HandleLine("/wow/_retail_/Logs", "wow", line, h.now) {
			h.t.Fatalf("line rejected: %s", line)
		}
	}
}

const (
	arenaStart2v2   = "8/3 22:09:58.548  ARENA_MATCH_START,2547,33,2v2,1"
	arenaCombatant  = "8/3 22:09:58.548  COMBATANT_INFO,Player-1084-08A89569,0,194,452,3670,2353,0,0,0,111,111,111,0,0,632,632,632,0,345,1193,1193,1193,779,256,(102351,102401,197491,5211,158478,203651,155675),(0,203553,203399,353114),[4,4,[],[(1123),(1124)],[(256,200)]],[(188847,265,(),(7578,8151),())],[Player-1084-08A89569,768,Player-1084-08A89569,5225],327,33,767,1"
	arenaOpponent   = "8/3 22:09:58.548  COMBATANT_INFO,Player-1084-0AAAAAAA,1,194,452,3670,2353,0,0,0,111,111,111,0,0,632,632,632,0,345,1193,1193,1193,779,62,(),(),[],[],[],327,33,767,1"
	arenaSelfAura   = `8/3 22:09:59.365  SPELL_AURA_APPLIED,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,Player-1084-08A89569,"Alexsmite-TarrenMill",0x511,0x0,110310,"Dampening",0x1,DEBUFF`
	arenaEnemyAura  = `8/3 22:09:59.365  SPELL_AURA_APPLIED,Player-1084-0AAAAAAA,"Enemy-Kazzak",0x548,0x0,Player-1084-0AAAAAAA,"Enemy-Kazzak",0x548,0x0,110310,"Dampening",0x1,DEBUFF`
	arenaEndTeam0   = "8/3 22:12:14.889  ARENA_MATCH_END,0,8,1673,1668"
	arenaEndTeam1   = "8/3 22:12:14.889  ARENA_MATCH_END,1,8,1673,1668"
	shuffleStart    = "8/3 22:00:00.000  ARENA_MATCH_START,1672,44,Rated Solo Shuffle,1"
	shuffleEnd      = "8/3 22:02:10.000  ARENA_MATCH_END,0,25,1800,1790"
	zoneIntoArena   = `8/3 22:12:20.000  ZONE_CHANGE,1,"Orgrimmar",0`
	raidStart       = `8/5 20:00:00.000  ENCOUNTER_START,2398,"Shriekwing",16,20,13224`
	raidEndKill     = `8/5 20:03:20.400  ENCOUNTER_END,2398,"Shriekwing",16,20,1`
	raidZoneChange  = `8/5 20:01:00.000  ZONE_CHANGE,2296,"Castle Nathria",16`
	dungeonStart    = `8/4 20:00:00.000  CHALLENGE_MODE_START,"Mists of Tirna Scithe",2290,375,12,[10,11,3,121]`
	dungeonBoss     = `8/4 20:05:00.000  ENCOUNTER_START,2397,"Ingra Maloch",8,5,2290`
	dungeonBossKill = `8/4 20:07:00.000  ENCOUNTER_END,2397,"Ingra Maloch",8,5,1`
	dungeonEnd      = "8/4 20:24:00.000  CHALLENGE_MODE_END,2290,1,12,1436498"
)

func TestArenaWinWithIdentifiedPlayer(t *testing.T) {
	h := newHarness(t)
	h.feed(arenaStart2v2, arenaCombatant, arenaOpponent, arenaEnemyAura, arenaSelfAura, arenaEndTeam0)

	if h.rec.starts != 1 || len(h.rec.stops) != 1 {
		t.Fatalf("unexpected signals: starts=%d stops=%d", h.rec.starts, len(h.rec.stops))
	}
	stop := h.rec.lastStop(t)
	meta := stop.meta
	if !meta.Result {
		t.Fatalf("expected a win")
	}
	if meta.TeamMMR == nil || *meta.TeamMMR != 1673 {
		t.Fatalf("expected team 0 MMR 1673, got %v", meta.TeamMMR)
	}
	if meta.Duration != 11 || stop.overrun != 3*time.Second {
		t.Fatalf("unexpected duration %d overrun %s", meta.Duration, stop.overrun)
	}
	if meta.PlayerName != "Alexsmite" || meta.PlayerRealm != "TarrenMill" || meta.PlayerSpecID == nil || *meta.PlayerSpecID != 256 {
		t.Fatalf("unexpected player fields %+v", meta)
	}
	if meta.Category != "2v2" || meta.ZoneID == nil || *meta.ZoneID != 2547 || meta.Name != "Enigma Crucible" {
		t.Fatalf("unexpected arena metadata %+v", meta)
	}
	if h.combatants.Len() != 0 || h.combatants.HasPlayer() {
		t.Fatalf("combatants must be cleared after the match")
	}
	if _, ok := h.machine.Current(); ok {
		t.Fatalf("no activity should remain")
	}
}

func TestArenaLossUsesOwnTeamMMR(t *testing.T) {
	h := newHarness(t)
	playerOnTeam1 := "8/3 22:09:58.548  COMBATANT_INFO,Player-1084-08A89569,1,194,452,3670,2353,0,0,0,111,111,111,0,0,632,632,632,0,345,1193,1193,1193,779,256,(),(),[],[],[],327,33,767,1"
	h.feed(arenaStart2v2, playerOnTeam1, arenaSelfAura, arenaEndTeam0)

	meta := h.rec.lastStop(t).meta
	if meta.Result {
		t.Fatalf("expected a loss")
	}
	if meta.TeamMMR == nil || *meta.TeamMMR != 1668 {
		t.Fatalf("expected team 1 MMR 1668, got %v", meta.TeamMMR)
	}
}

func TestArenaWithoutSelfOmitsPlayer(t *testing.T) {
	h := newHarness(t)
	h.feed(arenaStart2v2, arenaCombatant, arenaEndTeam0)

	meta := h.rec.lastStop(t).meta
	if meta.Result || meta.TeamMMR != nil {
		t.Fatalf("unknown player must give a loss without MMR: %+v", meta)
	}
	if meta.PlayerName != "" || meta.PlayerRealm != "" || meta.PlayerSpecID != nil {
		t.Fatalf("player fields must be omitted: %+v", meta)
	}
	if meta.Duration != 11 {
		t.Fatalf("duration should still be computed, got %d", meta.Duration)
	}
}

func TestDuplicateArenaStartIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.feed(arenaStart2v2, arenaStart2v2, arenaEndTeam1)
	if h.rec.starts != 1 || len(h.rec.stops) != 1 {
		t.Fatalf("unexpected signals: starts=%d stops=%d", h.rec.starts, len(h.rec.stops))
	}
	h.feed(arenaEndTeam1)
	if len(h.rec.stops) != 1 {
		t.Fatalf("arena end without an arena must be ignored")
	}
}

func TestSoloShuffleUsesWallClockDuration(t *testing.T) {
	h := newHarness(t)
	h.feed(shuffleStart, shuffleEnd)

	meta := h.rec.lastStop(t).meta
	if meta.Category != "Solo Shuffle" {
		t.Fatalf("unexpected category %q", meta.Category)
	}
	if meta.Duration != 133 {
		t.Fatalf("expected 130s plus overrun, got %d", meta.Duration)
	}
}

func TestZoneChangeStopsArenaAsLoss(t *testing.T) {
	h := newHarness(t)
	h.feed(arenaStart2v2, arenaCombatant, arenaSelfAura, zoneIntoArena)

	stop := h.rec.lastStop(t)
	if stop.meta.Result || stop.overrun != 0 {
		t.Fatalf("zone-out must be an immediate loss: %+v", stop)
	}
	if stop.meta.Duration != 141 {
		t.Fatalf("unexpected zone-out duration %d", stop.meta.Duration)
	}
	if stop.meta.PlayerName != "Alexsmite" {
		t.Fatalf("player should still be stamped, got %+v", stop.meta)
	}
}

func TestBattlegroundLifecycle(t *testing.T) {
	h := newHarness(t)
	h.feed(
		`8/6 19:00:00.000  ZONE_CHANGE,489,"Warsong Gulch",0`,
		`8/6 19:00:30.000  ZONE_CHANGE,489,"Warsong Gulch",0`,
		`8/6 19:15:00.000  ZONE_CHANGE,1519,"Stormwind City",0`,
	)
	if h.rec.starts != 1 || len(h.rec.stops) != 1 {
		t.Fatalf("unexpected signals: starts=%d stops=%d", h.rec.starts, len(h.rec.stops))
	}
	meta := h.rec.lastStop(t).meta
	if meta.Category != "Battlegrounds" || meta.Result || meta.Duration != 900 || meta.Name != "Warsong Gulch" {
		t.Fatalf("unexpected battleground metadata %+v", meta)
	}
}

func TestRaidEncounter(t *testing.T) {
	h := newHarness(t)
	h.feed(raidStart, raidZoneChange, raidEndKill)

	if len(h.rec.stops) != 1 {
		t.Fatalf("raid zone change must not stop the recording")
	}
	stop := h.rec.lastStop(t)
	if !stop.meta.Result || stop.overrun != 15*time.Second {
		t.Fatalf("unexpected raid stop %+v", stop)
	}
	if stop.meta.Duration != 215 {
		t.Fatalf("expected 200s plus overrun, got %d", stop.meta.Duration)
	}
	if stop.meta.EncounterID == nil || *stop.meta.EncounterID != 2398 || stop.meta.Name != "Shriekwing" {
		t.Fatalf("unexpected encounter metadata %+v", stop.meta)
	}
	if stop.meta.Difficulty != "Mythic" || stop.meta.ZoneName != "Castle Nathria" {
		t.Fatalf("unexpected raid labels %+v", stop.meta)
	}
}

func TestMythicPlusTrailingTrashDropped(t *testing.T) {
	h := newHarness(t)
	h.feed(dungeonStart, dungeonBoss,
		`8/4 20:06:00.000  UNIT_DIED,0000000000000000,nil,0x80000000,0x80000000,Creature-0-1-2290-1-164567-1,"Ingra Maloch",0xa48,0x0,0`,
		dungeonBossKill,
		`8/4 20:07:00.200  UNIT_DIED,0000000000000000,nil,0x80000000,0x80000000,Creature-0-1-2290-1-164804-1,"Droman Oulfarran",0xa48,0x0,0`,
		dungeonEnd,
	)

	stop := h.rec.lastStop(t)
	cm := stop.meta.ChallengeMode
	if cm == nil {
		t.Fatalf("expected challenge mode metadata")
	}
	if len(cm.Segments) != 2 {
		t.Fatalf("expected trailing trash to be dropped, got %d segments", len(cm.Segments))
	}
	if cm.Segments[0].Kind != "Trash" || cm.Segments[0].Offset != 0 {
		t.Fatalf("unexpected first segment %+v", cm.Segments[0])
	}
	boss := cm.Segments[1]
	if boss.Kind != "Boss" || boss.Offset != 300 || boss.Result == nil || !*boss.Result || boss.EncounterName != "Ingra Maloch" {
		t.Fatalf("unexpected boss segment %+v", boss)
	}
	if stop.overrun != 5*time.Second || stop.meta.Duration != 1445 {
		t.Fatalf("unexpected duration %d overrun %s", stop.meta.Duration, stop.overrun)
	}
	if !stop.meta.Result || !cm.Timed || cm.Upgrade != 2 || cm.Duration != 1436 {
		t.Fatalf("unexpected keystone result %+v", cm)
	}
	if stop.meta.Category != "Mythic+" || stop.meta.Name != "Mists of Tirna Scithe" {
		t.Fatalf("unexpected dungeon metadata %+v", stop.meta)
	}
}

func TestMythicPlusTrailingTrashKept(t *testing.T) {
	cases := map[string][]string{
		"late death": {
			dungeonStart, dungeonBoss, dungeonBossKill,
			`8/4 20:07:00.300  UNIT_DIED,0000000000000000,nil,0x80000000,0x80000000,Creature-0-1-2290-1-164804-1,"Droman Oulfarran",0xa48,0x0,0`,
			dungeonEnd,
		},
		"no death": {dungeonStart, dungeonBoss, dungeonBossKill, dungeonEnd},
	}
	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.feed(lines...)
			cm := h.rec.lastStop(t).meta.ChallengeMode
			if len(cm.Segments) != 3 {
				t.Fatalf("expected trailing trash to be kept, got %d segments", len(cm.Segments))
			}
			if cm.Segments[2].Kind != "Trash" || cm.Segments[2].Offset != 420 {
				t.Fatalf("unexpected trailing segment %+v", cm.Segments[2])
			}
		})
	}
}

func TestMythicPlusIgnoresNestedStarts(t *testing.T) {
	h := newHarness(t)
	h.feed(dungeonStart, dungeonStart, arenaStart2v2)
	if h.rec.starts != 1 {
		t.Fatalf("expected one start, got %d", h.rec.starts)
	}
	summary, ok := h.machine.Current()
	if !ok || summary.Category != CategoryMythicPlus || summary.Segments != 1 {
		t.Fatalf("unexpected current activity %+v", summary)
	}
}

func TestMythicPlusSegmentsAlternate(t *testing.T) {
	h := newHarness(t)
	h.feed(dungeonStart, dungeonBoss,
		`8/4 20:05:30.000  ENCOUNTER_START,2397,"Ingra Maloch",8,5,2290`,
		dungeonBossKill,
		`8/4 20:07:10.000  ENCOUNTER_END,2397,"Ingra Maloch",8,5,0`,
		dungeonEnd,
	)

	cm := h.rec.lastStop(t).meta.ChallengeMode
	want := []string{"Trash", "Boss", "Trash"}
	if len(cm.Segments) != len(want) {
		t.Fatalf("expected %d segments, got %+v", len(want), cm.Segments)
	}
	for i, kind := range want {
		if cm.Segments[i].Kind != kind {
			t.Fatalf("segment %d kind = %q, want %q", i, cm.Segments[i].Kind, kind)
		}
	}
	if cm.Segments[1].Offset != 300 || cm.Segments[1].Result == nil || !*cm.Segments[1].Result {
		t.Fatalf("duplicate lines must not alter the boss segment: %+v", cm.Segments[1])
	}
	if cm.Segments[2].Offset != 420 {
		t.Fatalf("trailing trash should open at the first kill, got %+v", cm.Segments[2])
	}
}

func TestProcessStoppedForcesLoss(t *testing.T) {
	h := newHarness(t)
	h.feed(raidStart)

	start := time.Date(2022, time.August, 5, 20, 0, 0, 0, time.Local)
	h.machine.ProcessStopped(start.Add(95 * time.Second))

	stop := h.rec.lastStop(t)
	if stop.meta.Result || stop.meta.Duration != 95 || stop.overrun != 0 {
		t.Fatalf("unexpected forced stop %+v", stop)
	}
	if h.rec.buffersStopped != 0 {
		t.Fatalf("buffer must not be stopped while an activity was finalized")
	}

	h.machine.ProcessStopped(start.Add(time.Hour))
	h.machine.ProcessStarted()
	if h.rec.buffersStopped != 1 || h.rec.buffersStarted != 1 {
		t.Fatalf("unexpected buffer signals: started=%d stopped=%d", h.rec.buffersStarted, h.rec.buffersStopped)
	}
	if len(h.rec.stops) != 1 {
		t.Fatalf("idle process exit must not stop a recording")
	}
}

func TestHooksFire(t *testing.T) {
	h := newHarness(t)
	var started []Summary
	var finished []recorder.Metadata
	h.machine.SetHooks(Hooks{
		OnStarted:   func(s Summary) { started = append(started, s) },
		OnFinalized: func(meta recorder.Metadata) { finished = append(finished, meta) },
	})
	h.feed(arenaStart2v2, arenaEndTeam0)
	if len(started) != 1 || started[0].Name != "Enigma Crucible" || started[0].Flavour != "wow" {
		t.Fatalf("unexpected start hooks %+v", started)
	}
	if len(finished) != 1 || finished[0].Category != "2v2" {
		t.Fatalf("unexpected finalize hooks %+v", finished)
	}
}
