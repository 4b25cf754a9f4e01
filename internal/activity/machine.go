package activity

import (
	"time"

	"warcraft-recorder/internal/combatant"
	"warcraft-recorder/internal/combatlog"
	"warcraft-recorder/internal/dispatch"
	"warcraft-recorder/internal/logging"
	"warcraft-recorder/internal/recorder"
)

// trailingTrashWindow is how soon after the last boss kill a unit death must
// land for the final trash segment to count as clean-up.
const trailingTrashWindow = 250 * time.Millisecond

// Activity is the recording currently in progress.
type Activity struct {
	Category      Category
	Flavour       string
	Start         time.Time
	ZoneID        int
	ZoneName      string
	EncounterID   int
	EncounterName string
	DifficultyID  int
	ChallengeMode *ChallengeMode
}

func (a *Activity) Name() string {
	switch {
	case a.ChallengeMode != nil:
		if name, ok := DungeonsByMapID[a.ChallengeMode.MapID]; ok {
			return name
		}
		return a.ZoneName
	case a.EncounterName != "":
		return a.EncounterName
	case a.ZoneName != "":
		return a.ZoneName
	}
	return string(a.Category)
}

// Summary is a read-only view of an activity for status displays.
type Summary struct {
	Category Category
	Name     string
	Flavour  string
	Start    time.Time
	Segments int
}

type Hooks struct {
	OnStarted   func(Summary)
	OnFinalized func(recorder.Metadata)
}

// Machine turns dispatched combat log events into recorder start and stop
// signals. It holds at most one activity; Mythic+ boss pulls nest inside the
// run as segments. Owned by the ingestion goroutine.
type Machine struct {
	logger     *logging.Logger
	recorder   recorder.Recorder
	combatants *combatant.Registry
	hooks      Hooks

	current      *Activity
	lastUnitDied time.Time
}

func NewMachine(rec recorder.Recorder, combatants *combatant.Registry, logger *logging.Logger) *Machine {
	if logger == nil {
		panic("activity.NewMachine: logger must not be nil")
	}
	if rec == nil {
		panic("activity.NewMachine: recorder must not be nil")
	}
	if combatants == nil {
		combatants = combatant.NewRegistry()
	}
	return &Machine{logger: logger, recorder: rec, combatants: combatants}
}

func (m *Machine) SetHooks(hooks Hooks) {
	m.hooks = hooks
}

// Register installs the machine's handlers on d.
func (m *Machine) Register(d *dispatch.Dispatcher) {
	d.Register(combatlog.EventArenaMatchStart, m.handleArenaMatchStart)
	d.Register(combatlog.EventArenaMatchEnd, m.handleArenaMatchEnd)
	d.Register(combatlog.EventEncounterStart, m.handleEncounterStart)
	d.Register(combatlog.EventEncounterEnd, m.handleEncounterEnd)
	d.Register(combatlog.EventChallengeModeStart, m.handleChallengeModeStart)
	d.Register(combatlog.EventChallengeModeEnd, m.handleChallengeModeEnd)
	d.Register(combatlog.EventZoneChange, m.handleZoneChange)
	d.Register(combatlog.EventCombatantInfo, m.handleCombatantInfo)
	d.Register(combatlog.EventSpellAuraApplied, m.handleSpellAuraApplied)
	d.Register(combatlog.EventUnitDied, m.handleUnitDied)
}

func (m *Machine) Current() (Summary, bool) {
	if m.current == nil {
		return Summary{}, false
	}
	return m.summary(m.current), true
}

func (m *Machine) summary(a *Activity) Summary {
	s := Summary{Category: a.Category, Name: a.Name(), Flavour: a.Flavour, Start: a.Start}
	if a.ChallengeMode != nil {
		s.Segments = len(a.ChallengeMode.Segments)
	}
	return s
}

func (m *Machine) begin(a *Activity) {
	m.current = a
	m.lastUnitDied = time.Time{}
	m.logger.Info("activity started",
		logging.Field("category", string(a.Category)),
		logging.Field("name", a.Name()),
		logging.Field("flavour", a.Flavour),
	)
	m.recorder.Start()
	if m.hooks.OnStarted != nil {
		m.hooks.OnStarted(m.summary(a))
	}
}

// finalize hands the activity to the recorder and resets per-activity state.
func (m *Machine) finalize(meta recorder.Metadata, overrun time.Duration) {
	m.logger.Info("activity finished",
		logging.Field("category", meta.Category),
		logging.Field("name", meta.Title()),
		logging.Field("duration", meta.Duration),
		logging.Field("result", meta.ResultLabel()),
	)
	m.recorder.Stop(meta, overrun)
	m.combatants.Clear()
	m.current = nil
	m.lastUnitDied = time.Time{}
	if m.hooks.OnFinalized != nil {
		m.hooks.OnFinalized(meta)
	}
}

func (m *Machine) metadata(a *Activity) recorder.Metadata {
	meta := recorder.Metadata{
		Name:          a.Name(),
		Category:      string(a.Category),
		Flavour:       a.Flavour,
		StartTime:     a.Start,
		ZoneName:      a.ZoneName,
		EncounterName: a.EncounterName,
	}
	if a.ZoneID != 0 {
		meta.ZoneID = recorder.IntPtr(a.ZoneID)
	}
	if a.EncounterID != 0 {
		meta.EncounterID = recorder.IntPtr(a.EncounterID)
	}
	if d, ok := Difficulties[a.DifficultyID]; ok {
		meta.Difficulty = d.Label
	}
	if a.ChallengeMode != nil {
		meta.ChallengeMode = a.ChallengeMode.Metadata()
	}

	player, ok := m.combatants.Player()
	if !ok {
		m.logger.Debug("finishing activity without player identity",
			logging.Field("category", string(a.Category)),
			logging.Field("error", combatant.ErrMissingCombatant.Error()),
		)
		return meta
	}
	meta.PlayerName = player.Name
	meta.PlayerRealm = player.Realm
	meta.PlayerSpecID = recorder.IntPtr(player.SpecID)
	return meta
}

func (m *Machine) handleArenaMatchStart(ev dispatch.Event) error {
	start, err := combatlog.ParseArenaMatchStart(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	if m.current != nil {
		m.logger.Debug("ignoring arena start while an activity is in progress",
			logging.Field("current", string(m.current.Category)))
		return nil
	}

	category, known := BracketCategory(start.Bracket)
	if !known {
		m.logger.Debug("unknown arena bracket, recording as skirmish", logging.Field("bracket", start.Bracket))
	}
	m.begin(&Activity{
		Category: category,
		Flavour:  ev.Flavour,
		Start:    start.Time,
		ZoneID:   start.ZoneID,
		ZoneName: Arenas[start.ZoneID],
	})
	return nil
}

func (m *Machine) handleArenaMatchEnd(ev dispatch.Event) error {
	end, err := combatlog.ParseArenaMatchEnd(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	a := m.current
	if a == nil || !a.Category.IsArena() {
		m.logger.Debug("ignoring arena end without an arena in progress")
		return nil
	}

	// Solo Shuffle reports only the last round, so use the span of the lines.
	duration := end.Duration
	if a.Category == CategorySoloShuffle {
		duration = roundSeconds(end.Time.Sub(a.Start))
	}

	meta := m.metadata(a)
	meta.Duration = duration + roundSeconds(ArenaOverrun)
	if player, ok := m.combatants.Player(); ok && (player.TeamID == 0 || player.TeamID == 1) {
		meta.Result = player.TeamID == end.WinningTeam
		meta.TeamMMR = recorder.IntPtr(end.TeamMMR[player.TeamID])
	}
	m.finalize(meta, ArenaOverrun)
	return nil
}

func (m *Machine) handleEncounterStart(ev dispatch.Event) error {
	start, err := combatlog.ParseEncounterStart(ev.Line, ev.Received)
	if err != nil {
		return err
	}

	if a := m.current; a != nil {
		if a.ChallengeMode == nil {
			m.logger.Debug("ignoring encounter start while an activity is in progress",
				logging.Field("current", string(a.Category)),
				logging.Field("encounter_id", start.EncounterID))
			return nil
		}
		if seg := a.ChallengeMode.CurrentSegment(); seg != nil && seg.Kind == SegmentBossEncounter {
			m.logger.Debug("ignoring encounter start while a boss segment is open",
				logging.Field("open_encounter_id", seg.EncounterID),
				logging.Field("encounter_id", start.EncounterID))
			return nil
		}
		a.ChallengeMode.AddSegment(SegmentBossEncounter, start.EncounterID, start.Time)
		m.logger.Debug("boss encounter segment started",
			logging.Field("encounter_id", start.EncounterID),
			logging.Field("encounter", start.EncounterName))
		return nil
	}

	name := start.EncounterName
	if known := EncounterName(start.EncounterID); known != "" {
		name = known
	}
	m.begin(&Activity{
		Category:      CategoryRaids,
		Flavour:       ev.Flavour,
		Start:         start.Time,
		ZoneID:        start.InstanceID,
		ZoneName:      RaidInstances[start.InstanceID],
		EncounterID:   start.EncounterID,
		EncounterName: name,
		DifficultyID:  start.DifficultyID,
	})
	return nil
}

func (m *Machine) handleEncounterEnd(ev dispatch.Event) error {
	end, err := combatlog.ParseEncounterEnd(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	a := m.current
	if a == nil {
		return nil
	}

	if cm := a.ChallengeMode; cm != nil {
		seg := cm.CurrentSegment()
		if seg == nil || seg.Kind != SegmentBossEncounter {
			m.logger.Debug("ignoring encounter end without an open boss segment",
				logging.Field("encounter_id", end.EncounterID))
			return nil
		}
		seg.Result = recorder.BoolPtr(end.Success)
		cm.AddSegment(SegmentTrash, 0, end.Time)
		m.lastUnitDied = time.Time{}
		m.logger.Debug("boss encounter segment ended",
			logging.Field("encounter_id", end.EncounterID),
			logging.Field("kill", end.Success))
		return nil
	}
	if a.Category != CategoryRaids {
		return nil
	}

	meta := m.metadata(a)
	meta.Duration = roundSeconds(end.Time.Sub(a.Start)) + roundSeconds(RaidOverrun)
	meta.Result = end.Success
	m.finalize(meta, RaidOverrun)
	return nil
}

func (m *Machine) handleChallengeModeStart(ev dispatch.Event) error {
	start, err := combatlog.ParseChallengeModeStart(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	if m.current != nil {
		m.logger.Debug("ignoring challenge mode start while an activity is in progress",
			logging.Field("current", string(m.current.Category)))
		return nil
	}

	zoneName := start.ZoneName
	if known, ok := DungeonsByZoneID[start.ZoneID]; ok {
		zoneName = known
	}
	m.begin(&Activity{
		Category:      CategoryMythicPlus,
		Flavour:       ev.Flavour,
		Start:         start.Time,
		ZoneID:        start.ZoneID,
		ZoneName:      zoneName,
		ChallengeMode: NewChallengeMode(start.ZoneID, start.MapID, start.Level, start.Affixes, start.Time),
	})
	return nil
}

func (m *Machine) handleChallengeModeEnd(ev dispatch.Event) error {
	end, err := combatlog.ParseChallengeModeEnd(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	a := m.current
	if a == nil || a.ChallengeMode == nil {
		m.logger.Debug("ignoring challenge mode end without a run in progress")
		return nil
	}
	cm := a.ChallengeMode
	cm.Complete(end.Elapsed)

	lastBoss := cm.LastBossEncounter()
	trailing := cm.CurrentSegment()
	if lastBoss != nil && !m.lastUnitDied.IsZero() && trailing != nil && trailing.Kind == SegmentTrash &&
		m.lastUnitDied.Sub(lastBoss.LogEnd) <= trailingTrashWindow {
		m.logger.Debug("dropping trailing trash segment",
			logging.Field("last_death_after_boss", m.lastUnitDied.Sub(lastBoss.LogEnd).String()))
		cm.RemoveLastSegment()
	} else {
		cm.EndSegment(end.Time)
	}

	meta := m.metadata(a)
	meta.Duration = roundSeconds(end.Time.Sub(a.Start)) + roundSeconds(MythicPlusOverrun)
	meta.Result = end.Success
	m.finalize(meta, MythicPlusOverrun)
	return nil
}

func (m *Machine) handleZoneChange(ev dispatch.Event) error {
	zone, err := combatlog.ParseZoneChange(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	isBattleground := IsBattleground(zone.ZoneID)
	a := m.current

	switch {
	case a == nil && isBattleground:
		m.begin(&Activity{
			Category:     CategoryBattlegrounds,
			Flavour:      ev.Flavour,
			Start:        zone.Time,
			ZoneID:       zone.ZoneID,
			ZoneName:     Battlegrounds[zone.ZoneID],
			DifficultyID: zone.DifficultyID,
		})
	case a != nil && a.Category == CategoryBattlegrounds && !isBattleground:
		// The log carries no battleground outcome.
		m.stopAsLoss(zone.Time, "left battleground")
	case a != nil && a.Category.IsArena():
		m.stopAsLoss(zone.Time, "zone change during arena")
	}
	// A zone change during a raid pull is not a stop signal; hearthing out
	// mid-encounter keeps recording until the encounter ends.
	return nil
}

func (m *Machine) stopAsLoss(at time.Time, reason string) {
	a := m.current
	m.logger.Info("stopping activity, assuming loss",
		logging.Field("category", string(a.Category)),
		logging.Field("reason", reason))
	meta := m.metadata(a)
	meta.Duration = roundSeconds(at.Sub(a.Start))
	meta.Result = false
	m.finalize(meta, 0)
}

func (m *Machine) handleCombatantInfo(ev dispatch.Event) error {
	info, err := combatlog.ParseCombatantInfo(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	m.combatants.Record(info.GUID, info.TeamID, info.SpecID)
	return nil
}

func (m *Machine) handleSpellAuraApplied(ev dispatch.Event) error {
	if m.combatants.HasPlayer() || m.combatants.Len() == 0 {
		return nil
	}
	aura, err := combatlog.ParseSpellAuraApplied(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	if m.combatants.TryIdentifySelf(aura.SourceGUID, aura.SourceName, aura.SourceFlags) {
		player, _ := m.combatants.Player()
		m.logger.Debug("identified player combatant",
			logging.Field("guid", player.GUID),
			logging.Field("name", player.Name),
			logging.Field("realm", player.Realm))
	}
	return nil
}

func (m *Machine) handleUnitDied(ev dispatch.Event) error {
	if m.current == nil || m.current.ChallengeMode == nil {
		return nil
	}
	died, err := combatlog.ParseUnitDied(ev.Line, ev.Received)
	if err != nil {
		return err
	}
	m.lastUnitDied = died.Time
	m.logger.Debug("unit died during keystone run",
		logging.Field("unit", died.DestName),
		logging.Field("guid", died.DestGUID))
	return nil
}

// ProcessStarted reacts to the game client appearing.
func (m *Machine) ProcessStarted() {
	m.logger.Info("game process detected")
	m.recorder.StartBuffer()
}

// ProcessStopped force-finishes any activity as a loss, timed against the
// wall clock, or stops the buffer when idle.
func (m *Machine) ProcessStopped(now time.Time) {
	m.logger.Info("game process exited")
	if m.current == nil {
		m.recorder.StopBuffer()
		return
	}
	m.stopAsLoss(now, "game process exited")
}
