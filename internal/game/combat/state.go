package combat

// Outcome is the terminal result of an encounter.
type Outcome string

const (
	// OutcomeNone means the encounter is still running.
	OutcomeNone Outcome = ""
	// OutcomeVictory means every monster fell.
	OutcomeVictory Outcome = "victory"
	// OutcomeDefeat means every player fell.
	OutcomeDefeat Outcome = "defeat"
	// OutcomeFled means a player ended combat early.
	OutcomeFled Outcome = "fled"
)

// LogLimit bounds the rolling combat log.
const LogLimit = 5

// State is the full encounter snapshot: participants ordered by descending
// initiative, the turn cursor, and the rolling log.
type State struct {
	Active       bool        `json:"isActive"`
	Round        int         `json:"round"`
	TurnIndex    int         `json:"turnIndex"`
	Participants []Combatant `json:"participants"`
	Log          []string    `json:"log"`
	Outcome      Outcome     `json:"outcome,omitempty"`
}

// Current returns the combatant whose turn it is, or nil when combat is
// not running.
func (s *State) Current() *Combatant {
	if !s.Active || len(s.Participants) == 0 {
		return nil
	}
	return &s.Participants[s.TurnIndex]
}

func (s *State) appendLog(entry string) {
	s.Log = append(s.Log, entry)
	if len(s.Log) > LogLimit {
		s.Log = s.Log[len(s.Log)-LogLimit:]
	}
}

// advance moves the turn cursor, bumping the round when it wraps.
func (s *State) advance() {
	s.TurnIndex = (s.TurnIndex + 1) % len(s.Participants)
	if s.TurnIndex == 0 {
		s.Round++
	}
}

func (s *State) find(id string) *Combatant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// firstAlive returns the first living combatant on the given side in
// initiative order, or nil.
func (s *State) firstAlive(side Side) *Combatant {
	for i := range s.Participants {
		p := &s.Participants[i]
		if p.Side == side && p.Alive() {
			return p
		}
	}
	return nil
}

func (s *State) anyAlive(side Side) bool {
	return s.firstAlive(side) != nil
}

// Players returns the player-side combatants.
func (s *State) Players() []Combatant {
	var out []Combatant
	for _, p := range s.Participants {
		if p.Side == SidePlayer {
			out = append(out, p)
		}
	}
	return out
}

// Monsters returns the monster-side combatants.
func (s *State) Monsters() []Combatant {
	var out []Combatant
	for _, p := range s.Participants {
		if p.Side == SideMonster {
			out = append(out, p)
		}
	}
	return out
}
