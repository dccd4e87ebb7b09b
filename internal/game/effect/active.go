// Package effect tracks named, stacking, timed status effects on a character.
package effect

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Well-known effect names used by the derived-stats pipeline.
const (
	// NameVigor is the milk buff: +50% recovery, +10% combat damage.
	NameVigor = "Vigor Lácteo"
	// NameWellbeing is the pregnancy wellbeing buff: +40% HP recovery.
	NameWellbeing = "Bem Estar na Gravidez"
	// NameHappy scales its bonuses by stack intensity (+5% per stack).
	NameHappy = "Feliz"
)

// MaxIntensity caps how many stacks a single effect can accumulate, keeping
// intensity-scaled percentage bonuses bounded.
const MaxIntensity = 10

// Active is one applied effect.
//
// Invariant: Intensity is in [1, MaxIntensity].
type Active struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`  // remaining game turns
	Intensity   int    `json:"intensity"` // stack count, starts at 1
}

// Set tracks all effects on one character, deduplicated by name.
// It is not safe for concurrent use; the caller must serialise access.
type Set struct {
	effects []Active
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{}
}

// Restore rebuilds a Set from persisted effects, clamping intensities that
// predate the stack cap.
func Restore(effects []Active) *Set {
	s := &Set{effects: make([]Active, 0, len(effects))}
	for _, e := range effects {
		if e.Intensity < 1 {
			e.Intensity = 1
		}
		if e.Intensity > MaxIntensity {
			e.Intensity = MaxIntensity
		}
		s.effects = append(s.effects, e)
	}
	return s
}

// Apply adds or refreshes the effect with the given name. A re-application
// resets the duration and increments intensity by one (capped at
// MaxIntensity); a first application starts at intensity 1.
//
// Postcondition: Has(name) is true and Intensity(name) is in [1, MaxIntensity].
func (s *Set) Apply(name, description string, duration int) {
	s.apply(name, description, duration, 0)
}

// ApplyWithIntensity behaves like Apply but forces the stack count instead of
// incrementing it. Intensity is clamped to [1, MaxIntensity].
func (s *Set) ApplyWithIntensity(name, description string, duration, intensity int) {
	if intensity < 1 {
		intensity = 1
	}
	s.apply(name, description, duration, intensity)
}

func (s *Set) apply(name, description string, duration, override int) {
	for i := range s.effects {
		if s.effects[i].Name != name {
			continue
		}
		next := s.effects[i].Intensity + 1
		if override > 0 {
			next = override
		}
		if next > MaxIntensity {
			next = MaxIntensity
		}
		s.effects[i].Intensity = next
		s.effects[i].Duration = duration
		return
	}
	intensity := 1
	if override > 0 {
		intensity = override
		if intensity > MaxIntensity {
			intensity = MaxIntensity
		}
	}
	s.effects = append(s.effects, Active{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Duration:    duration,
		Intensity:   intensity,
	})
}

// Tick decrements every effect's remaining duration by one turn and removes
// the ones that reach zero. Returns the names of expired effects.
//
// Postcondition: Has(name) is false for every returned name.
func (s *Set) Tick() []string {
	var expired []string
	kept := s.effects[:0]
	for _, e := range s.effects {
		e.Duration--
		if e.Duration <= 0 {
			expired = append(expired, e.Name)
			continue
		}
		kept = append(kept, e)
	}
	s.effects = kept
	return expired
}

// Remove deletes the effect with the given name. No-op if absent.
func (s *Set) Remove(name string) {
	kept := s.effects[:0]
	for _, e := range s.effects {
		if e.Name != name {
			kept = append(kept, e)
		}
	}
	s.effects = kept
}

// Has reports whether an effect with the given name is active.
func (s *Set) Has(name string) bool {
	for _, e := range s.effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Intensity returns the stack count for name, or 0 when absent.
func (s *Set) Intensity(name string) int {
	for _, e := range s.effects {
		if e.Name == name {
			return e.Intensity
		}
	}
	return 0
}

// All returns a copy of the active effects in application order.
func (s *Set) All() []Active {
	out := make([]Active, len(s.effects))
	copy(out, s.effects)
	return out
}

// Len returns the number of distinct active effects.
func (s *Set) Len() int { return len(s.effects) }

// MarshalJSON serialises the Set as a flat effect array.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s == nil || s.effects == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.effects)
}

// UnmarshalJSON restores a Set from a flat effect array, clamping legacy
// intensities the same way Restore does.
func (s *Set) UnmarshalJSON(data []byte) error {
	var effects []Active
	if err := json.Unmarshal(data, &effects); err != nil {
		return err
	}
	*s = *Restore(effects)
	return nil
}
