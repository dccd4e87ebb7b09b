package character

import "github.com/google/uuid"

// Placeholder values a later NPC sighting is allowed to overwrite.
const (
	UnknownOccupation  = "Desconhecido"
	NeutralPersonality = "Neutro"
)

// Relation labels for a social bond.
const (
	RelationNeutral = "Neutro"
	RelationFriend  = "Amigo"
	RelationEnemy   = "Inimigo"
)

// Bond records what a character knows about one NPC.
type Bond struct {
	TargetID     string `json:"targetId"`
	TargetName   string `json:"targetName"`
	TargetGender string `json:"targetGender"`
	Occupation   string `json:"occupation,omitempty"`
	Personality  string `json:"personality,omitempty"`
	Affinity     int    `json:"affinity"`
	Relation     string `json:"relation"`
}

// MeetNPC records an NPC sighting. An unknown name creates a fresh neutral
// bond; a known name only fills occupation and personality fields that are
// still unset or placeholder.
func (c *Character) MeetNPC(name, gender, occupation, personality string) {
	for i := range c.Social {
		bond := &c.Social[i]
		if bond.TargetName != name {
			continue
		}
		if bond.Occupation == "" || bond.Occupation == UnknownOccupation {
			bond.Occupation = occupation
		}
		if bond.Personality == "" || bond.Personality == NeutralPersonality {
			bond.Personality = personality
		}
		return
	}
	c.Social = append(c.Social, Bond{
		TargetID:     uuid.NewString(),
		TargetName:   name,
		TargetGender: gender,
		Occupation:   occupation,
		Personality:  personality,
		Affinity:     0,
		Relation:     RelationNeutral,
	})
}
