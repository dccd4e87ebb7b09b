// Package quest tracks the party's quest log.
package quest

import "github.com/google/uuid"

// Status of a quest.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Quest is one journal entry.
type Quest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      string `json:"reward"`
	Status      Status `json:"status"`
}

// Log is the quest journal, deduplicated by title.
// Not safe for concurrent use.
type Log struct {
	quests []Quest
}

// NewLog builds a journal from persisted quests.
func NewLog(quests []Quest) *Log {
	l := &Log{quests: make([]Quest, 0, len(quests))}
	l.quests = append(l.quests, quests...)
	return l
}

// Add appends a new active quest. A title already in the journal is a
// no-op; the boolean reports whether the quest was added.
func (l *Log) Add(title, description, reward string) bool {
	for _, q := range l.quests {
		if q.Title == title {
			return false
		}
	}
	l.quests = append(l.quests, Quest{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Reward:      reward,
		Status:      StatusActive,
	})
	return true
}

// SetStatus updates the status of the quest with the given id.
func (l *Log) SetStatus(id string, status Status) bool {
	for i := range l.quests {
		if l.quests[i].ID == id {
			l.quests[i].Status = status
			return true
		}
	}
	return false
}

// Active returns the titles of quests still in progress.
func (l *Log) Active() []string {
	var titles []string
	for _, q := range l.quests {
		if q.Status == StatusActive {
			titles = append(titles, q.Title)
		}
	}
	return titles
}

// All returns a copy of the journal.
func (l *Log) All() []Quest {
	out := make([]Quest, len(l.quests))
	copy(out, l.quests)
	return out
}
