package journal

import (
	"time"

	"github.com/google/uuid"
)

// Step lists the ids written to one collection before a composition gave up.
type Step struct {
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}

// Entry is one abandoned composition kept for operator review.
type Entry struct {
	ID         string    `json:"id"`
	Saga       string    `json:"saga"`
	Steps      []Step    `json:"steps"`
	Cause      string    `json:"cause"`
	OccurredAt time.Time `json:"occurred_at"`

	bucketKey []byte
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
}

// Documents counts the ids listed across all steps.
func (e Entry) Documents() int {
	n := 0
	for _, s := range e.Steps {
		n += len(s.IDs)
	}
	return n
}
