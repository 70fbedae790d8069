package usecase

import (
	"context"
	"time"
)

// Residue describes writes left behind by a multi-entity composition that failed midway.
type Residue struct {
	Saga       string    `json:"saga"`
	Steps      []Step    `json:"steps"`
	Cause      string    `json:"cause"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ResidueJournal abstracts where abandoned sagas are recorded so use cases stay storage-agnostic.
type ResidueJournal interface {
	RecordResidue(ctx context.Context, residue Residue) error
}
