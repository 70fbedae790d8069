package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/clients/pkg/logger"
)

// Step is one committed store write: the collection and the ids it produced.
type Step struct {
	Collection string   `json:"collection"`
	IDs        []string `json:"ids"`
}

// Saga tracks the committed writes of a multi-entity composition. The document stores offer no
// cross-collection transaction, so the step list is the compensation list: undoing a saga means
// deleting its steps in reverse order. Abandon never deletes anything, it only journals.
type Saga struct {
	name string

	mu    sync.Mutex
	steps []Step
}

func NewSaga(name string) *Saga {
	return &Saga{name: name}
}

// Record appends a committed write. Safe for concurrent branches.
func (s *Saga) Record(collection string, ids ...string) {
	if s == nil || len(ids) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, Step{Collection: collection, IDs: append([]string(nil), ids...)})
}

// Compensations returns the committed steps newest first.
func (s *Saga) Compensations() []Step {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Step, 0, len(s.steps))
	for i := len(s.steps) - 1; i >= 0; i-- {
		out = append(out, s.steps[i])
	}
	return out
}

// Abandon hands the committed steps to the journal and returns cause unchanged.
// A journal failure is logged, never surfaced.
func (s *Saga) Abandon(ctx context.Context, journal ResidueJournal, cause error, base *zap.Logger) error {
	steps := s.Compensations()
	if len(steps) == 0 {
		return cause
	}
	log := logger.WithRequestID(ctx, base)
	if log == nil {
		log = zap.NewNop()
	}
	log.Warn("saga abandoned with committed writes",
		zap.String("saga", s.name),
		zap.Int("steps", len(steps)),
		zap.Error(cause))

	if journal == nil {
		return cause
	}
	residue := Residue{
		Saga:       s.name,
		Steps:      steps,
		Cause:      errorText(cause),
		OccurredAt: time.Now().UTC(),
	}
	if err := journal.RecordResidue(context.WithoutCancel(ctx), residue); err != nil {
		log.Error("failed to journal saga residue", zap.String("saga", s.name), zap.Error(err))
	}
	return cause
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
