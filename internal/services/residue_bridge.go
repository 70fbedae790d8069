package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/clients/internal/infrastructure/journal"
	"github.com/fastygo/clients/pkg/logger"
	"github.com/fastygo/clients/usecase"
)

// ResidueBridge adapts the bbolt journal to the use-case residue port.
type ResidueBridge struct {
	store  *journal.Store
	logger *zap.Logger
}

func NewResidueBridge(store *journal.Store, logger *zap.Logger) *ResidueBridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResidueBridge{store: store, logger: logger}
}

func (b *ResidueBridge) RecordResidue(ctx context.Context, residue usecase.Residue) error {
	if b == nil || b.store == nil {
		return errJournalNotConfigured
	}
	steps := make([]journal.Step, 0, len(residue.Steps))
	for _, s := range residue.Steps {
		steps = append(steps, journal.Step{Collection: s.Collection, IDs: s.IDs})
	}
	entry, err := b.store.Append(journal.Entry{
		Saga:       residue.Saga,
		Steps:      steps,
		Cause:      residue.Cause,
		OccurredAt: residue.OccurredAt,
	})
	if err != nil {
		return err
	}
	logger.WithRequestID(ctx, b.logger).Info("saga residue journaled",
		zap.String("entry_id", entry.ID),
		zap.String("saga", entry.Saga),
		zap.Int("documents", entry.Documents()))
	return nil
}

var _ usecase.ResidueJournal = (*ResidueBridge)(nil)
