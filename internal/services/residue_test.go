package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/clients/internal/infrastructure/journal"
	"github.com/fastygo/clients/usecase"
)

func openJournal(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestResidueBridge_AbandonedSagaLandsInJournal(t *testing.T) {
	store := openJournal(t)
	bridge := NewResidueBridge(store, nil)

	saga := usecase.NewSaga("client.create")
	saga.Record("persons", "p-1")
	saga.Record("legal_representatives", "lr-1", "lr-2")

	cause := errors.New("clients write refused")
	err := saga.Abandon(context.Background(), bridge, cause, zap.NewNop())
	require.ErrorIs(t, err, cause)

	entries, err := store.List(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "client.create", entries[0].Saga)
	assert.Equal(t, "clients write refused", entries[0].Cause)
	assert.Equal(t, 3, entries[0].Documents())
	assert.Equal(t, "legal_representatives", entries[0].Steps[0].Collection)
}

func TestResidueBridge_Unconfigured(t *testing.T) {
	var bridge *ResidueBridge
	err := bridge.RecordResidue(context.Background(), usecase.Residue{Saga: "x"})
	assert.ErrorIs(t, err, errJournalNotConfigured)
}

func TestResidueReporter_ReportExpiresAndLogs(t *testing.T) {
	store := openJournal(t)
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	_, err := store.Append(journal.Entry{Saga: "old", OccurredAt: now.Add(-10 * 24 * time.Hour)})
	require.NoError(t, err)
	_, err = store.Append(journal.Entry{Saga: "client.create", OccurredAt: now.Add(-time.Hour), Cause: "boom"})
	require.NoError(t, err)

	core, logs := observer.New(zap.DebugLevel)
	reporter := NewResidueReporter(store, zap.New(core), ReporterConfig{Retention: 24 * time.Hour})
	reporter.now = func() time.Time { return now }

	remaining, err := reporter.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
	assert.Equal(t, 1, reporter.Size())

	pending := logs.FilterMessage("saga residue").All()
	require.Len(t, pending, 1)
	assert.Equal(t, "client.create", pending[0].ContextMap()["saga"])
	assert.Equal(t, 1, logs.FilterMessage("expired saga residue").Len())
}

func TestResidueReporter_StartStop(t *testing.T) {
	reporter := NewResidueReporter(openJournal(t), nil, ReporterConfig{Interval: time.Hour})
	reporter.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	reporter.Stop(ctx)
}
