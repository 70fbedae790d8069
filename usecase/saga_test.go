package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type journalSpy struct {
	mu       sync.Mutex
	residues []Residue
	err      error
	ctxErr   error
}

func (j *journalSpy) RecordResidue(ctx context.Context, residue Residue) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.ctxErr = ctx.Err()
	j.residues = append(j.residues, residue)
	return j.err
}

func TestSaga_CompensationsNewestFirst(t *testing.T) {
	saga := NewSaga("client.create")
	saga.Record("persons", "p1")
	saga.Record("legal_representatives")
	saga.Record("legal_representatives", "lr1", "lr2")

	steps := saga.Compensations()
	require.Len(t, steps, 2)
	assert.Equal(t, Step{Collection: "legal_representatives", IDs: []string{"lr1", "lr2"}}, steps[0])
	assert.Equal(t, Step{Collection: "persons", IDs: []string{"p1"}}, steps[1])
}

func TestSaga_RecordIsSafeForConcurrentBranches(t *testing.T) {
	saga := NewSaga("concurrent")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			saga.Record("persons", "id")
		}()
	}
	wg.Wait()
	assert.Len(t, saga.Compensations(), 20)
}

func TestSaga_AbandonJournalsAndReturnsCause(t *testing.T) {
	spy := &journalSpy{}
	saga := NewSaga("client.create")
	saga.Record("persons", "p1")
	cause := errors.New("clients store down")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := saga.Abandon(ctx, spy, cause, zap.NewNop())
	assert.Same(t, cause, err)
	require.Len(t, spy.residues, 1)
	assert.Equal(t, "client.create", spy.residues[0].Saga)
	assert.Equal(t, "clients store down", spy.residues[0].Cause)
	assert.False(t, spy.residues[0].OccurredAt.IsZero())
	assert.NoError(t, spy.ctxErr, "journal must run even after the request was cancelled")
}

func TestSaga_AbandonWithoutStepsSkipsJournal(t *testing.T) {
	spy := &journalSpy{}
	cause := errors.New("validation")

	err := NewSaga("empty").Abandon(context.Background(), spy, cause, nil)
	assert.Same(t, cause, err)
	assert.Empty(t, spy.residues)
}

func TestSaga_JournalFailureDoesNotMaskCause(t *testing.T) {
	spy := &journalSpy{err: errors.New("disk full")}
	saga := NewSaga("x")
	saga.Record("persons", "p1")
	cause := errors.New("original")

	assert.Same(t, cause, saga.Abandon(context.Background(), spy, cause, nil))
	assert.Same(t, cause, saga.Abandon(context.Background(), nil, cause, nil))
}
