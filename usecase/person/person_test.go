package person

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository/memory"
)

func TestUseCase_CreateValidates(t *testing.T) {
	uc := New(memory.NewPersonStore(), nil)

	_, err := uc.Create(context.Background(), &domain.Person{Name: "no document"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.Create(context.Background(), &domain.Person{DocumentNumber: "1", DocumentType: "LICENSE"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUseCase_UpdateKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	uc := New(memory.NewPersonStore(), nil)

	created, err := uc.Create(ctx, &domain.Person{DocumentNumber: "12345678", DocumentType: domain.DocumentDNI, Name: "Ana"})
	require.NoError(t, err)

	updated, err := uc.Update(ctx, &domain.Person{ID: "ignored", DocumentNumber: "12345678", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.Empty(t, updated.Name, "update replaces the whole document")

	_, err = uc.Update(ctx, &domain.Person{DocumentNumber: "unknown"})
	assert.ErrorIs(t, err, domain.ErrPersonNotFound)
}

func TestUseCase_FindByDocumentNumberReportsAbsence(t *testing.T) {
	uc := New(memory.NewPersonStore(), nil)

	person, found, err := uc.FindByDocumentNumber(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, person)
}

func TestUseCase_DeleteByDocumentNumber(t *testing.T) {
	ctx := context.Background()
	uc := New(memory.NewPersonStore(), nil)
	_, err := uc.Create(ctx, &domain.Person{DocumentNumber: "CE-77"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, &domain.Person{DocumentNumber: "CE-77"}))
	assert.ErrorIs(t, uc.Delete(ctx, &domain.Person{DocumentNumber: "CE-77"}), domain.ErrPersonNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, &domain.Person{}), domain.ErrInvalidPayload)
}

func TestUseCase_ListQueries(t *testing.T) {
	ctx := context.Background()
	stores, calls := memory.Counted(memory.NewStores())
	uc := New(stores.Persons, nil)

	empty, err := uc.FindAllByIDList(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Zero(t, calls.Total())

	created, err := uc.CreateMany(ctx, []domain.Person{{DocumentNumber: "a"}, {DocumentNumber: "b"}})
	require.NoError(t, err)
	require.Len(t, created, 2)

	got, err := uc.FindAllByIDList(ctx, []string{created[1].ID, "missing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].DocumentNumber)

	all, err := uc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
