package mongo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fastygo/clients/domain"
)

// MONGO_TEST_URI=mongodb://localhost:27017 runs these against a throwaway database.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	db := client.Database("clients_test")
	require.NoError(t, db.Drop(context.Background()))
	require.NoError(t, EnsureIndexes(context.Background(), db))
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestPersonRepository_DuplicateDocumentIsStoreError(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(testDatabase(t))

	saved, err := repo.Save(ctx, &domain.Person{DocumentNumber: "20123456789", DocumentType: domain.DocumentRUC})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &domain.Person{DocumentNumber: "20123456789", DocumentType: domain.DocumentRUC})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStore))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	found, err := repo.FindByDocumentNumber(ctx, "20123456789")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
}

func TestPersonRepository_FailedBatchLeavesNothing(t *testing.T) {
	ctx := context.Background()
	repo := NewPersonRepository(testDatabase(t))

	_, err := repo.SaveAll(ctx, []domain.Person{{DocumentNumber: "1"}, {DocumentNumber: "1"}})
	require.Error(t, err)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestClientRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(testDatabase(t))

	saved, err := repo.Save(ctx, &domain.Client{ClientType: domain.ClientPersonal, PersonID: "p1", Status: true})
	require.NoError(t, err)

	got, err := repo.FindByPersonID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, got.ID)
	assert.NotNil(t, got.LegalRepresentativeIDs)

	list, err := repo.FindAllByID(ctx, []string{"missing", saved.ID})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, domain.ErrClientNotFound)
}

func TestBulkFailure_KeepsCleanupError(t *testing.T) {
	driverErr := errors.New("bulk write exception")
	cause := domain.StoreError("persons", driverErr)

	assert.Same(t, cause, bulkFailure(cause, []string{"a"}, nil))

	cleanupErr := errors.New("connection reset")
	err := bulkFailure(cause, []string{"a", "b"}, cleanupErr)
	assert.ErrorIs(t, err, driverErr)
	assert.ErrorIs(t, err, cleanupErr)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeStore))
	assert.Contains(t, err.Error(), "remove 2 inserted documents [a b]")
}
