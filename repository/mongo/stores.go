package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository"
)

const (
	personsCollection = "persons"
	clientsCollection = "clients"

	fieldDocumentNumber = "document_number"
	fieldPersonID       = "person_id"
)

type personRepository struct {
	c *collection[domain.Person]
}

func NewPersonRepository(db *mongo.Database) repository.PersonRepository {
	return &personRepository{c: &collection[domain.Person]{
		coll:     db.Collection(personsCollection),
		notFound: domain.ErrPersonNotFound,
		id:       func(p *domain.Person) string { return p.ID },
		setID:    func(p *domain.Person, id string) { p.ID = id },
	}}
}

func (r *personRepository) Save(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	return r.c.save(ctx, person)
}

func (r *personRepository) SaveAll(ctx context.Context, persons []domain.Person) ([]domain.Person, error) {
	return r.c.saveAll(ctx, persons)
}

func (r *personRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	return r.c.findByID(ctx, id)
}

func (r *personRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, error) {
	return r.c.findByField(ctx, fieldDocumentNumber, documentNumber)
}

func (r *personRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Person, error) {
	return r.c.findAllByID(ctx, ids)
}

func (r *personRepository) FindAll(ctx context.Context) ([]domain.Person, error) {
	return r.c.findAll(ctx)
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type linkRepository struct {
	kind domain.LinkKind
	c    *collection[domain.LinkRecord]
}

func NewLinkRepository(db *mongo.Database, kind domain.LinkKind) repository.LinkRepository {
	return &linkRepository{kind: kind, c: &collection[domain.LinkRecord]{
		coll:     db.Collection(string(kind)),
		notFound: kind.NotFound(),
		id:       func(l *domain.LinkRecord) string { return l.ID },
		setID:    func(l *domain.LinkRecord, id string) { l.ID = id },
	}}
}

func (r *linkRepository) Kind() domain.LinkKind { return r.kind }

func (r *linkRepository) Save(ctx context.Context, link *domain.LinkRecord) (*domain.LinkRecord, error) {
	return r.c.save(ctx, link)
}

func (r *linkRepository) SaveAll(ctx context.Context, links []domain.LinkRecord) ([]domain.LinkRecord, error) {
	return r.c.saveAll(ctx, links)
}

func (r *linkRepository) FindByID(ctx context.Context, id string) (*domain.LinkRecord, error) {
	return r.c.findByID(ctx, id)
}

func (r *linkRepository) FindByPersonID(ctx context.Context, personID string) (*domain.LinkRecord, error) {
	return r.c.findByField(ctx, fieldPersonID, personID)
}

func (r *linkRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.LinkRecord, error) {
	return r.c.findAllByID(ctx, ids)
}

func (r *linkRepository) FindAll(ctx context.Context) ([]domain.LinkRecord, error) {
	return r.c.findAll(ctx)
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

type clientRepository struct {
	c *collection[domain.Client]
}

func NewClientRepository(db *mongo.Database) repository.ClientRepository {
	return &clientRepository{c: &collection[domain.Client]{
		coll:     db.Collection(clientsCollection),
		notFound: domain.ErrClientNotFound,
		id:       func(c *domain.Client) string { return c.ID },
		setID:    func(c *domain.Client, id string) { c.ID = id },
		fix:      fixClient,
	}}
}

func (r *clientRepository) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return r.c.save(ctx, client)
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.c.findByID(ctx, id)
}

func (r *clientRepository) FindByPersonID(ctx context.Context, personID string) (*domain.Client, error) {
	return r.c.findByField(ctx, fieldPersonID, personID)
}

func (r *clientRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Client, error) {
	return r.c.findAllByID(ctx, ids)
}

func (r *clientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	return r.c.findAll(ctx)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return r.c.delete(ctx, id)
}

// NewStores builds the full Mongo backend over one database.
func NewStores(db *mongo.Database) repository.Stores {
	return repository.Stores{
		Persons:               NewPersonRepository(db),
		LegalRepresentatives:  NewLinkRepository(db, domain.LinkLegalRepresentative),
		AuthorizedSignatories: NewLinkRepository(db, domain.LinkAuthorizedSignatory),
		Clients:               NewClientRepository(db),
	}
}

// EnsureIndexes creates the unique keys on persons.document_number and clients.person_id
// and the person_id lookup index on both link collections.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []struct {
		collection string
		field      string
		unique     bool
	}{
		{personsCollection, fieldDocumentNumber, true},
		{clientsCollection, fieldPersonID, true},
		{string(domain.LinkLegalRepresentative), fieldPersonID, false},
		{string(domain.LinkAuthorizedSignatory), fieldPersonID, false},
	}
	for _, idx := range indexes {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: idx.field, Value: 1}},
			Options: options.Index().SetUnique(idx.unique),
		}
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return domain.StoreError(idx.collection, err)
		}
	}
	return nil
}

func fixClient(c *domain.Client) {
	if c.LegalRepresentativeIDs == nil {
		c.LegalRepresentativeIDs = []string{}
	}
	if c.AuthorizedSignatoryIDs == nil {
		c.AuthorizedSignatoryIDs = []string{}
	}
}
