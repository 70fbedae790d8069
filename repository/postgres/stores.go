package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository"
)

type personRepository struct {
	t *table[domain.Person]
}

// NewPersonRepository creates a Postgres-backed PersonRepository over the persons table.
func NewPersonRepository(pool *pgxpool.Pool) repository.PersonRepository {
	return &personRepository{t: &table[domain.Person]{
		pool:      pool,
		name:      "persons",
		keyColumn: "document_number",
		notFound:  domain.ErrPersonNotFound,
		id:        func(p *domain.Person) string { return p.ID },
		setID:     func(p *domain.Person, id string) { p.ID = id },
		key:       func(p *domain.Person) string { return p.DocumentNumber },
	}}
}

func (r *personRepository) Save(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	return r.t.save(ctx, person)
}

func (r *personRepository) SaveAll(ctx context.Context, persons []domain.Person) ([]domain.Person, error) {
	return r.t.saveAll(ctx, persons)
}

func (r *personRepository) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	return r.t.findByID(ctx, id)
}

func (r *personRepository) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, error) {
	return r.t.findByKey(ctx, documentNumber)
}

func (r *personRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Person, error) {
	return r.t.findAllByID(ctx, ids)
}

func (r *personRepository) FindAll(ctx context.Context) ([]domain.Person, error) {
	return r.t.findAll(ctx)
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

type linkRepository struct {
	kind domain.LinkKind
	t    *table[domain.LinkRecord]
}

// NewLinkRepository creates a LinkRepository over the table named after kind.
func NewLinkRepository(pool *pgxpool.Pool, kind domain.LinkKind) repository.LinkRepository {
	return &linkRepository{kind: kind, t: &table[domain.LinkRecord]{
		pool:      pool,
		name:      string(kind),
		keyColumn: "person_id",
		notFound:  kind.NotFound(),
		id:        func(l *domain.LinkRecord) string { return l.ID },
		setID:     func(l *domain.LinkRecord, id string) { l.ID = id },
		key:       func(l *domain.LinkRecord) string { return l.PersonID },
	}}
}

func (r *linkRepository) Kind() domain.LinkKind { return r.kind }

func (r *linkRepository) Save(ctx context.Context, link *domain.LinkRecord) (*domain.LinkRecord, error) {
	return r.t.save(ctx, link)
}

func (r *linkRepository) SaveAll(ctx context.Context, links []domain.LinkRecord) ([]domain.LinkRecord, error) {
	return r.t.saveAll(ctx, links)
}

func (r *linkRepository) FindByID(ctx context.Context, id string) (*domain.LinkRecord, error) {
	return r.t.findByID(ctx, id)
}

func (r *linkRepository) FindByPersonID(ctx context.Context, personID string) (*domain.LinkRecord, error) {
	return r.t.findByKey(ctx, personID)
}

func (r *linkRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.LinkRecord, error) {
	return r.t.findAllByID(ctx, ids)
}

func (r *linkRepository) FindAll(ctx context.Context) ([]domain.LinkRecord, error) {
	return r.t.findAll(ctx)
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

type clientRepository struct {
	t *table[domain.Client]
}

// NewClientRepository creates a ClientRepository over the clients table. person_id is unique.
func NewClientRepository(pool *pgxpool.Pool) repository.ClientRepository {
	return &clientRepository{t: &table[domain.Client]{
		pool:      pool,
		name:      "clients",
		keyColumn: "person_id",
		notFound:  domain.ErrClientNotFound,
		id:        func(c *domain.Client) string { return c.ID },
		setID:     func(c *domain.Client, id string) { c.ID = id },
		key:       func(c *domain.Client) string { return c.PersonID },
		fix:       fixClient,
	}}
}

func (r *clientRepository) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return r.t.save(ctx, client)
}

func (r *clientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return r.t.findByID(ctx, id)
}

func (r *clientRepository) FindByPersonID(ctx context.Context, personID string) (*domain.Client, error) {
	return r.t.findByKey(ctx, personID)
}

func (r *clientRepository) FindAllByID(ctx context.Context, ids []string) ([]domain.Client, error) {
	return r.t.findAllByID(ctx, ids)
}

func (r *clientRepository) FindAll(ctx context.Context) ([]domain.Client, error) {
	return r.t.findAll(ctx)
}

func (r *clientRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// NewStores builds the full Postgres backend over one pool.
func NewStores(pool *pgxpool.Pool) repository.Stores {
	return repository.Stores{
		Persons:               NewPersonRepository(pool),
		LegalRepresentatives:  NewLinkRepository(pool, domain.LinkLegalRepresentative),
		AuthorizedSignatories: NewLinkRepository(pool, domain.LinkAuthorizedSignatory),
		Clients:               NewClientRepository(pool),
	}
}

// fixClient keeps id lists as empty arrays when a document was written with null.
func fixClient(c *domain.Client) {
	if c.LegalRepresentativeIDs == nil {
		c.LegalRepresentativeIDs = []string{}
	}
	if c.AuthorizedSignatoryIDs == nil {
		c.AuthorizedSignatoryIDs = []string{}
	}
}
