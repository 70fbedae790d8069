package memory

import (
	"context"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository"
)

// PersonStore is the in-memory PersonRepository.
type PersonStore struct {
	*collection[domain.Person]
}

func NewPersonStore() *PersonStore {
	return &PersonStore{&collection[domain.Person]{
		name:     "persons",
		notFound: domain.ErrPersonNotFound,
		id:       func(p *domain.Person) string { return p.ID },
		setID:    func(p *domain.Person, id string) { p.ID = id },
		unique:   func(p *domain.Person) string { return p.DocumentNumber },
		clone:    clonePerson,
		docs:     make(map[string]domain.Person),
	}}
}

func (s *PersonStore) Save(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	return s.save(ctx, person)
}

func (s *PersonStore) SaveAll(ctx context.Context, persons []domain.Person) ([]domain.Person, error) {
	return s.saveAll(ctx, persons)
}

func (s *PersonStore) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	return s.findByID(ctx, id)
}

func (s *PersonStore) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, error) {
	return s.findOne(ctx, func(p *domain.Person) bool { return p.DocumentNumber == documentNumber })
}

func (s *PersonStore) FindAllByID(ctx context.Context, ids []string) ([]domain.Person, error) {
	return s.findAllByID(ctx, ids)
}

func (s *PersonStore) FindAll(ctx context.Context) ([]domain.Person, error) {
	return s.findAll(ctx)
}

func (s *PersonStore) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

// LinkStore is the in-memory LinkRepository for one link kind.
type LinkStore struct {
	*collection[domain.LinkRecord]
	kind domain.LinkKind
}

func NewLinkStore(kind domain.LinkKind) *LinkStore {
	return &LinkStore{
		collection: &collection[domain.LinkRecord]{
			name:     string(kind),
			notFound: kind.NotFound(),
			id:       func(l *domain.LinkRecord) string { return l.ID },
			setID:    func(l *domain.LinkRecord, id string) { l.ID = id },
			clone:    func(l domain.LinkRecord) domain.LinkRecord { return l },
			docs:     make(map[string]domain.LinkRecord),
		},
		kind: kind,
	}
}

func (s *LinkStore) Kind() domain.LinkKind { return s.kind }

func (s *LinkStore) Save(ctx context.Context, link *domain.LinkRecord) (*domain.LinkRecord, error) {
	return s.save(ctx, link)
}

func (s *LinkStore) SaveAll(ctx context.Context, links []domain.LinkRecord) ([]domain.LinkRecord, error) {
	return s.saveAll(ctx, links)
}

func (s *LinkStore) FindByID(ctx context.Context, id string) (*domain.LinkRecord, error) {
	return s.findByID(ctx, id)
}

func (s *LinkStore) FindByPersonID(ctx context.Context, personID string) (*domain.LinkRecord, error) {
	return s.findOne(ctx, func(l *domain.LinkRecord) bool { return l.PersonID == personID })
}

func (s *LinkStore) FindAllByID(ctx context.Context, ids []string) ([]domain.LinkRecord, error) {
	return s.findAllByID(ctx, ids)
}

func (s *LinkStore) FindAll(ctx context.Context) ([]domain.LinkRecord, error) {
	return s.findAll(ctx)
}

func (s *LinkStore) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

// ClientStore is the in-memory ClientRepository. person_id is unique.
type ClientStore struct {
	*collection[domain.Client]
}

func NewClientStore() *ClientStore {
	return &ClientStore{&collection[domain.Client]{
		name:     "clients",
		notFound: domain.ErrClientNotFound,
		id:       func(c *domain.Client) string { return c.ID },
		setID:    func(c *domain.Client, id string) { c.ID = id },
		unique:   func(c *domain.Client) string { return c.PersonID },
		clone:    cloneClient,
		docs:     make(map[string]domain.Client),
	}}
}

func (s *ClientStore) Save(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	return s.save(ctx, client)
}

func (s *ClientStore) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	return s.findByID(ctx, id)
}

func (s *ClientStore) FindByPersonID(ctx context.Context, personID string) (*domain.Client, error) {
	return s.findOne(ctx, func(c *domain.Client) bool { return c.PersonID == personID })
}

func (s *ClientStore) FindAllByID(ctx context.Context, ids []string) ([]domain.Client, error) {
	return s.findAllByID(ctx, ids)
}

func (s *ClientStore) FindAll(ctx context.Context) ([]domain.Client, error) {
	return s.findAll(ctx)
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return s.delete(ctx, id)
}

// NewStores builds a complete in-memory backend.
func NewStores() repository.Stores {
	return repository.Stores{
		Persons:               NewPersonStore(),
		LegalRepresentatives:  NewLinkStore(domain.LinkLegalRepresentative),
		AuthorizedSignatories: NewLinkStore(domain.LinkAuthorizedSignatory),
		Clients:               NewClientStore(),
	}
}

func clonePerson(p domain.Person) domain.Person {
	if p.BirthDate != nil {
		birth := *p.BirthDate
		p.BirthDate = &birth
	}
	return p
}

func cloneClient(c domain.Client) domain.Client {
	c.LegalRepresentativeIDs = append(make([]string, 0, len(c.LegalRepresentativeIDs)), c.LegalRepresentativeIDs...)
	c.AuthorizedSignatoryIDs = append(make([]string, 0, len(c.AuthorizedSignatoryIDs)), c.AuthorizedSignatoryIDs...)
	if c.EndAt != nil {
		end := *c.EndAt
		c.EndAt = &end
	}
	return c
}

var (
	_ repository.PersonRepository = (*PersonStore)(nil)
	_ repository.LinkRepository   = (*LinkStore)(nil)
	_ repository.ClientRepository = (*ClientStore)(nil)
)
