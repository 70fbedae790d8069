package memory

import (
	"context"
	"sync/atomic"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/repository"
)

// Calls counts every store invocation made through a counted backend.
type Calls struct {
	reads  atomic.Int64
	writes atomic.Int64
}

func (c *Calls) Reads() int64  { return c.reads.Load() }
func (c *Calls) Writes() int64 { return c.writes.Load() }
func (c *Calls) Total() int64  { return c.Reads() + c.Writes() }

// Counted wraps every adapter of stores so tests can assert how many store calls happened.
func Counted(stores repository.Stores) (repository.Stores, *Calls) {
	calls := &Calls{}
	return repository.Stores{
		Persons:               &countedPersons{next: stores.Persons, calls: calls},
		LegalRepresentatives:  &countedLinks{next: stores.LegalRepresentatives, calls: calls},
		AuthorizedSignatories: &countedLinks{next: stores.AuthorizedSignatories, calls: calls},
		Clients:               &countedClients{next: stores.Clients, calls: calls},
	}, calls
}

type countedPersons struct {
	next  repository.PersonRepository
	calls *Calls
}

func (r *countedPersons) Save(ctx context.Context, p *domain.Person) (*domain.Person, error) {
	r.calls.writes.Add(1)
	return r.next.Save(ctx, p)
}

func (r *countedPersons) SaveAll(ctx context.Context, ps []domain.Person) ([]domain.Person, error) {
	r.calls.writes.Add(1)
	return r.next.SaveAll(ctx, ps)
}

func (r *countedPersons) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	r.calls.reads.Add(1)
	return r.next.FindByID(ctx, id)
}

func (r *countedPersons) FindByDocumentNumber(ctx context.Context, doc string) (*domain.Person, error) {
	r.calls.reads.Add(1)
	return r.next.FindByDocumentNumber(ctx, doc)
}

func (r *countedPersons) FindAllByID(ctx context.Context, ids []string) ([]domain.Person, error) {
	r.calls.reads.Add(1)
	return r.next.FindAllByID(ctx, ids)
}

func (r *countedPersons) FindAll(ctx context.Context) ([]domain.Person, error) {
	r.calls.reads.Add(1)
	return r.next.FindAll(ctx)
}

func (r *countedPersons) Delete(ctx context.Context, id string) error {
	r.calls.writes.Add(1)
	return r.next.Delete(ctx, id)
}

type countedLinks struct {
	next  repository.LinkRepository
	calls *Calls
}

func (r *countedLinks) Kind() domain.LinkKind { return r.next.Kind() }

func (r *countedLinks) Save(ctx context.Context, l *domain.LinkRecord) (*domain.LinkRecord, error) {
	r.calls.writes.Add(1)
	return r.next.Save(ctx, l)
}

func (r *countedLinks) SaveAll(ctx context.Context, ls []domain.LinkRecord) ([]domain.LinkRecord, error) {
	r.calls.writes.Add(1)
	return r.next.SaveAll(ctx, ls)
}

func (r *countedLinks) FindByID(ctx context.Context, id string) (*domain.LinkRecord, error) {
	r.calls.reads.Add(1)
	return r.next.FindByID(ctx, id)
}

func (r *countedLinks) FindByPersonID(ctx context.Context, personID string) (*domain.LinkRecord, error) {
	r.calls.reads.Add(1)
	return r.next.FindByPersonID(ctx, personID)
}

func (r *countedLinks) FindAllByID(ctx context.Context, ids []string) ([]domain.LinkRecord, error) {
	r.calls.reads.Add(1)
	return r.next.FindAllByID(ctx, ids)
}

func (r *countedLinks) FindAll(ctx context.Context) ([]domain.LinkRecord, error) {
	r.calls.reads.Add(1)
	return r.next.FindAll(ctx)
}

func (r *countedLinks) Delete(ctx context.Context, id string) error {
	r.calls.writes.Add(1)
	return r.next.Delete(ctx, id)
}

type countedClients struct {
	next  repository.ClientRepository
	calls *Calls
}

func (r *countedClients) Save(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	r.calls.writes.Add(1)
	return r.next.Save(ctx, c)
}

func (r *countedClients) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	r.calls.reads.Add(1)
	return r.next.FindByID(ctx, id)
}

func (r *countedClients) FindByPersonID(ctx context.Context, personID string) (*domain.Client, error) {
	r.calls.reads.Add(1)
	return r.next.FindByPersonID(ctx, personID)
}

func (r *countedClients) FindAllByID(ctx context.Context, ids []string) ([]domain.Client, error) {
	r.calls.reads.Add(1)
	return r.next.FindAllByID(ctx, ids)
}

func (r *countedClients) FindAll(ctx context.Context) ([]domain.Client, error) {
	r.calls.reads.Add(1)
	return r.next.FindAll(ctx)
}

func (r *countedClients) Delete(ctx context.Context, id string) error {
	r.calls.writes.Add(1)
	return r.next.Delete(ctx, id)
}
