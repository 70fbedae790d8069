// Package linked orchestrates link records: thin documents that attach a Person to a role.
// One UseCase serves legal representatives, another authorized signatories; only the
// repository they are built with differs.
package linked

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/logger"
	"github.com/fastygo/clients/repository"
	"github.com/fastygo/clients/usecase"
)

const personsCollection = "persons"

// Persons is the subset of the person use case a link orchestrator relies on.
type Persons interface {
	Create(ctx context.Context, person *domain.Person) (*domain.Person, error)
	CreateMany(ctx context.Context, persons []domain.Person) ([]domain.Person, error)
	Update(ctx context.Context, person *domain.Person) (*domain.Person, error)
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, bool, error)
	FindAllByIDList(ctx context.Context, ids []string) ([]domain.Person, error)
}

type UseCase struct {
	kind    domain.LinkKind
	links   repository.LinkRepository
	persons Persons
	journal usecase.ResidueJournal
	logger  *zap.Logger
}

func New(links repository.LinkRepository, persons Persons, journal usecase.ResidueJournal, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		kind:    links.Kind(),
		links:   links,
		persons: persons,
		journal: journal,
		logger:  logger.With(zap.String("collection", string(links.Kind()))),
	}
}

// Kind names the collection this orchestrator manages.
func (uc *UseCase) Kind() domain.LinkKind {
	return uc.kind
}

// Create stores a new person and the link pointing at it. A person that already exists under the
// same document number is a conflict. A failed link write leaves the person in place.
func (uc *UseCase) Create(ctx context.Context, in *domain.LinkedPerson) (*domain.LinkedPerson, error) {
	if in == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := in.Person.Validate(); err != nil {
		return nil, err
	}
	log := logger.WithRequestID(ctx, uc.logger)

	_, found, err := uc.persons.FindByDocumentNumber(ctx, in.Person.DocumentNumber)
	if err != nil {
		return nil, err
	}
	if found {
		log.Warn("link create rejected, person exists", zap.String("document_number", in.Person.DocumentNumber))
		return nil, uc.kind.Exists()
	}

	saga := usecase.NewSaga(string(uc.kind) + ".create")
	person, err := uc.persons.Create(ctx, in.Person)
	if err != nil {
		return nil, err
	}
	saga.Record(personsCollection, person.ID)

	link, err := uc.links.Save(ctx, &domain.LinkRecord{ID: in.ID, PersonID: person.ID, Status: true})
	if err != nil {
		return nil, saga.Abandon(ctx, uc.journal, err, uc.logger)
	}
	log.Info("link created", zap.String("link_id", link.ID), zap.String("person_id", person.ID))
	return compose(*link, person), nil
}

// Update rewrites the linked person first, then the link record.
func (uc *UseCase) Update(ctx context.Context, in *domain.LinkedPerson) (*domain.LinkedPerson, error) {
	if in == nil || in.Person == nil {
		return nil, domain.ErrInvalidPayload
	}
	person, err := uc.persons.Update(ctx, in.Person)
	if err != nil {
		return nil, err
	}

	var existing *domain.LinkRecord
	if in.ID != "" {
		existing, err = uc.links.FindByID(ctx, in.ID)
	} else {
		existing, err = uc.links.FindByPersonID(ctx, person.ID)
	}
	if err != nil {
		return nil, err
	}

	link, err := uc.links.Save(ctx, &domain.LinkRecord{ID: existing.ID, PersonID: person.ID, Status: in.Status})
	if err != nil {
		return nil, err
	}
	return compose(*link, person), nil
}

func (uc *UseCase) DeleteByID(ctx context.Context, id string) error {
	if _, err := uc.links.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.links.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("link deleted", zap.String("link_id", id))
	return nil
}

// Delete resolves the link by id, or by the person's document number when no id is given.
func (uc *UseCase) Delete(ctx context.Context, in *domain.LinkedPerson) error {
	if in == nil {
		return domain.ErrInvalidPayload
	}
	if in.ID != "" {
		return uc.DeleteByID(ctx, in.ID)
	}
	if in.Person == nil || in.Person.DocumentNumber == "" {
		return domain.ErrInvalidPayload
	}
	existing, found, err := uc.FindByDocumentNumber(ctx, in.Person.DocumentNumber)
	if err != nil {
		return err
	}
	if !found {
		return uc.kind.NotFound()
	}
	return uc.DeleteByID(ctx, existing.ID)
}

// FindByDocumentNumber reports absence through found=false.
func (uc *UseCase) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.LinkedPerson, bool, error) {
	person, found, err := uc.persons.FindByDocumentNumber(ctx, documentNumber)
	if err != nil || !found {
		return nil, false, err
	}
	link, err := uc.links.FindByPersonID(ctx, person.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return compose(*link, person), true, nil
}

func (uc *UseCase) FindByID(ctx context.Context, id string) (*domain.LinkedPerson, error) {
	link, err := uc.links.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	person, err := uc.persons.FindByID(ctx, link.PersonID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, err
	}
	return compose(*link, person), nil
}

// FindAllByIDList skips ids that no longer resolve. Results follow the order of ids.
func (uc *UseCase) FindAllByIDList(ctx context.Context, ids []string) ([]domain.LinkedPerson, error) {
	if len(ids) == 0 {
		return []domain.LinkedPerson{}, nil
	}
	links, err := uc.links.FindAllByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.join(ctx, orderByIDs(links, ids))
}

func (uc *UseCase) FindAll(ctx context.Context) ([]domain.LinkedPerson, error) {
	links, err := uc.links.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.join(ctx, links)
}

// CreateMany stores all persons in one round trip, matches each input back to its stored person
// by document number, then stores all link records in one round trip. A batch repeating a
// document number is rejected before any store call.
func (uc *UseCase) CreateMany(ctx context.Context, in []domain.LinkedPerson) ([]domain.LinkedPerson, error) {
	if len(in) == 0 {
		return []domain.LinkedPerson{}, nil
	}
	if err := ValidateBatch(in); err != nil {
		return nil, err
	}
	persons := make([]domain.Person, 0, len(in))
	for i := range in {
		persons = append(persons, *in[i].Person)
	}

	saga := usecase.NewSaga(string(uc.kind) + ".create_many")
	created, err := uc.persons.CreateMany(ctx, persons)
	if err != nil {
		return nil, err
	}
	byDocument := make(map[string]domain.Person, len(created))
	personIDs := make([]string, 0, len(created))
	for _, p := range created {
		byDocument[p.DocumentNumber] = p
		personIDs = append(personIDs, p.ID)
	}
	saga.Record(personsCollection, personIDs...)

	records := make([]domain.LinkRecord, 0, len(in))
	for i := range in {
		p, ok := byDocument[in[i].Person.DocumentNumber]
		if !ok {
			err := domain.NewError(domain.ErrCodeInternal, "stored person missing for document "+in[i].Person.DocumentNumber)
			return nil, saga.Abandon(ctx, uc.journal, err, uc.logger)
		}
		records = append(records, domain.LinkRecord{ID: in[i].ID, PersonID: p.ID, Status: true})
	}

	links, err := uc.links.SaveAll(ctx, records)
	if err != nil {
		return nil, saga.Abandon(ctx, uc.journal, err, uc.logger)
	}

	byID := make(map[string]*domain.Person, len(created))
	for i := range created {
		byID[created[i].ID] = &created[i]
	}
	out := make([]domain.LinkedPerson, 0, len(links))
	for _, link := range links {
		out = append(out, *compose(link, byID[link.PersonID]))
	}
	logger.WithRequestID(ctx, uc.logger).Info("links created", zap.Int("count", len(out)))
	return out, nil
}

// ValidateBatch checks every entry of a createMany batch without touching a store: each entry
// needs a valid person and document numbers must not repeat.
func ValidateBatch(in []domain.LinkedPerson) error {
	seen := make(map[string]struct{}, len(in))
	for i := range in {
		if err := in[i].Person.Validate(); err != nil {
			return err
		}
		doc := in[i].Person.DocumentNumber
		if _, dup := seen[doc]; dup {
			return domain.ErrDuplicateDocumentInBatch
		}
		seen[doc] = struct{}{}
	}
	return nil
}

func (uc *UseCase) join(ctx context.Context, links []domain.LinkRecord) ([]domain.LinkedPerson, error) {
	personIDs := make([]string, 0, len(links))
	for _, link := range links {
		personIDs = append(personIDs, link.PersonID)
	}
	persons, err := uc.persons.FindAllByIDList(ctx, personIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Person, len(persons))
	for i := range persons {
		byID[persons[i].ID] = &persons[i]
	}
	out := make([]domain.LinkedPerson, 0, len(links))
	for _, link := range links {
		out = append(out, *compose(link, byID[link.PersonID]))
	}
	return out, nil
}

func compose(link domain.LinkRecord, person *domain.Person) *domain.LinkedPerson {
	return &domain.LinkedPerson{
		ID:       link.ID,
		PersonID: link.PersonID,
		Status:   link.Status,
		Person:   person,
	}
}

func orderByIDs(links []domain.LinkRecord, ids []string) []domain.LinkRecord {
	byID := make(map[string]domain.LinkRecord, len(links))
	for _, link := range links {
		byID[link.ID] = link
	}
	out := make([]domain.LinkRecord, 0, len(links))
	for _, id := range ids {
		if link, ok := byID[id]; ok {
			out = append(out, link)
			delete(byID, id)
		}
	}
	return out
}
