package client

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/logger"
	"github.com/fastygo/clients/repository"
	"github.com/fastygo/clients/usecase"
	linkedUC "github.com/fastygo/clients/usecase/linked"
)

const (
	personsCollection = "persons"

	// assembleLimit bounds concurrent read-view assembly on list queries.
	assembleLimit = 8
)

// Persons is the subset of the person use case the aggregate relies on.
type Persons interface {
	Create(ctx context.Context, person *domain.Person) (*domain.Person, error)
	Update(ctx context.Context, person *domain.Person) (*domain.Person, error)
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, bool, error)
}

// Links is the subset of a link orchestrator the aggregate relies on.
type Links interface {
	CreateMany(ctx context.Context, in []domain.LinkedPerson) ([]domain.LinkedPerson, error)
	FindAllByIDList(ctx context.Context, ids []string) ([]domain.LinkedPerson, error)
}

// UseCase composes the Client aggregate out of the person and link orchestrators.
type UseCase struct {
	clients     repository.ClientRepository
	persons     Persons
	legalReps   Links
	signatories Links
	journal     usecase.ResidueJournal
	logger      *zap.Logger
	now         func() time.Time
}

func New(
	clients repository.ClientRepository,
	persons Persons,
	legalReps Links,
	signatories Links,
	journal usecase.ResidueJournal,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		clients:     clients,
		persons:     persons,
		legalReps:   legalReps,
		signatories: signatories,
		journal:     journal,
		logger:      logger,
		now:         time.Now,
	}
}

// Create registers a client. Business clients need at least one legal representative; that rule
// is checked before any store is touched. The person, legal representative and authorized
// signatory branches run concurrently. Branches that already committed are not rolled back when a
// sibling fails; their writes are journaled as saga residue.
func (uc *UseCase) Create(ctx context.Context, in *domain.ClientView) (*domain.ClientView, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	log := logger.WithRequestID(ctx, uc.logger)
	business := in.IsBusiness()

	existing, err := uc.resolvePerson(ctx, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		_, err := uc.clients.FindByPersonID(ctx, existing.ID)
		switch {
		case err == nil:
			log.Warn("client create rejected, client exists", zap.String("person_id", existing.ID))
			return nil, domain.ErrClientExists
		case !domain.IsNotFound(err):
			return nil, err
		}
	}

	saga := usecase.NewSaga("client.create")
	var (
		person      *domain.Person
		legalReps   []domain.LinkedPerson
		signatories []domain.LinkedPerson
		group       errgroup.Group
	)

	group.Go(func() error {
		if !business {
			return nil
		}
		created, err := uc.legalReps.CreateMany(ctx, in.LegalRepresentatives)
		if err != nil {
			return err
		}
		recordLinks(saga, domain.LinkLegalRepresentative, created)
		legalReps = created
		return nil
	})
	group.Go(func() error {
		if !business || len(in.AuthorizedSignatories) == 0 {
			return nil
		}
		created, err := uc.signatories.CreateMany(ctx, in.AuthorizedSignatories)
		if err != nil {
			return err
		}
		recordLinks(saga, domain.LinkAuthorizedSignatory, created)
		signatories = created
		return nil
	})
	group.Go(func() error {
		if existing != nil {
			person = existing
			return nil
		}
		created, err := uc.persons.Create(ctx, in.Person)
		if err != nil {
			return err
		}
		saga.Record(personsCollection, created.ID)
		person = created
		return nil
	})

	if err := group.Wait(); err != nil {
		return nil, saga.Abandon(ctx, uc.journal, err, uc.logger)
	}

	doc := &domain.Client{
		ID:                     in.ID,
		ClientType:             in.ClientType,
		ProfileType:            in.ProfileType,
		PersonID:               person.ID,
		LegalRepresentativeIDs: domain.LinkIDs(legalReps),
		AuthorizedSignatoryIDs: domain.LinkIDs(signatories),
		CreateAt:               uc.now().UTC(),
		EndAt:                  in.EndAt,
		Status:                 true,
	}
	saved, err := uc.clients.Save(ctx, doc)
	if err != nil {
		return nil, saga.Abandon(ctx, uc.journal, err, uc.logger)
	}

	log.Info("client created",
		zap.String("client_id", saved.ID),
		zap.String("client_type", string(saved.ClientType)),
		zap.Int("legal_representatives", len(legalReps)),
		zap.Int("authorized_signatories", len(signatories)))

	view := &domain.ClientView{Client: *saved, Person: person}
	if business {
		view.LegalRepresentatives = legalReps
		view.AuthorizedSignatories = signatories
	}
	return view, nil
}

// Update rewrites the linked person, then overwrites the client document. The business-client
// legal representative rule is only enforced on create.
func (uc *UseCase) Update(ctx context.Context, in *domain.ClientView) (*domain.ClientView, error) {
	if in == nil || in.Person == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := in.Client.Validate(); err != nil {
		return nil, err
	}
	person, err := uc.persons.Update(ctx, in.Person)
	if err != nil {
		return nil, err
	}

	var existing *domain.Client
	if in.ID != "" {
		existing, err = uc.clients.FindByID(ctx, in.ID)
	} else {
		existing, err = uc.clients.FindByPersonID(ctx, person.ID)
	}
	if err != nil {
		return nil, err
	}

	doc := &domain.Client{
		ID:                     existing.ID,
		ClientType:             in.ClientType,
		ProfileType:            in.ProfileType,
		PersonID:               person.ID,
		LegalRepresentativeIDs: pickIDs(in.LegalRepresentativeIDs, in.LegalRepresentatives, existing.LegalRepresentativeIDs),
		AuthorizedSignatoryIDs: pickIDs(in.AuthorizedSignatoryIDs, in.AuthorizedSignatories, existing.AuthorizedSignatoryIDs),
		CreateAt:               in.CreateAt,
		EndAt:                  in.EndAt,
		Status:                 in.Status,
	}
	if doc.CreateAt.IsZero() {
		doc.CreateAt = existing.CreateAt
	}
	saved, err := uc.clients.Save(ctx, doc)
	if err != nil {
		return nil, err
	}
	logger.WithRequestID(ctx, uc.logger).Info("client updated", zap.String("client_id", saved.ID))
	return uc.assemble(ctx, saved, person)
}

// Delete removes the client document only. Person and link documents are owned elsewhere.
func (uc *UseCase) Delete(ctx context.Context, in *domain.ClientView) error {
	if in == nil {
		return domain.ErrInvalidPayload
	}
	if in.ID != "" {
		return uc.DeleteByID(ctx, in.ID)
	}
	if in.Person == nil || in.Person.DocumentNumber == "" {
		return domain.ErrInvalidPayload
	}
	existing, err := uc.findDocumentByDocumentNumber(ctx, in.Person.DocumentNumber)
	if err != nil {
		return err
	}
	return uc.DeleteByID(ctx, existing.ID)
}

func (uc *UseCase) DeleteByID(ctx context.Context, id string) error {
	if _, err := uc.clients.FindByID(ctx, id); err != nil {
		return err
	}
	if err := uc.clients.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("client deleted", zap.String("client_id", id))
	return nil
}

func (uc *UseCase) FindByID(ctx context.Context, id string) (*domain.ClientView, error) {
	doc, err := uc.clients.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.assemble(ctx, doc, nil)
}

func (uc *UseCase) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.ClientView, error) {
	person, found, err := uc.persons.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrClientNotFound
	}
	doc, err := uc.clients.FindByPersonID(ctx, person.ID)
	if err != nil {
		return nil, err
	}
	return uc.assemble(ctx, doc, person)
}

// FindAllByIDList silently omits ids without a client document.
func (uc *UseCase) FindAllByIDList(ctx context.Context, ids []string) ([]domain.ClientView, error) {
	if len(ids) == 0 {
		return []domain.ClientView{}, nil
	}
	docs, err := uc.clients.FindAllByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	return uc.assembleAll(ctx, docs)
}

func (uc *UseCase) FindAll(ctx context.Context) ([]domain.ClientView, error) {
	docs, err := uc.clients.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return uc.assembleAll(ctx, docs)
}

// assemble joins the client document with its person and, for business clients, its link
// records. Ids that no longer resolve are dropped from the nested lists.
func (uc *UseCase) assemble(ctx context.Context, doc *domain.Client, person *domain.Person) (*domain.ClientView, error) {
	view := &domain.ClientView{Client: *doc, Person: person}
	var group errgroup.Group

	if person == nil {
		group.Go(func() error {
			found, err := uc.persons.FindByID(ctx, doc.PersonID)
			if err != nil {
				if domain.IsNotFound(err) {
					logger.WithRequestID(ctx, uc.logger).Warn("client references missing person",
						zap.String("client_id", doc.ID), zap.String("person_id", doc.PersonID))
					return nil
				}
				return err
			}
			view.Person = found
			return nil
		})
	}
	if doc.IsBusiness() {
		group.Go(func() error {
			links, err := uc.legalReps.FindAllByIDList(ctx, doc.LegalRepresentativeIDs)
			if err != nil {
				return err
			}
			view.LegalRepresentatives = links
			return nil
		})
		group.Go(func() error {
			links, err := uc.signatories.FindAllByIDList(ctx, doc.AuthorizedSignatoryIDs)
			if err != nil {
				return err
			}
			view.AuthorizedSignatories = links
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return view, nil
}

func (uc *UseCase) assembleAll(ctx context.Context, docs []domain.Client) ([]domain.ClientView, error) {
	views := make([]domain.ClientView, len(docs))
	var group errgroup.Group
	group.SetLimit(assembleLimit)
	for i := range docs {
		group.Go(func() error {
			view, err := uc.assemble(ctx, &docs[i], nil)
			if err != nil {
				return err
			}
			views[i] = *view
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

// resolvePerson finds the person a create request points at, if it already exists.
// An explicit person id must resolve; a document number may be absent.
func (uc *UseCase) resolvePerson(ctx context.Context, in *domain.ClientView) (*domain.Person, error) {
	if in.PersonID != "" {
		return uc.persons.FindByID(ctx, in.PersonID)
	}
	person, found, err := uc.persons.FindByDocumentNumber(ctx, in.Person.DocumentNumber)
	if err != nil || !found {
		return nil, err
	}
	return person, nil
}

func (uc *UseCase) findDocumentByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Client, error) {
	person, found, err := uc.persons.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrClientNotFound
	}
	return uc.clients.FindByPersonID(ctx, person.ID)
}

func validateCreate(in *domain.ClientView) error {
	if in == nil {
		return domain.ErrInvalidPayload
	}
	if err := in.Client.Validate(); err != nil {
		return err
	}
	if in.IsBusiness() {
		if len(in.LegalRepresentatives) == 0 {
			return domain.ErrLegalRepresentativeRequired
		}
		if err := linkedUC.ValidateBatch(in.LegalRepresentatives); err != nil {
			return err
		}
		if err := linkedUC.ValidateBatch(in.AuthorizedSignatories); err != nil {
			return err
		}
	}
	if in.PersonID == "" {
		if err := in.Person.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func recordLinks(saga *usecase.Saga, kind domain.LinkKind, links []domain.LinkedPerson) {
	personIDs := make([]string, 0, len(links))
	for _, l := range links {
		personIDs = append(personIDs, l.PersonID)
	}
	saga.Record(personsCollection, personIDs...)
	saga.Record(string(kind), domain.LinkIDs(links)...)
}

// pickIDs prefers explicit ids, then ids of nested records, then the stored ids.
// Empty ids never reach the client document.
func pickIDs(ids []string, nested []domain.LinkedPerson, stored []string) []string {
	switch {
	case ids != nil:
		return nonEmpty(ids)
	case nested != nil:
		return nonEmpty(domain.LinkIDs(nested))
	default:
		return stored
	}
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}
