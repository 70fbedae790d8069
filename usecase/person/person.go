package person

import (
	"context"

	"go.uber.org/zap"

	"github.com/fastygo/clients/domain"
	"github.com/fastygo/clients/pkg/logger"
	"github.com/fastygo/clients/repository"
)

// UseCase manages Person documents. It performs no uniqueness pre-check on create; the store's
// unique document-number index is the last line and surfaces as a STORE error.
type UseCase struct {
	persons repository.PersonRepository
	logger  *zap.Logger
}

func New(persons repository.PersonRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		persons: persons,
		logger:  logger,
	}
}

func (uc *UseCase) Create(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	if err := person.Validate(); err != nil {
		return nil, err
	}
	created, err := uc.persons.Save(ctx, person)
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("person create failed",
			zap.String("document_number", person.DocumentNumber), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// CreateMany stores persons in one round trip. The result order is whatever the store returns.
func (uc *UseCase) CreateMany(ctx context.Context, persons []domain.Person) ([]domain.Person, error) {
	if len(persons) == 0 {
		return []domain.Person{}, nil
	}
	for i := range persons {
		if err := persons[i].Validate(); err != nil {
			return nil, err
		}
	}
	created, err := uc.persons.SaveAll(ctx, persons)
	if err != nil {
		logger.WithRequestID(ctx, uc.logger).Error("bulk person create failed",
			zap.Int("count", len(persons)), zap.Error(err))
		return nil, err
	}
	return created, nil
}

// Update overwrites the person holding the same document number.
func (uc *UseCase) Update(ctx context.Context, person *domain.Person) (*domain.Person, error) {
	if err := person.Validate(); err != nil {
		return nil, err
	}
	existing, err := uc.persons.FindByDocumentNumber(ctx, person.DocumentNumber)
	if err != nil {
		return nil, err
	}
	next := *person
	next.ID = existing.ID
	return uc.persons.Save(ctx, &next)
}

func (uc *UseCase) Delete(ctx context.Context, person *domain.Person) error {
	if person == nil || person.DocumentNumber == "" {
		return domain.ErrInvalidPayload
	}
	existing, err := uc.persons.FindByDocumentNumber(ctx, person.DocumentNumber)
	if err != nil {
		return err
	}
	if err := uc.persons.Delete(ctx, existing.ID); err != nil {
		return err
	}
	logger.WithRequestID(ctx, uc.logger).Info("person deleted", zap.String("person_id", existing.ID))
	return nil
}

// FindByDocumentNumber reports absence through found=false, never through err.
func (uc *UseCase) FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, bool, error) {
	person, err := uc.persons.FindByDocumentNumber(ctx, documentNumber)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return person, true, nil
}

func (uc *UseCase) FindByID(ctx context.Context, id string) (*domain.Person, error) {
	return uc.persons.FindByID(ctx, id)
}

func (uc *UseCase) FindAllByIDList(ctx context.Context, ids []string) ([]domain.Person, error) {
	if len(ids) == 0 {
		return []domain.Person{}, nil
	}
	return uc.persons.FindAllByID(ctx, ids)
}

func (uc *UseCase) FindAll(ctx context.Context) ([]domain.Person, error) {
	return uc.persons.FindAll(ctx)
}
