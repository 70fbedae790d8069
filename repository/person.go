package repository

import (
	"context"

	"github.com/fastygo/clients/domain"
)

// PersonRepository stores Person documents keyed by id and by unique document number.
// Lookups of a single document return domain.ErrPersonNotFound when absent.
type PersonRepository interface {
	Save(ctx context.Context, person *domain.Person) (*domain.Person, error)
	SaveAll(ctx context.Context, persons []domain.Person) ([]domain.Person, error)
	FindByID(ctx context.Context, id string) (*domain.Person, error)
	FindByDocumentNumber(ctx context.Context, documentNumber string) (*domain.Person, error)
	FindAllByID(ctx context.Context, ids []string) ([]domain.Person, error)
	FindAll(ctx context.Context) ([]domain.Person, error)
	Delete(ctx context.Context, id string) error
}
