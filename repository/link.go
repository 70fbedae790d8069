package repository

import (
	"context"

	"github.com/fastygo/clients/domain"
)

// LinkRepository stores one collection of link records (legal representatives or authorized
// signatories). Single lookups return the kind's NotFound error when absent.
type LinkRepository interface {
	Kind() domain.LinkKind
	Save(ctx context.Context, link *domain.LinkRecord) (*domain.LinkRecord, error)
	SaveAll(ctx context.Context, links []domain.LinkRecord) ([]domain.LinkRecord, error)
	FindByID(ctx context.Context, id string) (*domain.LinkRecord, error)
	FindByPersonID(ctx context.Context, personID string) (*domain.LinkRecord, error)
	FindAllByID(ctx context.Context, ids []string) ([]domain.LinkRecord, error)
	FindAll(ctx context.Context) ([]domain.LinkRecord, error)
	Delete(ctx context.Context, id string) error
}
