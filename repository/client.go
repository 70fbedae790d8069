package repository

import (
	"context"

	"github.com/fastygo/clients/domain"
)

// ClientRepository stores Client documents keyed by id and by the derived person reference.
type ClientRepository interface {
	Save(ctx context.Context, client *domain.Client) (*domain.Client, error)
	FindByID(ctx context.Context, id string) (*domain.Client, error)
	FindByPersonID(ctx context.Context, personID string) (*domain.Client, error)
	FindAllByID(ctx context.Context, ids []string) ([]domain.Client, error)
	FindAll(ctx context.Context) ([]domain.Client, error)
	Delete(ctx context.Context, id string) error
}

// Stores bundles the adapters of one backend so the wiring can pick a driver at boot.
type Stores struct {
	Persons               PersonRepository
	LegalRepresentatives  LinkRepository
	AuthorizedSignatories LinkRepository
	Clients               ClientRepository
}
