// Package storage defines person-record persistence: the collaborator the
// engine seeds its in-memory store from at startup.
package storage

import (
	"context"

	"github.com/hyperjump/musubi/internal/models"
)

// Storage persists full person records across restarts.
type Storage interface {
	SavePerson(ctx context.Context, p *models.Person) error
	GetPerson(ctx context.Context, id string) (*models.Person, error)
	LoadAll(ctx context.Context) ([]*models.Person, error)
	CountPeople(ctx context.Context) (int64, error)
	Close() error
}
