package repositories

import (
	"context"

	"github.com/google/uuid"

	"agenda-api/domain/models"
)

type PersonaRepository interface {
	// FindByIDs fetches personas whose id is in ids, in store order.
	// Missing ids simply produce no row. FriendIDs are not loaded.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Persona, error)

	// GetByEmail returns nil, nil when no persona has the email.
	// FriendIDs are loaded.
	GetByEmail(ctx context.Context, email string) (*models.Persona, error)

	// List returns personas matching the exact name, or all when name is
	// empty. FriendIDs are loaded for every row.
	List(ctx context.Context, name string) ([]models.Persona, error)

	EmailExists(ctx context.Context, email string) (bool, error)

	// PhoneExists reports whether the phone is taken. A non-empty
	// excludeEmail exempts that persona's own record, so an update can
	// keep its current phone.
	PhoneExists(ctx context.Context, phone, excludeEmail string) (bool, error)

	// Create inserts the persona and its friend links in one transaction.
	// The store assigns the id.
	Create(ctx context.Context, persona *models.Persona, friendIDs []uuid.UUID) error

	// Update replaces name, phone and the whole friend set in one
	// transaction. ID and email are untouched.
	Update(ctx context.Context, id uuid.UUID, name, phone string, friendIDs []uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error

	// RemoveFriendRefs pulls friendID out of every persona's friend set
	// and returns how many links were removed.
	RemoveFriendRefs(ctx context.Context, friendID uuid.UUID) (int64, error)

	// DeleteDangling removes friend links whose target persona no longer
	// exists and returns how many were removed.
	DeleteDangling(ctx context.Context) (int64, error)
}
