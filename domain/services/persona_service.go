package services

import (
	"context"
	"errors"

	"agenda-api/domain/dto"
)

// Error messages are user-visible; handlers map them to status codes with
// errors.Is and return err.Error() verbatim.
var (
	ErrMissingFields   = errors.New("Name, email, phone and friends are required")
	ErrEmailRegistered = errors.New("El email ya está registrado.")
	ErrPhoneRegistered = errors.New("El teléfono ya está registrado.")
	ErrPersonaNotFound = errors.New("Persona no encontrada")
	ErrFriendsNotFound = errors.New("Amigos no encontrados.")

	// ErrStoreInconsistent means a write committed but the re-fetch of the
	// written record came back empty.
	ErrStoreInconsistent = errors.New("store inconsistent after write")
)

type PersonaService interface {
	// ListPersonas returns every persona, or those matching the exact
	// name when it is non-empty, each with its friends resolved.
	ListPersonas(ctx context.Context, name string) ([]dto.PersonaResponse, error)

	GetPersonaByEmail(ctx context.Context, email string) (*dto.PersonaResponse, error)

	CreatePersona(ctx context.Context, req *dto.CreatePersonaRequest) (*dto.PersonaResponse, error)

	// UpdatePersona looks the persona up by email; email itself is never
	// changed even though the payload carries it.
	UpdatePersona(ctx context.Context, req *dto.UpdatePersonaRequest) (*dto.PersonaResponse, error)

	// DeletePersona removes the persona and then pulls its id from every
	// other persona's friend set. The cascade is best-effort: a cascade
	// failure is logged but does not undo the delete.
	DeletePersona(ctx context.Context, email string) error

	// SweepFriendships removes dangling friend links. Run by the
	// scheduler; returns how many links were removed.
	SweepFriendships(ctx context.Context) (int64, error)
}
