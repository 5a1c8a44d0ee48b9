package serviceimpl

import (
	"context"

	"github.com/google/uuid"

	"agenda-api/domain/dto"
	"agenda-api/domain/models"
	"agenda-api/domain/repositories"
)

// FriendResolver translates between stored friend ids and friend summaries.
// It is read-only; both methods ride on the repository's single id-set
// lookup so resolution and validation can never disagree about what exists.
type FriendResolver struct {
	personaRepo repositories.PersonaRepository
}

func NewFriendResolver(personaRepo repositories.PersonaRepository) *FriendResolver {
	return &FriendResolver{personaRepo: personaRepo}
}

// ResolveFriends expands the persona's friend set into summaries, in store
// order. A nil or empty set yields an empty slice. Ids that no longer
// resolve to a persona are silently omitted: a concurrent delete may leave
// a link dangling until the cascade or sweep catches up, and a read must
// not fail over it.
func (r *FriendResolver) ResolveFriends(ctx context.Context, persona *models.Persona) ([]dto.FriendSummary, error) {
	ids := dedupIDs(persona.FriendIDs)
	if len(ids) == 0 {
		return []dto.FriendSummary{}, nil
	}

	friends, err := r.personaRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return dto.PersonasToFriendSummaries(friends), nil
}

// ValidateFriendIDs reports whether every distinct id resolves to a stored
// persona. Strict; write paths reject the request when it returns false.
func (r *FriendResolver) ValidateFriendIDs(ctx context.Context, ids []uuid.UUID) (bool, error) {
	distinct := dedupIDs(ids)
	if len(distinct) == 0 {
		return true, nil
	}

	found, err := r.personaRepo.FindByIDs(ctx, distinct)
	if err != nil {
		return false, err
	}
	return len(found) == len(distinct), nil
}

func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return distinct
}
