package serviceimpl

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"agenda-api/domain/dto"
	"agenda-api/domain/models"
	"agenda-api/domain/repositories"
	"agenda-api/domain/services"
	"agenda-api/infrastructure/redis"
	"agenda-api/pkg/logger"
	"agenda-api/pkg/utils"
)

type PersonaServiceImpl struct {
	personaRepo repositories.PersonaRepository
	resolver    *FriendResolver
	cache       *redis.PersonaCache // nil disables caching
}

func NewPersonaService(personaRepo repositories.PersonaRepository, cache *redis.PersonaCache) services.PersonaService {
	return &PersonaServiceImpl{
		personaRepo: personaRepo,
		resolver:    NewFriendResolver(personaRepo),
		cache:       cache,
	}
}

func (s *PersonaServiceImpl) ListPersonas(ctx context.Context, name string) ([]dto.PersonaResponse, error) {
	personas, err := s.personaRepo.List(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}

	responses := make([]dto.PersonaResponse, 0, len(personas))
	for i := range personas {
		friends, err := s.resolver.ResolveFriends(ctx, &personas[i])
		if err != nil {
			return nil, fmt.Errorf("resolve friends: %w", err)
		}
		responses = append(responses, *dto.PersonaToResponse(&personas[i], friends))
	}
	return responses, nil
}

func (s *PersonaServiceImpl) GetPersonaByEmail(ctx context.Context, email string) (*dto.PersonaResponse, error) {
	if s.cache != nil {
		if view := s.cache.GetView(ctx, email); view != nil {
			return view, nil
		}
	}

	persona, err := s.personaRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get persona: %w", err)
	}
	if persona == nil {
		return nil, services.ErrPersonaNotFound
	}

	friends, err := s.resolver.ResolveFriends(ctx, persona)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}

	view := dto.PersonaToResponse(persona, friends)
	if s.cache != nil {
		s.cache.SetView(ctx, email, view)
	}
	return view, nil
}

func (s *PersonaServiceImpl) CreatePersona(ctx context.Context, req *dto.CreatePersonaRequest) (*dto.PersonaResponse, error) {
	if req == nil || req.Friends == nil || utils.ValidateStruct(req) != nil {
		return nil, services.ErrMissingFields
	}

	emailTaken, err := s.personaRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return nil, services.ErrEmailRegistered
	}

	phoneTaken, err := s.personaRepo.PhoneExists(ctx, req.Phone, "")
	if err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	}
	if phoneTaken {
		return nil, services.ErrPhoneRegistered
	}

	friendIDs, err := s.checkFriends(ctx, req.Friends)
	if err != nil {
		return nil, err
	}

	persona := &models.Persona{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	if err := s.personaRepo.Create(ctx, persona, friendIDs); err != nil {
		return nil, fmt.Errorf("insert persona: %w", err)
	}

	// Re-fetch to render the stored record; coming back empty right after
	// a committed insert is a store problem, not a client one.
	created, err := s.personaRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("refetch persona: %w", err)
	}
	if created == nil {
		logger.PersonaError("create_refetch_empty", "Inserted persona missing on re-fetch", services.ErrStoreInconsistent, map[string]interface{}{"email": req.Email})
		return nil, services.ErrStoreInconsistent
	}

	friends, err := s.resolver.ResolveFriends(ctx, created)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}

	s.invalidateViews(ctx)
	logger.Persona("created", "Persona created", map[string]interface{}{"id": created.ID.String(), "friends": len(friends)})
	return dto.PersonaToResponse(created, friends), nil
}

func (s *PersonaServiceImpl) UpdatePersona(ctx context.Context, req *dto.UpdatePersonaRequest) (*dto.PersonaResponse, error) {
	if req == nil || req.Friends == nil || utils.ValidateStruct(req) != nil {
		return nil, services.ErrMissingFields
	}

	persona, err := s.personaRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get persona: %w", err)
	}
	if persona == nil {
		return nil, services.ErrPersonaNotFound
	}

	// Phone uniqueness must not trip over the persona's own current phone
	phoneTaken, err := s.personaRepo.PhoneExists(ctx, req.Phone, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check phone: %w", err)
	}
	if phoneTaken {
		return nil, services.ErrPhoneRegistered
	}

	friendIDs, err := s.checkFriends(ctx, req.Friends)
	if err != nil {
		return nil, err
	}

	if err := s.personaRepo.Update(ctx, persona.ID, req.Name, req.Phone, friendIDs); err != nil {
		return nil, fmt.Errorf("update persona: %w", err)
	}

	updated, err := s.personaRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("refetch persona: %w", err)
	}
	if updated == nil {
		logger.PersonaError("update_refetch_empty", "Updated persona missing on re-fetch", services.ErrStoreInconsistent, map[string]interface{}{"email": req.Email})
		return nil, services.ErrStoreInconsistent
	}

	friends, err := s.resolver.ResolveFriends(ctx, updated)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}

	s.invalidateViews(ctx)
	logger.Persona("updated", "Persona updated", map[string]interface{}{"id": updated.ID.String()})
	return dto.PersonaToResponse(updated, friends), nil
}

func (s *PersonaServiceImpl) DeletePersona(ctx context.Context, email string) error {
	persona, err := s.personaRepo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("get persona: %w", err)
	}
	if persona == nil {
		return services.ErrPersonaNotFound
	}

	if err := s.personaRepo.Delete(ctx, persona.ID); err != nil {
		return fmt.Errorf("delete persona: %w", err)
	}

	// Cascade: pull the deleted id from every other friend set. The delete
	// has already committed, so a cascade failure is logged and left to
	// the sweep rather than rolled back.
	removed, err := s.personaRepo.RemoveFriendRefs(ctx, persona.ID)
	if err != nil {
		logger.PersonaError("cascade_failed", "Friend reference cleanup failed after delete", err, map[string]interface{}{"id": persona.ID.String()})
	} else if removed > 0 {
		logger.Persona("cascade", "Removed friend references to deleted persona", map[string]interface{}{"id": persona.ID.String(), "removed": removed})
	}

	s.invalidateViews(ctx)
	logger.Persona("deleted", "Persona deleted", map[string]interface{}{"id": persona.ID.String()})
	return nil
}

func (s *PersonaServiceImpl) SweepFriendships(ctx context.Context) (int64, error) {
	removed, err := s.personaRepo.DeleteDangling(ctx)
	if err != nil {
		return 0, fmt.Errorf("sweep friendships: %w", err)
	}
	if removed > 0 {
		logger.Persona("sweep", "Removed dangling friend references", map[string]interface{}{"removed": removed})
		s.invalidateViews(ctx)
	}
	return removed, nil
}

// checkFriends parses the request's friend id strings and verifies every
// distinct id exists. Malformed ids cannot reference anyone, so they fail
// the same way unknown ids do.
func (s *PersonaServiceImpl) checkFriends(ctx context.Context, friends []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(friends))
	for _, raw := range friends {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, services.ErrFriendsNotFound
		}
		ids = append(ids, id)
	}
	ids = dedupIDs(ids)

	valid, err := s.resolver.ValidateFriendIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("validate friends: %w", err)
	}
	if !valid {
		return nil, services.ErrFriendsNotFound
	}
	return ids, nil
}

func (s *PersonaServiceImpl) invalidateViews(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAll(ctx)
	}
}
