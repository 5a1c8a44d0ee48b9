package serviceimpl

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenda-api/domain/dto"
	"agenda-api/domain/models"
	"agenda-api/domain/repositories"
	"agenda-api/domain/services"
)

// Interface compliance (compile-time assertion)
var _ repositories.PersonaRepository = (*fakePersonaRepo)(nil)

// fakePersonaRepo is an in-memory PersonaRepository. Personas keep insertion
// order so list and id-set lookups are deterministic.
type fakePersonaRepo struct {
	personas map[uuid.UUID]models.Persona
	order    []uuid.UUID
	friends  map[uuid.UUID][]uuid.UUID

	// vanishAfterCreate makes Create succeed without storing anything, to
	// exercise the re-fetch consistency check.
	vanishAfterCreate bool
	cascadeErr        error
}

func newFakePersonaRepo() *fakePersonaRepo {
	return &fakePersonaRepo{
		personas: make(map[uuid.UUID]models.Persona),
		friends:  make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakePersonaRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Persona, error) {
	wanted := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	found := []models.Persona{}
	for _, id := range f.order {
		if _, ok := wanted[id]; ok {
			found = append(found, f.personas[id])
		}
	}
	return found, nil
}

func (f *fakePersonaRepo) GetByEmail(ctx context.Context, email string) (*models.Persona, error) {
	for _, id := range f.order {
		p := f.personas[id]
		if p.Email == email {
			p.FriendIDs = append([]uuid.UUID(nil), f.friends[p.ID]...)
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePersonaRepo) List(ctx context.Context, name string) ([]models.Persona, error) {
	matches := []models.Persona{}
	for _, id := range f.order {
		p := f.personas[id]
		if name != "" && p.Name != name {
			continue
		}
		p.FriendIDs = append([]uuid.UUID(nil), f.friends[p.ID]...)
		matches = append(matches, p)
	}
	return matches, nil
}

func (f *fakePersonaRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	for _, p := range f.personas {
		if p.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePersonaRepo) PhoneExists(ctx context.Context, phone, excludeEmail string) (bool, error) {
	for _, p := range f.personas {
		if p.Phone == phone && (excludeEmail == "" || p.Email != excludeEmail) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePersonaRepo) Create(ctx context.Context, persona *models.Persona, friendIDs []uuid.UUID) error {
	persona.ID = uuid.New()
	if f.vanishAfterCreate {
		return nil
	}
	f.personas[persona.ID] = *persona
	f.order = append(f.order, persona.ID)
	f.friends[persona.ID] = append([]uuid.UUID(nil), friendIDs...)
	return nil
}

func (f *fakePersonaRepo) Update(ctx context.Context, id uuid.UUID, name, phone string, friendIDs []uuid.UUID) error {
	p, ok := f.personas[id]
	if !ok {
		return errors.New("persona missing")
	}
	p.Name = name
	p.Phone = phone
	f.personas[id] = p
	f.friends[id] = append([]uuid.UUID(nil), friendIDs...)
	return nil
}

func (f *fakePersonaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.personas, id)
	delete(f.friends, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakePersonaRepo) RemoveFriendRefs(ctx context.Context, friendID uuid.UUID) (int64, error) {
	if f.cascadeErr != nil {
		return 0, f.cascadeErr
	}
	var removed int64
	for id, ids := range f.friends {
		kept := ids[:0]
		for _, fid := range ids {
			if fid == friendID {
				removed++
				continue
			}
			kept = append(kept, fid)
		}
		f.friends[id] = kept
	}
	return removed, nil
}

func (f *fakePersonaRepo) DeleteDangling(ctx context.Context) (int64, error) {
	var removed int64
	for id, ids := range f.friends {
		kept := ids[:0]
		for _, fid := range ids {
			if _, ok := f.personas[fid]; !ok {
				removed++
				continue
			}
			kept = append(kept, fid)
		}
		f.friends[id] = kept
	}
	return removed, nil
}

func newTestService(repo repositories.PersonaRepository) services.PersonaService {
	return NewPersonaService(repo, nil)
}

func createReq(name, email, phone string, friends []string) *dto.CreatePersonaRequest {
	if friends == nil {
		friends = []string{}
	}
	return &dto.CreatePersonaRequest{Name: name, Email: email, Phone: phone, Friends: friends}
}

func TestCreatePersona(t *testing.T) {
	ctx := context.Background()
	repo := newFakePersonaRepo()
	svc := newTestService(repo)

	created, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Ana", created.Name)
	assert.Empty(t, created.Friends)
	assert.NotNil(t, created.Friends, "friends must render as [] not null")
}

func TestCreatePersona_MissingFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	cases := []*dto.CreatePersonaRequest{
		{Name: "", Email: "a@x.com", Phone: "1", Friends: []string{}},
		{Name: "Ana", Email: "", Phone: "1", Friends: []string{}},
		{Name: "Ana", Email: "a@x.com", Phone: "", Friends: []string{}},
		{Name: "Ana", Email: "a@x.com", Phone: "1", Friends: nil},
	}
	for _, req := range cases {
		_, err := svc.CreatePersona(ctx, req)
		assert.ErrorIs(t, err, services.ErrMissingFields)
	}
}

func TestCreatePersona_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	// Different name and phone must not rescue a duplicate email
	_, err = svc.CreatePersona(ctx, createReq("Bo", "a@x.com", "2", nil))
	assert.ErrorIs(t, err, services.ErrEmailRegistered)
}

func TestCreatePersona_DuplicatePhone(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	_, err = svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "1", nil))
	assert.ErrorIs(t, err, services.ErrPhoneRegistered)
}

func TestCreatePersona_UnknownFriend(t *testing.T) {
	ctx := context.Background()
	repo := newFakePersonaRepo()
	svc := newTestService(repo)

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", []string{uuid.NewString()}))
	assert.ErrorIs(t, err, services.ErrFriendsNotFound)
	assert.Empty(t, repo.personas, "rejected create must not insert")
}

func TestCreatePersona_MalformedFriendID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", []string{"not-a-uuid"}))
	assert.ErrorIs(t, err, services.ErrFriendsNotFound)
}

func TestCreatePersona_DuplicateFriendIDsCollapse(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	ana, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	bo, err := svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", []string{ana.ID, ana.ID}))
	require.NoError(t, err)
	assert.Len(t, bo.Friends, 1)
}

func TestCreatePersona_RefetchMissing(t *testing.T) {
	ctx := context.Background()
	repo := newFakePersonaRepo()
	repo.vanishAfterCreate = true
	svc := newTestService(repo)

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	assert.ErrorIs(t, err, services.ErrStoreInconsistent)
}

func TestCreatePersona_RoundTripFriends(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	ana, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	bo, err := svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", []string{ana.ID}))
	require.NoError(t, err)
	require.Len(t, bo.Friends, 1)
	assert.Equal(t, dto.FriendSummary{ID: ana.ID, Name: "Ana", Email: "a@x.com", Phone: "1"}, bo.Friends[0])
}

func TestGetPersonaByEmail_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.GetPersonaByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, services.ErrPersonaNotFound)
}

func TestListPersonas(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)
	_, err = svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", nil))
	require.NoError(t, err)

	all, err := svc.ListPersonas(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := svc.ListPersonas(ctx, "Ana")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "a@x.com", filtered[0].Email)

	none, err := svc.ListPersonas(ctx, "Carla")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdatePersona(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	ana, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)
	_, err = svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", nil))
	require.NoError(t, err)

	updated, err := svc.UpdatePersona(ctx, &dto.UpdatePersonaRequest{
		Name: "Bobby", Email: "b@x.com", Phone: "3", Friends: []string{ana.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bobby", updated.Name)
	assert.Equal(t, "3", updated.Phone)
	assert.Equal(t, "b@x.com", updated.Email, "email is immutable")
	require.Len(t, updated.Friends, 1)
	assert.Equal(t, ana.ID, updated.Friends[0].ID)
}

func TestUpdatePersona_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.UpdatePersona(ctx, &dto.UpdatePersonaRequest{
		Name: "Ana", Email: "a@x.com", Phone: "1", Friends: []string{},
	})
	assert.ErrorIs(t, err, services.ErrPersonaNotFound)
}

func TestUpdatePersona_PhoneConflict(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)
	_, err = svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", nil))
	require.NoError(t, err)

	// Another persona's phone conflicts
	_, err = svc.UpdatePersona(ctx, &dto.UpdatePersonaRequest{
		Name: "Bo", Email: "b@x.com", Phone: "1", Friends: []string{},
	})
	assert.ErrorIs(t, err, services.ErrPhoneRegistered)

	// The persona's own current phone does not
	updated, err := svc.UpdatePersona(ctx, &dto.UpdatePersonaRequest{
		Name: "Bo", Email: "b@x.com", Phone: "2", Friends: []string{},
	})
	require.NoError(t, err)
	assert.Equal(t, "2", updated.Phone)
}

func TestUpdatePersona_UnknownFriend(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	_, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	_, err = svc.UpdatePersona(ctx, &dto.UpdatePersonaRequest{
		Name: "Ana", Email: "a@x.com", Phone: "1", Friends: []string{uuid.NewString()},
	})
	assert.ErrorIs(t, err, services.ErrFriendsNotFound)
}

func TestDeletePersona_NotFound(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	err := svc.DeletePersona(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, services.ErrPersonaNotFound)
}

// The Ana/Bo scenario: B lists A, deleting A must leave B with no friends.
func TestDeletePersona_Cascade(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newFakePersonaRepo())

	ana, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)

	bo, err := svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", []string{ana.ID}))
	require.NoError(t, err)
	require.Len(t, bo.Friends, 1)

	require.NoError(t, svc.DeletePersona(ctx, "a@x.com"))

	_, err = svc.GetPersonaByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, services.ErrPersonaNotFound)

	boAfter, err := svc.GetPersonaByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, boAfter.Friends)
	assert.NotNil(t, boAfter.Friends)
}

func TestDeletePersona_CascadeFailureKeepsDelete(t *testing.T) {
	ctx := context.Background()
	repo := newFakePersonaRepo()
	svc := newTestService(repo)

	ana, err := svc.CreatePersona(ctx, createReq("Ana", "a@x.com", "1", nil))
	require.NoError(t, err)
	_, err = svc.CreatePersona(ctx, createReq("Bo", "b@x.com", "2", []string{ana.ID}))
	require.NoError(t, err)

	repo.cascadeErr = errors.New("store hiccup")
	require.NoError(t, svc.DeletePersona(ctx, "a@x.com"), "delete commits even when the cascade fails")

	_, err = svc.GetPersonaByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, services.ErrPersonaNotFound)

	// The dangling reference is tolerated on read...
	boAfter, err := svc.GetPersonaByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Empty(t, boAfter.Friends)

	// ...and repaired by the sweep
	repo.cascadeErr = nil
	removed, err := svc.SweepFriendships(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
