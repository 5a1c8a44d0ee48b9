package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"agenda-api/domain/models"
	"agenda-api/domain/repositories"
)

type PersonaRepositoryImpl struct {
	db *gorm.DB
}

func NewPersonaRepository(db *gorm.DB) repositories.PersonaRepository {
	return &PersonaRepositoryImpl{db: db}
}

func (r *PersonaRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Persona, error) {
	personas := []models.Persona{}
	if len(ids) == 0 {
		return personas, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&personas).Error
	return personas, err
}

func (r *PersonaRepositoryImpl) GetByEmail(ctx context.Context, email string) (*models.Persona, error) {
	var persona models.Persona
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&persona).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	friendIDs, err := r.friendIDsOf(ctx, persona.ID)
	if err != nil {
		return nil, err
	}
	persona.FriendIDs = friendIDs
	return &persona, nil
}

func (r *PersonaRepositoryImpl) List(ctx context.Context, name string) ([]models.Persona, error) {
	personas := []models.Persona{}
	query := r.db.WithContext(ctx)
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if err := query.Find(&personas).Error; err != nil {
		return nil, err
	}
	if len(personas) == 0 {
		return personas, nil
	}

	// One grouped query for all friend links instead of one per persona
	ids := make([]uuid.UUID, len(personas))
	for i, p := range personas {
		ids[i] = p.ID
	}

	var links []models.Friendship
	if err := r.db.WithContext(ctx).
		Where("persona_id IN ?", ids).
		Order("created_at ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}

	byPersona := make(map[uuid.UUID][]uuid.UUID, len(personas))
	for _, link := range links {
		byPersona[link.PersonaID] = append(byPersona[link.PersonaID], link.FriendID)
	}
	for i := range personas {
		personas[i].FriendIDs = byPersona[personas[i].ID]
	}
	return personas, nil
}

func (r *PersonaRepositoryImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Persona{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *PersonaRepositoryImpl) PhoneExists(ctx context.Context, phone, excludeEmail string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Persona{}).Where("phone = ?", phone)
	if excludeEmail != "" {
		query = query.Where("email <> ?", excludeEmail)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *PersonaRepositoryImpl) Create(ctx context.Context, persona *models.Persona, friendIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(persona).Error; err != nil {
			return err
		}
		return createFriendships(tx, persona.ID, friendIDs)
	})
}

func (r *PersonaRepositoryImpl) Update(ctx context.Context, id uuid.UUID, name, phone string, friendIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Persona{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name":  name,
			"phone": phone,
		}).Error
		if err != nil {
			return err
		}

		// Full replacement of the friend set
		if err := tx.Where("persona_id = ?", id).Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return createFriendships(tx, id, friendIDs)
	})
}

func (r *PersonaRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("persona_id = ?", id).Delete(&models.Friendship{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Persona{}).Error
	})
}

func (r *PersonaRepositoryImpl) RemoveFriendRefs(ctx context.Context, friendID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("friend_id = ?", friendID).Delete(&models.Friendship{})
	return result.RowsAffected, result.Error
}

func (r *PersonaRepositoryImpl) DeleteDangling(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("friend_id NOT IN (SELECT id FROM personas) OR persona_id NOT IN (SELECT id FROM personas)").
		Delete(&models.Friendship{})
	return result.RowsAffected, result.Error
}

func (r *PersonaRepositoryImpl) friendIDsOf(ctx context.Context, personaID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("persona_id = ?", personaID).
		Order("created_at ASC").
		Pluck("friend_id", &ids).Error
	return ids, err
}

func createFriendships(tx *gorm.DB, personaID uuid.UUID, friendIDs []uuid.UUID) error {
	if len(friendIDs) == 0 {
		return nil
	}
	links := make([]models.Friendship, len(friendIDs))
	for i, friendID := range friendIDs {
		links[i] = models.Friendship{PersonaID: personaID, FriendID: friendID}
	}
	return tx.Create(&links).Error
}
