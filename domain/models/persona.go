package models

import (
	"time"

	"github.com/google/uuid"
)

// Persona is a directory entry. Email and phone are unique across the
// directory; email doubles as the external lookup key and never changes
// after creation.
type Persona struct {
	ID    uuid.UUID `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name  string    `gorm:"not null"`
	Email string    `gorm:"not null;uniqueIndex"`
	Phone string    `gorm:"not null;uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time

	// FriendIDs is the stored friend set, loaded from friendships by the
	// repository. Links are directed: A listing B does not imply B lists A.
	FriendIDs []uuid.UUID `gorm:"-"`
}

func (Persona) TableName() string {
	return "personas"
}
