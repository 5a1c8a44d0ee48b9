package models

import (
	"time"

	"github.com/google/uuid"
)

// Friendship is one directed friend link. There is deliberately no foreign
// key on FriendID: the delete cascade runs after the delete itself commits,
// so a row may dangle for a moment. Reads tolerate that and the scheduled
// sweep repairs it.
type Friendship struct {
	PersonaID uuid.UUID `gorm:"primaryKey;type:uuid;index"`
	FriendID  uuid.UUID `gorm:"primaryKey;type:uuid;index"`

	CreatedAt time.Time
}

func (Friendship) TableName() string {
	return "friendships"
}
