package model

import (
	"time"

	"github.com/google/uuid"
)

// Unlock grants a user free access to a book. At most one unlock exists per
// (user, book); the unique index is what makes reward issuance exactly-once
// under concurrent completion retries.
type Unlock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_unlocks_user_book,priority:1" json:"user_id"`
	BookID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_unlocks_user_book,priority:2" json:"book_id"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func (Unlock) TableName() string { return "unlocks" }
