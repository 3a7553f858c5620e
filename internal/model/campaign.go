package model

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is a friend-help referral campaign attached to a single book.
// Ranks are dense: across all campaigns they form the sequence 1..N and
// drive the display order of the campaign listings.
type Campaign struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	BookID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"book_id"`
	NeedNum   *int      `gorm:"type:integer" json:"need_num,omitempty"`
	LimitDays *int      `gorm:"type:integer" json:"limit_days,omitempty"`
	Rank      int       `gorm:"index;not null" json:"rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Campaign) TableName() string { return "friend_help_campaigns" }
