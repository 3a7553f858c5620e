package model

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus int

const (
	UserStatusActive   UserStatus = 1
	UserStatusDisabled UserStatus = 2
)

// User is the reading-app account. Accounts are managed by the identity
// service; the referral core only reads the display fields it copies into
// accept records.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Username  string     `gorm:"type:varchar(64);not null" json:"username"`
	Avatar    string     `gorm:"type:text" json:"avatar"`
	Status    UserStatus `gorm:"type:smallint;not null;default:1" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }
