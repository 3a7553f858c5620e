package model

import (
	"time"

	"github.com/google/uuid"
)

// Book holds the summary fields the referral listings render. The catalog
// itself is owned by another service; this table is read-only here.
type Book struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Author    string    `gorm:"type:varchar(255)" json:"author"`
	ImgURL    string    `gorm:"type:text" json:"img_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (Book) TableName() string { return "books" }
