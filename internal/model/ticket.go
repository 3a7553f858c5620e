package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ShareSource is the UI origin of a share action.
type ShareSource string

const (
	SourceActivity   ShareSource = "activity"
	SourceBookDetail ShareSource = "book_detail"
	SourceReader     ShareSource = "reader"
)

func (s ShareSource) Valid() bool {
	switch s {
	case SourceActivity, SourceBookDetail, SourceReader:
		return true
	}
	return false
}

// AcceptRecord is one friend's acceptance of a ticket, captured with the
// display fields the share page renders.
type AcceptRecord struct {
	UID        uuid.UUID `json:"uid"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	AcceptedAt time.Time `json:"accepted_at"`
}

// AcceptRecords is stored as a jsonb array on the ticket row so that a
// single conditional UPDATE can append a record and flip completion.
type AcceptRecords []AcceptRecord

func (r AcceptRecords) Value() (driver.Value, error) {
	if r == nil {
		r = AcceptRecords{}
	}
	return json.Marshal(r)
}

func (r *AcceptRecords) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = AcceptRecords{}
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	}
	return errors.New("unsupported accept records column type")
}

// Contains reports whether uid already accepted.
func (r AcceptRecords) Contains(uid uuid.UUID) bool {
	for _, rec := range r {
		if rec.UID == uid {
			return true
		}
	}
	return false
}

// Ticket is one owner's outstanding share instance for a campaign.
// Exactly one ticket exists per (owner, campaign).
type Ticket struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CampaignID uuid.UUID     `gorm:"type:uuid;not null;index;uniqueIndex:idx_tickets_owner_campaign,priority:2" json:"campaign_id"`
	OwnerID    uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_tickets_owner_campaign,priority:1" json:"owner_id"`
	ShareCode  string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"share_code"`
	Source     ShareSource   `gorm:"type:varchar(16);not null" json:"source"`
	Records    AcceptRecords `gorm:"type:jsonb;not null;default:'[]'" json:"records"`
	Completed  bool          `gorm:"not null;default:false" json:"completed"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

func (Ticket) TableName() string { return "friend_help_tickets" }
