package models

import (
	"time"
)

// Guestbook is a guestbook record mirrored from the network. The
// (record_key, collection, owner_id) triple is unique: upserts key on it and
// the owner never changes after creation.
//
// Deletion is a flag flip, not row removal. Submissions survive deletion and
// stay queryable internally; external responses decide what to expose.
type Guestbook struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	RecordKey  string    `gorm:"not null;uniqueIndex:idx_guestbooks_triple" json:"record_key"`
	Collection string    `gorm:"not null;uniqueIndex:idx_guestbooks_triple" json:"collection"`
	OwnerID    uint      `gorm:"not null;uniqueIndex:idx_guestbooks_triple" json:"owner_id"`
	Title      string    `json:"title"`
	Record     string    `gorm:"type:text" json:"-"`
	IsDeleted  bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Owner       User         `gorm:"foreignKey:OwnerID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:GuestbookID" json:"submissions,omitempty"`
}
