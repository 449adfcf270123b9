// Package models contains the GORM data model for the guestbook AppView.
package models

import (
	"time"
)

// User is a network identity known to this AppView. Rows are created lazily
// the first time a DID shows up as a guestbook owner or submission author.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Did       string    `gorm:"uniqueIndex;not null" json:"did"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Guestbooks []Guestbook   `gorm:"foreignKey:OwnerID" json:"guestbooks,omitempty"`
	Blocking   []BlockedUser `gorm:"foreignKey:BlockingUserID" json:"-"`
}
