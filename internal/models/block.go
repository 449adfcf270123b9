package models

import (
	"time"
)

// BlockedUser is a directed block edge. It only suppresses the blocked
// author's submissions from the blocking user's own guestbook views; it never
// deletes data.
// The combination of BlockingUserID and BlockedUserID must be unique.
type BlockedUser struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BlockingUserID uint      `gorm:"not null;uniqueIndex:idx_block_edge" json:"blocking_user_id"`
	BlockedUserID  uint      `gorm:"not null;uniqueIndex:idx_block_edge" json:"blocked_user_id"`
	CreatedAt      time.Time `json:"created_at"`

	BlockingUser User `gorm:"foreignKey:BlockingUserID" json:"-"`
	BlockedUser  User `gorm:"foreignKey:BlockedUserID" json:"-"`
}
