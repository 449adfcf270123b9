package models

import (
	"time"
)

// Submission is a guestbook entry authored elsewhere on the network,
// identified by (author, collection, record_key).
type Submission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecordKey   string    `gorm:"not null;uniqueIndex:idx_submissions_record" json:"record_key"`
	Collection  string    `gorm:"not null;uniqueIndex:idx_submissions_record" json:"collection"`
	AuthorID    uint      `gorm:"not null;index;uniqueIndex:idx_submissions_record" json:"author_id"`
	GuestbookID uint      `gorm:"not null;index" json:"guestbook_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author      User         `gorm:"foreignKey:AuthorID" json:"author"`
	Guestbook   Guestbook    `gorm:"foreignKey:GuestbookID" json:"-"`
	HideMarkers []HideMarker `gorm:"foreignKey:SubmissionID" json:"-"`
}

// Hidden reports whether any hide marker is attached. The marker's existence
// is the sole signal; the model does not track who hid it or why.
func (s *Submission) Hidden() bool {
	return len(s.HideMarkers) > 0
}

// HideMarker flags a submission as hidden from non-owner views.
type HideMarker struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubmissionID uint      `gorm:"not null;index" json:"submission_id"`
	CreatedAt    time.Time `json:"created_at"`

	Submission Submission `gorm:"foreignKey:SubmissionID" json:"-"`
}
