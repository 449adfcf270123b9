package repository

import (
	"context"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertSubmissionInput carries a submission record as ingested from the
// network.
type UpsertSubmissionInput struct {
	AuthorDID   string
	RecordKey   string
	Collection  string
	GuestbookID uint
	Text        string
	CreatedAt   time.Time
}

// SubmissionRepository defines persistence operations for submissions and
// their moderation state.
type SubmissionRepository interface {
	// Upsert creates or updates the submission keyed on
	// (record_key, collection, author).
	Upsert(ctx context.Context, in UpsertSubmissionInput) (*models.Submission, error)
	// ListByGuestbook returns all submissions of a guestbook with author and
	// hide markers loaded, hidden ones included.
	ListByGuestbook(ctx context.Context, guestbookID uint) ([]models.Submission, error)
	// Hide attaches a hide marker to the submission.
	Hide(ctx context.Context, submissionID uint) error
	// Unhide removes every hide marker from the submission.
	Unhide(ctx context.Context, submissionID uint) error
}

type submissionRepository struct {
	db    *gorm.DB
	users UserRepository
}

// NewSubmissionRepository returns a new SubmissionRepository implementation.
func NewSubmissionRepository(db *gorm.DB, users UserRepository) SubmissionRepository {
	return &submissionRepository{db: db, users: users}
}

func (r *submissionRepository) Upsert(ctx context.Context, in UpsertSubmissionInput) (*models.Submission, error) {
	defer observability.TrackQuery("upsert", "submissions")()

	author, err := r.users.EnsureUser(ctx, in.AuthorDID)
	if err != nil {
		return nil, err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	submission := models.Submission{
		RecordKey:   in.RecordKey,
		Collection:  in.Collection,
		AuthorID:    author.ID,
		GuestbookID: in.GuestbookID,
		Text:        in.Text,
		CreatedAt:   createdAt,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "record_key"},
				{Name: "collection"},
				{Name: "author_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"text", "updated_at"}),
		}).
		Create(&submission).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	submission.Author = *author
	return &submission, nil
}

func (r *submissionRepository) ListByGuestbook(ctx context.Context, guestbookID uint) ([]models.Submission, error) {
	defer observability.TrackQuery("list", "submissions")()

	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("HideMarkers").
		Where("guestbook_id = ?", guestbookID).
		Order("created_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return submissions, nil
}

func (r *submissionRepository) Hide(ctx context.Context, submissionID uint) error {
	defer observability.TrackQuery("create", "hide_markers")()

	marker := models.HideMarker{SubmissionID: submissionID}
	if err := r.db.WithContext(ctx).Create(&marker).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *submissionRepository) Unhide(ctx context.Context, submissionID uint) error {
	defer observability.TrackQuery("delete", "hide_markers")()

	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Delete(&models.HideMarker{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
