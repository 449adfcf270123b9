package repository

import (
	"context"
	"errors"

	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertGuestbookInput carries the fields of a guestbook record as ingested
// from the network.
type UpsertGuestbookInput struct {
	OwnerDID   string
	RecordKey  string
	Collection string
	Title      string
	Record     string
}

// GuestbookRepository defines persistence operations for guestbooks.
type GuestbookRepository interface {
	// Upsert creates or updates the guestbook keyed on
	// (record_key, collection, owner). On conflict only title and the
	// serialized record change; the deletion flag and ownership are untouched.
	Upsert(ctx context.Context, in UpsertGuestbookInput) error
	// GetByOwnerAndKey eager-loads submissions with their author and hide
	// markers in one logical read. Returns (nil, nil) when the owner is
	// unknown or the guestbook does not exist.
	GetByOwnerAndKey(ctx context.Context, ownerDID, recordKey string) (*models.Guestbook, error)
	// ListByOwner returns every guestbook owned by the DID, deleted ones
	// included. An unknown owner yields an empty list.
	ListByOwner(ctx context.Context, ownerDID string) ([]models.Guestbook, error)
	// SoftDelete flips the deletion flag; submissions are left intact.
	SoftDelete(ctx context.Context, ownerDID, recordKey string) error
}

type guestbookRepository struct {
	db    *gorm.DB
	users UserRepository
}

// NewGuestbookRepository returns a new GuestbookRepository implementation.
func NewGuestbookRepository(db *gorm.DB, users UserRepository) GuestbookRepository {
	return &guestbookRepository{db: db, users: users}
}

func (r *guestbookRepository) Upsert(ctx context.Context, in UpsertGuestbookInput) error {
	defer observability.TrackQuery("upsert", "guestbooks")()

	owner, err := r.users.EnsureUser(ctx, in.OwnerDID)
	if err != nil {
		return err
	}

	guestbook := models.Guestbook{
		RecordKey:  in.RecordKey,
		Collection: in.Collection,
		OwnerID:    owner.ID,
		Title:      in.Title,
		Record:     in.Record,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "record_key"},
				{Name: "collection"},
				{Name: "owner_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"title", "record", "updated_at"}),
		}).
		Create(&guestbook).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *guestbookRepository) GetByOwnerAndKey(ctx context.Context, ownerDID, recordKey string) (*models.Guestbook, error) {
	defer observability.TrackQuery("read", "guestbooks")()

	owner, err := r.users.GetByDID(ctx, ownerDID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, nil
	}

	var guestbook models.Guestbook
	err = r.db.WithContext(ctx).
		Preload("Submissions").
		Preload("Submissions.Author").
		Preload("Submissions.HideMarkers").
		Where("owner_id = ? AND record_key = ?", owner.ID, recordKey).
		First(&guestbook).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}

	guestbook.Owner = *owner
	return &guestbook, nil
}

func (r *guestbookRepository) ListByOwner(ctx context.Context, ownerDID string) ([]models.Guestbook, error) {
	defer observability.TrackQuery("list", "guestbooks")()

	owner, err := r.users.GetByDID(ctx, ownerDID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return []models.Guestbook{}, nil
	}

	var guestbooks []models.Guestbook
	if err := r.db.WithContext(ctx).Where("owner_id = ?", owner.ID).Find(&guestbooks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range guestbooks {
		guestbooks[i].Owner = *owner
	}
	return guestbooks, nil
}

func (r *guestbookRepository) SoftDelete(ctx context.Context, ownerDID, recordKey string) error {
	defer observability.TrackQuery("delete", "guestbooks")()

	owner, err := r.users.EnsureUser(ctx, ownerDID)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Guestbook{}).
		Where("owner_id = ? AND record_key = ?", owner.ID, recordKey).
		Update("is_deleted", true).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
