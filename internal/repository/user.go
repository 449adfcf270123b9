// Package repository implements the data access layer for the AppView.
package repository

import (
	"context"
	"errors"

	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines persistence operations for network identities.
type UserRepository interface {
	// EnsureUser is the idempotent create-or-get: safe under concurrent
	// invocation for the same DID (unique constraint + conflict-tolerant
	// insert).
	EnsureUser(ctx context.Context, did string) (*models.User, error)
	// GetByDID returns (nil, nil) when the DID has never been seen.
	GetByDID(ctx context.Context, did string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) EnsureUser(ctx context.Context, did string) (*models.User, error) {
	defer observability.TrackQuery("ensure", "users")()

	user := models.User{Did: did}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "did"}},
			DoNothing: true,
		}).
		Create(&user).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	// A conflicting insert leaves the ID unset; fetch the winner's row.
	if user.ID == 0 {
		if err := r.db.WithContext(ctx).Where("did = ?", did).First(&user).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByDID(ctx context.Context, did string) (*models.User, error) {
	defer observability.TrackQuery("read", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("did = ?", did).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}
