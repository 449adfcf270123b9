package repository

import (
	"context"

	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockRepository defines persistence operations for directed block edges.
type BlockRepository interface {
	// BlockedUserIDs returns the set of internal user IDs the given user
	// blocks. The set is always computed relative to a specific guestbook
	// owner.
	BlockedUserIDs(ctx context.Context, blockingUserID uint) (map[uint]struct{}, error)
	// Block records a directed block edge; repeating it is a no-op.
	Block(ctx context.Context, blockingDID, blockedDID string) error
	// Unblock removes the edge if present.
	Unblock(ctx context.Context, blockingDID, blockedDID string) error
}

type blockRepository struct {
	db    *gorm.DB
	users UserRepository
}

// NewBlockRepository returns a new BlockRepository implementation.
func NewBlockRepository(db *gorm.DB, users UserRepository) BlockRepository {
	return &blockRepository{db: db, users: users}
}

func (r *blockRepository) BlockedUserIDs(ctx context.Context, blockingUserID uint) (map[uint]struct{}, error) {
	defer observability.TrackQuery("list", "blocked_users")()

	var edges []models.BlockedUser
	err := r.db.WithContext(ctx).
		Where("blocking_user_id = ?", blockingUserID).
		Find(&edges).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	blocked := make(map[uint]struct{}, len(edges))
	for _, edge := range edges {
		blocked[edge.BlockedUserID] = struct{}{}
	}
	return blocked, nil
}

func (r *blockRepository) Block(ctx context.Context, blockingDID, blockedDID string) error {
	defer observability.TrackQuery("create", "blocked_users")()

	blocking, err := r.users.EnsureUser(ctx, blockingDID)
	if err != nil {
		return err
	}
	blocked, err := r.users.EnsureUser(ctx, blockedDID)
	if err != nil {
		return err
	}

	edge := models.BlockedUser{
		BlockingUserID: blocking.ID,
		BlockedUserID:  blocked.ID,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "blocking_user_id"},
				{Name: "blocked_user_id"},
			},
			DoNothing: true,
		}).
		Create(&edge).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *blockRepository) Unblock(ctx context.Context, blockingDID, blockedDID string) error {
	defer observability.TrackQuery("delete", "blocked_users")()

	blocking, err := r.users.GetByDID(ctx, blockingDID)
	if err != nil {
		return err
	}
	blocked, err := r.users.GetByDID(ctx, blockedDID)
	if err != nil {
		return err
	}
	if blocking == nil || blocked == nil {
		return nil
	}

	err = r.db.WithContext(ctx).
		Where("blocking_user_id = ? AND blocked_user_id = ?", blocking.ID, blocked.ID).
		Delete(&models.BlockedUser{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
