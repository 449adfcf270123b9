package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockAndUnblock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewBlockRepository(db, users)
	ctx := context.Background()

	require.NoError(t, repo.Block(ctx, "did:plc:owner", "did:plc:troll"))
	// Repeating the edge is a no-op.
	require.NoError(t, repo.Block(ctx, "did:plc:owner", "did:plc:troll"))

	owner, err := users.GetByDID(ctx, "did:plc:owner")
	require.NoError(t, err)
	troll, err := users.GetByDID(ctx, "did:plc:troll")
	require.NoError(t, err)

	blocked, err := repo.BlockedUserIDs(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	_, isBlocked := blocked[troll.ID]
	assert.True(t, isBlocked)

	// The edge is directed; the troll blocks nobody.
	reverse, err := repo.BlockedUserIDs(ctx, troll.ID)
	require.NoError(t, err)
	assert.Empty(t, reverse)

	require.NoError(t, repo.Unblock(ctx, "did:plc:owner", "did:plc:troll"))
	blocked, err = repo.BlockedUserIDs(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, blocked)
}

func TestUnblockUnknownUsersIsNoop(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewBlockRepository(db, NewUserRepository(db))

	assert.NoError(t, repo.Unblock(context.Background(), "did:plc:nobody", "did:plc:also-nobody"))
}
