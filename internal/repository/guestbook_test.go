package repository

import (
	"context"
	"testing"

	"github.com/fujocoded/guestbook-appview/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookCollection = "com.fujocoded.guestbook.book"

func TestGuestbookUpsertIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewGuestbookRepository(db, users)
	ctx := context.Background()

	in := UpsertGuestbookInput{
		OwnerDID:   "did:plc:owner",
		RecordKey:  "3kabc",
		Collection: bookCollection,
		Title:      "My guestbook",
		Record:     `{"title":"My guestbook"}`,
	}
	require.NoError(t, repo.Upsert(ctx, in))

	in.Title = "Renamed"
	require.NoError(t, repo.Upsert(ctx, in))

	var count int64
	db.Table("guestbooks").Count(&count)
	assert.EqualValues(t, 1, count)

	book, err := repo.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.Equal(t, "Renamed", book.Title)
	assert.False(t, book.IsDeleted)
}

func TestGuestbookUpsertPreservesDeletionFlag(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewGuestbookRepository(db, users)
	ctx := context.Background()

	in := UpsertGuestbookInput{
		OwnerDID:   "did:plc:owner",
		RecordKey:  "3kabc",
		Collection: bookCollection,
		Title:      "Before",
	}
	require.NoError(t, repo.Upsert(ctx, in))
	require.NoError(t, repo.SoftDelete(ctx, "did:plc:owner", "3kabc"))

	// Re-ingesting the record must not resurrect the guestbook.
	in.Title = "After"
	require.NoError(t, repo.Upsert(ctx, in))

	book, err := repo.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)
	require.NotNil(t, book)
	assert.True(t, book.IsDeleted)
	assert.Equal(t, "After", book.Title)
}

func TestGetByOwnerAndKeyPreloads(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	books := NewGuestbookRepository(db, users)
	submissions := NewSubmissionRepository(db, users)
	ctx := context.Background()

	require.NoError(t, books.Upsert(ctx, UpsertGuestbookInput{
		OwnerDID: "did:plc:owner", RecordKey: "3kabc", Collection: bookCollection,
	}))
	book, err := books.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)
	require.NotNil(t, book)

	sub, err := submissions.Upsert(ctx, UpsertSubmissionInput{
		AuthorDID:   "did:plc:visitor",
		RecordKey:   "3ksub",
		Collection:  "com.fujocoded.guestbook.submission",
		GuestbookID: book.ID,
		Text:        "hello!",
	})
	require.NoError(t, err)
	require.NoError(t, submissions.Hide(ctx, sub.ID))

	loaded, err := books.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "did:plc:owner", loaded.Owner.Did)
	require.Len(t, loaded.Submissions, 1)
	assert.Equal(t, "did:plc:visitor", loaded.Submissions[0].Author.Did)
	assert.True(t, loaded.Submissions[0].Hidden())
}

func TestGetByOwnerAndKeyAbsent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewGuestbookRepository(db, users)
	ctx := context.Background()

	// Owner never seen.
	book, err := repo.GetByOwnerAndKey(ctx, "did:plc:ghost", "3kabc")
	require.NoError(t, err)
	assert.Nil(t, book)

	// Owner known, record key unknown.
	_, err = users.EnsureUser(ctx, "did:plc:owner")
	require.NoError(t, err)
	book, err = repo.GetByOwnerAndKey(ctx, "did:plc:owner", "3kmissing")
	require.NoError(t, err)
	assert.Nil(t, book)
}

func TestListByOwner(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewGuestbookRepository(db, users)
	ctx := context.Background()

	unknown, err := repo.ListByOwner(ctx, "did:plc:ghost")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	for _, key := range []string{"3ka", "3kb"} {
		require.NoError(t, repo.Upsert(ctx, UpsertGuestbookInput{
			OwnerDID: "did:plc:owner", RecordKey: key, Collection: bookCollection,
		}))
	}
	require.NoError(t, repo.SoftDelete(ctx, "did:plc:owner", "3kb"))

	books, err := repo.ListByOwner(ctx, "did:plc:owner")
	require.NoError(t, err)
	require.Len(t, books, 2)
	for _, book := range books {
		assert.Equal(t, "did:plc:owner", book.Owner.Did)
	}
}

func TestSoftDeleteLeavesSubmissions(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	users := NewUserRepository(db)
	books := NewGuestbookRepository(db, users)
	submissions := NewSubmissionRepository(db, users)
	ctx := context.Background()

	require.NoError(t, books.Upsert(ctx, UpsertGuestbookInput{
		OwnerDID: "did:plc:owner", RecordKey: "3kabc", Collection: bookCollection,
	}))
	book, err := books.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)

	_, err = submissions.Upsert(ctx, UpsertSubmissionInput{
		AuthorDID: "did:plc:visitor", RecordKey: "3ksub",
		Collection: "com.fujocoded.guestbook.submission", GuestbookID: book.ID,
	})
	require.NoError(t, err)

	require.NoError(t, books.SoftDelete(ctx, "did:plc:owner", "3kabc"))

	deleted, err := books.GetByOwnerAndKey(ctx, "did:plc:owner", "3kabc")
	require.NoError(t, err)
	require.NotNil(t, deleted)
	assert.True(t, deleted.IsDeleted)
	assert.Len(t, deleted.Submissions, 1)

	var rows []models.Submission
	require.NoError(t, db.Find(&rows).Error)
	assert.Len(t, rows, 1)
}
