package service

import (
	"context"
	"time"

	"github.com/fujocoded/guestbook-appview/internal/auth"
	"github.com/fujocoded/guestbook-appview/internal/identity"
	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/repository"
	"github.com/fujocoded/guestbook-appview/internal/syntax"
)

// GuestbookService projects guestbooks into their externally visible shapes
// and carries the record mutation path.
type GuestbookService struct {
	guestbooks  repository.GuestbookRepository
	submissions repository.SubmissionRepository
	blocks      repository.BlockRepository
	users       repository.UserRepository
	profiles    identity.ProfileResolver
}

// NewGuestbookService returns a new GuestbookService.
func NewGuestbookService(
	guestbooks repository.GuestbookRepository,
	submissions repository.SubmissionRepository,
	blocks repository.BlockRepository,
	users repository.UserRepository,
	profiles identity.ProfileResolver,
) *GuestbookService {
	return &GuestbookService{
		guestbooks:  guestbooks,
		submissions: submissions,
		blocks:      blocks,
		users:       users,
		profiles:    profiles,
	}
}

// GetGuestbook reads one guestbook and produces the full annotated
// projection: every submission tagged with hidden and authorBlocked, the
// guestbook tagged with isDeleted. It applies no visibility filtering; that
// is the RPC handler's job. Returns (nil, nil) when the owner or the
// guestbook does not exist.
func (s *GuestbookService) GetGuestbook(ctx context.Context, ownerDID, recordKey string) (*GuestbookView, error) {
	guestbook, err := s.guestbooks.GetByOwnerAndKey(ctx, ownerDID, recordKey)
	if err != nil {
		return nil, err
	}
	if guestbook == nil {
		return nil, nil
	}

	dids := make([]string, 0, len(guestbook.Submissions)+1)
	dids = append(dids, ownerDID)
	for _, submission := range guestbook.Submissions {
		if submission.Author.Did != "" {
			dids = append(dids, submission.Author.Did)
		}
	}
	profiles, err := s.profiles.ResolveProfiles(ctx, dids)
	if err != nil {
		return nil, err
	}

	blocked, err := s.blocks.BlockedUserIDs(ctx, guestbook.OwnerID)
	if err != nil {
		return nil, err
	}

	view := &GuestbookView{
		AtURI: syntax.GuestbookURI{
			OwnerDID:   ownerDID,
			Collection: guestbook.Collection,
			RecordKey:  guestbook.RecordKey,
		}.String(),
		ID:          guestbook.ID,
		Title:       optional(guestbook.Title),
		IsDeleted:   guestbook.IsDeleted,
		Owner:       actorFor(ownerDID, profiles),
		Submissions: make([]SubmissionView, 0, len(guestbook.Submissions)),
	}

	for _, submission := range guestbook.Submissions {
		_, authorBlocked := blocked[submission.AuthorID]
		view.Submissions = append(view.Submissions, SubmissionView{
			AtURI: syntax.GuestbookURI{
				OwnerDID:   submission.Author.Did,
				Collection: submission.Collection,
				RecordKey:  submission.RecordKey,
			}.String(),
			Author:        actorFor(submission.Author.Did, profiles),
			Text:          optional(submission.Text),
			CreatedAt:     submission.CreatedAt.UTC().Format(time.RFC3339),
			Hidden:        submission.Hidden(),
			AuthorBlocked: authorBlocked,
		})
	}

	return view, nil
}

// ListGuestbooks produces summaries of every non-deleted guestbook the DID
// owns. Hidden-submission counts are only present when the caller is the
// verified owner.
//
// Deleted guestbooks are dropped entirely, even for the owner, while the
// single fetch surfaces isDeleted to the owner. Known inconsistency, kept
// deliberately.
func (s *GuestbookService) ListGuestbooks(ctx context.Context, ownerDID string, caller auth.Caller) ([]GuestbookSummary, error) {
	guestbooks, err := s.guestbooks.ListByOwner(ctx, ownerDID)
	if err != nil {
		return nil, err
	}

	isOwn := caller.Is(ownerDID)
	summaries := make([]GuestbookSummary, 0, len(guestbooks))

	for _, guestbook := range guestbooks {
		if guestbook.IsDeleted {
			continue
		}

		submissions, err := s.submissions.ListByGuestbook(ctx, guestbook.ID)
		if err != nil {
			return nil, err
		}
		blocked, err := s.blocks.BlockedUserIDs(ctx, guestbook.OwnerID)
		if err != nil {
			return nil, err
		}

		visible := 0
		hidden := 0
		for _, submission := range submissions {
			if _, authorBlocked := blocked[submission.AuthorID]; authorBlocked {
				continue
			}
			if submission.Hidden() {
				hidden++
			} else {
				visible++
			}
		}

		summary := GuestbookSummary{
			Title: optional(guestbook.Title),
			AtURI: syntax.GuestbookURI{
				OwnerDID:   ownerDID,
				Collection: guestbook.Collection,
				RecordKey:  guestbook.RecordKey,
			}.String(),
			Owner:            Actor{Did: ownerDID},
			SubmissionsCount: visible,
		}
		if isOwn {
			hiddenCount := hidden
			summary.HiddenSubmissionsCount = &hiddenCount
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// UpsertGuestbook creates or updates a guestbook record. Repeating the call
// with identical input leaves exactly one row; the deletion flag is never
// touched.
func (s *GuestbookService) UpsertGuestbook(ctx context.Context, in repository.UpsertGuestbookInput) error {
	if in.OwnerDID == "" || in.RecordKey == "" || in.Collection == "" {
		return models.NewInvalidRequestError("guestbook record needs owner, collection and record key")
	}
	return s.guestbooks.Upsert(ctx, in)
}

// DeleteGuestbook soft-deletes the guestbook; its submissions persist.
func (s *GuestbookService) DeleteGuestbook(ctx context.Context, ownerDID, recordKey string) error {
	if ownerDID == "" || recordKey == "" {
		return models.NewInvalidRequestError("guestbook deletion needs owner and record key")
	}
	return s.guestbooks.SoftDelete(ctx, ownerDID, recordKey)
}

func actorFor(did string, profiles map[string]identity.Profile) Actor {
	actor := Actor{Did: did}
	if profile, ok := profiles[did]; ok {
		actor.Handle = optional(profile.Handle)
		actor.Avatar = optional(profile.Avatar)
	}
	return actor
}
