package server

import (
	"github.com/fujocoded/guestbook-appview/internal/middleware"
	"github.com/fujocoded/guestbook-appview/internal/models"
	"github.com/fujocoded/guestbook-appview/internal/service"
	"github.com/fujocoded/guestbook-appview/internal/syntax"

	"github.com/gofiber/fiber/v2"
)

// getGuestbooksResponse is the envelope for the guestbook listing endpoint.
type getGuestbooksResponse struct {
	Guestbooks []service.GuestbookSummary `json:"guestbooks"`
}

// GetGuestbook handles com.fujocoded.guestbook.getGuestbook. It returns one
// guestbook with its visible submissions. Hidden submissions appear only for
// the verified owner with showHidden=true; submissions from authors the
// owner blocked never appear.
func (s *Server) GetGuestbook(c *fiber.Ctx) error {
	rawURI := c.Query("guestbookAtUri")
	if rawURI == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidRequestError("guestbookAtUri query parameter is required"))
	}

	uri, err := syntax.ParseGuestbookURI(rawURI)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidRequestError("guestbookAtUri is not a valid guestbook URI"))
	}

	caller := s.auth.ResolveCaller(c.UserContext(), c.Get(fiber.HeaderAuthorization), NSIDGetGuestbook)
	ctx := middleware.WithCallerDID(c.UserContext(), caller.DID)

	view, err := s.guestbooks.GetGuestbook(ctx, uri.OwnerDID, uri.RecordKey)
	if err != nil {
		return s.internalError(c, "fetching guestbook", err)
	}

	isOwn := caller.Is(uri.OwnerDID)

	// Deleted guestbooks stay visible to their owner, flagged, and are
	// indistinguishable from missing ones for everybody else.
	if view == nil || (view.IsDeleted && !isOwn) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Guestbook not found"))
	}

	// Echo the address exactly as the client sent it.
	view.AtURI = rawURI

	showHidden := c.QueryBool("showHidden") && isOwn
	visible := make([]service.SubmissionView, 0, len(view.Submissions))
	for _, submission := range view.Submissions {
		if submission.AuthorBlocked {
			continue
		}
		if submission.Hidden && !showHidden {
			continue
		}
		visible = append(visible, submission)
	}
	view.Submissions = visible

	return c.Status(fiber.StatusOK).JSON(view)
}

// GetGuestbooks handles com.fujocoded.guestbook.getGuestbooks, listing every
// non-deleted guestbook a DID owns.
func (s *Server) GetGuestbooks(c *fiber.Ctx) error {
	ownerDid := c.Query("ownerDid")
	if ownerDid == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewInvalidRequestError("ownerDid query parameter is required"))
	}

	caller := s.auth.ResolveCaller(c.UserContext(), c.Get(fiber.HeaderAuthorization), NSIDGetGuestbooks)
	ctx := middleware.WithCallerDID(c.UserContext(), caller.DID)

	summaries, err := s.guestbooks.ListGuestbooks(ctx, ownerDid, caller)
	if err != nil {
		return s.internalError(c, "listing guestbooks", err)
	}

	return c.Status(fiber.StatusOK).JSON(getGuestbooksResponse{Guestbooks: summaries})
}

func (s *Server) internalError(c *fiber.Ctx, operation string, err error) error {
	middleware.Logger.ErrorContext(c.UserContext(), "request failed",
		"operation", operation,
		"error", err,
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}
