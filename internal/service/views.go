// Package service contains the read projections and mutations of the
// guestbook AppView.
package service

// Actor is the externally visible shape of a network identity. Handle and
// avatar come from on-demand profile resolution and may be absent.
type Actor struct {
	Did    string  `json:"did"`
	Handle *string `json:"handle,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
}

// SubmissionView is a fully annotated submission. Hidden and authorBlocked
// are annotations, not filters: the RPC handler decides what the caller may
// see.
type SubmissionView struct {
	AtURI         string  `json:"atUri"`
	Author        Actor   `json:"author"`
	Text          *string `json:"text,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	Hidden        bool    `json:"hidden"`
	AuthorBlocked bool    `json:"authorBlocked"`
}

// GuestbookView is the externally visible shape of a single guestbook with
// its full annotated submission set.
type GuestbookView struct {
	AtURI       string           `json:"atUri"`
	ID          uint             `json:"id"`
	Title       *string          `json:"title,omitempty"`
	IsDeleted   bool             `json:"isDeleted"`
	Owner       Actor            `json:"owner"`
	Submissions []SubmissionView `json:"submissions"`
}

// GuestbookSummary is one entry of the guestbook listing.
// HiddenSubmissionsCount is nil for anyone but the verified owner: nil means
// "you may not know", zero means "there truly are none".
type GuestbookSummary struct {
	Title                  *string `json:"title,omitempty"`
	AtURI                  string  `json:"atUri"`
	Owner                  Actor   `json:"owner"`
	SubmissionsCount       int     `json:"submissionsCount"`
	HiddenSubmissionsCount *int    `json:"hiddenSubmissionsCount,omitempty"`
}

// optional maps an empty string to an absent JSON field.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
