// Package syntax parses canonical at:// addresses used by the guestbook API.
package syntax

import (
	"errors"
	"strings"
)

// ErrMalformedURI is returned when an address does not carry the
// owner/collection/record-key triple.
var ErrMalformedURI = errors.New("malformed guestbook address")

// GuestbookURI is the parsed form of a canonical guestbook address
// (at://<owner-did>/<collection>/<record-key>).
type GuestbookURI struct {
	OwnerDID   string
	Collection string
	RecordKey  string
}

// String reconstructs the canonical at:// form of the address.
func (u GuestbookURI) String() string {
	return "at://" + u.OwnerDID + "/" + u.Collection + "/" + u.RecordKey
}

// ParseGuestbookURI splits the address on "/" and reads the last three
// segments in reverse order as (record key, collection, owner DID). The
// collection segment is accepted but not used for lookup. Anything with fewer
// than three segments is rejected up front rather than silently misparsed.
func ParseGuestbookURI(atURI string) (GuestbookURI, error) {
	var segments []string
	for _, seg := range strings.Split(atURI, "/") {
		if seg == "" || seg == "at:" {
			continue
		}
		segments = append(segments, seg)
	}

	if len(segments) < 3 {
		return GuestbookURI{}, ErrMalformedURI
	}

	uri := GuestbookURI{
		RecordKey:  segments[len(segments)-1],
		Collection: segments[len(segments)-2],
		OwnerDID:   segments[len(segments)-3],
	}
	if uri.OwnerDID == "" || uri.Collection == "" || uri.RecordKey == "" {
		return GuestbookURI{}, ErrMalformedURI
	}
	return uri, nil
}
