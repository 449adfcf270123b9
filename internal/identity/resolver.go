// Package identity resolves decentralized identifiers: signing keys for
// bearer-token verification and display profiles for responses.
package identity

import (
	"context"
	"crypto"
)

// KeyResolver resolves a DID to its current signing key. Implementations may
// perform network lookups; results may be cached.
type KeyResolver interface {
	ResolveSigningKey(ctx context.Context, did string) (crypto.PublicKey, error)
}

// Profile is the ephemeral display information for a DID. It is resolved on
// demand and never persisted by this service.
type Profile struct {
	Did    string `json:"did"`
	Handle string `json:"handle,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// ProfileResolver resolves display profiles for a set of DIDs in one batched
// lookup. DIDs without a resolvable profile are simply absent from the result,
// never an error.
type ProfileResolver interface {
	ResolveProfiles(ctx context.Context, dids []string) (map[string]Profile, error)
}
