// Package auth verifies inter-service bearer tokens and yields the caller's
// identity.
package auth

// Caller is the outcome of credential resolution: either an authenticated DID
// or anonymous. Invalid and missing credentials both resolve to anonymous;
// credential resolution never fails a request.
type Caller struct {
	DID string
}

// Anonymous is the caller with no verified identity.
func Anonymous() Caller {
	return Caller{}
}

// Authenticated reports whether the caller carries a cryptographically
// verified identity claim.
func (c Caller) Authenticated() bool {
	return c.DID != ""
}

// Is reports whether the caller is the given DID. Anonymous callers match
// nothing.
func (c Caller) Is(did string) bool {
	return c.DID != "" && c.DID == did
}
