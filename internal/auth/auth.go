package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/fujocoded/guestbook-appview/internal/identity"
	"github.com/fujocoded/guestbook-appview/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
)

// serviceClaims is an inter-service token: the issuer is the calling
// identity, the audience is this AppView's DID and lxm scopes the token to a
// single method NSID.
type serviceClaims struct {
	Lxm string `json:"lxm,omitempty"`
	jwt.RegisteredClaims
}

// ServiceAuth verifies bearer tokens against this service's DID and the
// issuer's resolved signing key.
type ServiceAuth struct {
	serviceDID string
	keys       identity.KeyResolver
}

// NewServiceAuth returns a ServiceAuth for the given service DID.
func NewServiceAuth(serviceDID string, keys identity.KeyResolver) *ServiceAuth {
	return &ServiceAuth{serviceDID: serviceDID, keys: keys}
}

// ResolveCaller extracts and verifies the bearer credential from an
// Authorization header value, scoped to the requested method NSID.
//
// Every failure mode, missing header, malformed token, expiry, signature
// mismatch, resolver fault, resolves to Anonymous: an unauthenticated caller
// is a legitimate, common case and must never surface as a request error.
func (a *ServiceAuth) ResolveCaller(ctx context.Context, authorization, nsid string) Caller {
	const prefix = "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		return Anonymous()
	}
	tokenString := strings.TrimSpace(strings.TrimPrefix(authorization, prefix))
	if tokenString == "" {
		return Anonymous()
	}

	claims := &serviceClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			iss, err := t.Claims.GetIssuer()
			if err != nil || iss == "" {
				return nil, errors.New("token has no issuer")
			}
			return a.keys.ResolveSigningKey(ctx, iss)
		},
		jwt.WithValidMethods([]string{"ES256", "ES256K"}),
		jwt.WithAudience(a.serviceDID),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		middleware.Logger.DebugContext(ctx, "bearer token rejected, treating caller as anonymous",
			slog.String("nsid", nsid))
		return Anonymous()
	}

	if claims.Lxm != nsid {
		middleware.Logger.DebugContext(ctx, "bearer token scoped to different method, treating caller as anonymous",
			slog.String("nsid", nsid), slog.String("lxm", claims.Lxm))
		return Anonymous()
	}
	if claims.Issuer == "" {
		return Anonymous()
	}

	return Caller{DID: claims.Issuer}
}
