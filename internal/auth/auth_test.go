package auth

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testServiceDID = "did:web:guestbooks.example.com"
	testCallerDID  = "did:plc:caller123"
	testNSID       = "com.fujocoded.guestbook.getGuestbook"
)

// fakeKeyResolver serves signing keys from a fixed map.
type fakeKeyResolver struct {
	keys map[string]crypto.PublicKey
	err  error
}

func (f *fakeKeyResolver) ResolveSigningKey(_ context.Context, did string) (crypto.PublicKey, error) {
	if f.err != nil {
		return nil, f.err
	}
	key, ok := f.keys[did]
	if !ok {
		return nil, errors.New("unknown did")
	}
	return key, nil
}

func newTestKeypair(t *testing.T) (*ecdsa.PrivateKey, *fakeKeyResolver) {
	t.Helper()
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	resolver := &fakeKeyResolver{keys: map[string]crypto.PublicKey{testCallerDID: &priv.PublicKey}}
	return priv, resolver
}

func signToken(t *testing.T, priv *ecdsa.PrivateKey, claims serviceClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := token.SignedString(priv)
	require.NoError(t, err)
	return signed
}

func validClaims() serviceClaims {
	return serviceClaims{
		Lxm: testNSID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testCallerDID,
			Audience:  jwt.ClaimStrings{testServiceDID},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
}

func TestResolveCallerValidToken(t *testing.T) {
	priv, resolver := newTestKeypair(t)
	auth := NewServiceAuth(testServiceDID, resolver)

	token := signToken(t, priv, validClaims())
	caller := auth.ResolveCaller(context.Background(), "Bearer "+token, testNSID)

	assert.True(t, caller.Authenticated())
	assert.Equal(t, testCallerDID, caller.DID)
	assert.True(t, caller.Is(testCallerDID))
	assert.False(t, caller.Is("did:plc:somebody-else"))
}

func TestResolveCallerAnonymousCases(t *testing.T) {
	priv, resolver := newTestKeypair(t)
	auth := NewServiceAuth(testServiceDID, resolver)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"did:web:other.example.com"}

	wrongMethod := validClaims()
	wrongMethod.Lxm = "com.fujocoded.guestbook.getGuestbooks"

	noExpiry := validClaims()
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + signToken(t, priv, expired)},
		{"wrong audience", "Bearer " + signToken(t, priv, wrongAudience)},
		{"token scoped to different method", "Bearer " + signToken(t, priv, wrongMethod)},
		{"missing expiry", "Bearer " + signToken(t, priv, noExpiry)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := auth.ResolveCaller(context.Background(), tt.authorization, testNSID)
			assert.False(t, caller.Authenticated())
			assert.Equal(t, Anonymous(), caller)
		})
	}
}

func TestResolveCallerTamperedToken(t *testing.T) {
	_, resolver := newTestKeypair(t)
	auth := NewServiceAuth(testServiceDID, resolver)

	// Sign with a key the resolver does not know about.
	otherPriv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	token := signToken(t, otherPriv, validClaims())
	caller := auth.ResolveCaller(context.Background(), "Bearer "+token, testNSID)
	assert.False(t, caller.Authenticated())
}

func TestResolveCallerResolverFailure(t *testing.T) {
	priv, _ := newTestKeypair(t)
	auth := NewServiceAuth(testServiceDID, &fakeKeyResolver{err: errors.New("directory unreachable")})

	token := signToken(t, priv, validClaims())
	caller := auth.ResolveCaller(context.Background(), "Bearer "+token, testNSID)
	assert.False(t, caller.Authenticated())
}

func TestResolveCallerUnknownIssuer(t *testing.T) {
	priv, resolver := newTestKeypair(t)
	auth := NewServiceAuth(testServiceDID, resolver)

	claims := validClaims()
	claims.Issuer = "did:plc:nobody"
	token := signToken(t, priv, claims)

	caller := auth.ResolveCaller(context.Background(), "Bearer "+token, testNSID)
	assert.False(t, caller.Authenticated())
}

func TestES256KRoundTrip(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	resolver := &fakeKeyResolver{keys: map[string]crypto.PublicKey{testCallerDID: priv.PubKey()}}
	auth := NewServiceAuth(testServiceDID, resolver)

	token := jwt.NewWithClaims(SigningMethodES256K, validClaims())
	signed, err := token.SignedString(priv)
	require.NoError(t, err)

	caller := auth.ResolveCaller(context.Background(), "Bearer "+signed, testNSID)
	assert.True(t, caller.Authenticated())
	assert.Equal(t, testCallerDID, caller.DID)
}

func TestES256KRejectsBadSignature(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	other, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	signed, err := jwt.NewWithClaims(SigningMethodES256K, validClaims()).SignedString(other)
	require.NoError(t, err)

	resolver := &fakeKeyResolver{keys: map[string]crypto.PublicKey{testCallerDID: priv.PubKey()}}
	auth := NewServiceAuth(testServiceDID, resolver)

	caller := auth.ResolveCaller(context.Background(), "Bearer "+signed, testNSID)
	assert.False(t, caller.Authenticated())
}
