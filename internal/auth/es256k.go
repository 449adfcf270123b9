package auth

import (
	"crypto/sha256"
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/golang-jwt/jwt/v5"
)

// SigningMethodES256K implements JWT signing over secp256k1, the curve most
// ATProto identities sign with. golang-jwt only ships the NIST curves.
var SigningMethodES256K *signingMethodES256K

type signingMethodES256K struct{}

func init() {
	SigningMethodES256K = &signingMethodES256K{}
	jwt.RegisterSigningMethod(SigningMethodES256K.Alg(), func() jwt.SigningMethod {
		return SigningMethodES256K
	})
}

func (m *signingMethodES256K) Alg() string {
	return "ES256K"
}

// Verify checks a compact (R || S) signature against a *secp256k1.PublicKey.
func (m *signingMethodES256K) Verify(signingString string, sig []byte, key interface{}) error {
	pub, ok := key.(*secp256k1.PublicKey)
	if !ok {
		return jwt.ErrInvalidKeyType
	}
	if len(sig) != 64 {
		return jwt.ErrSignatureInvalid
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return jwt.ErrSignatureInvalid
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return jwt.ErrSignatureInvalid
	}

	hash := sha256.Sum256([]byte(signingString))
	if !secpecdsa.NewSignature(&r, &s).Verify(hash[:], pub) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

// Sign produces a compact (R || S) signature with a *secp256k1.PrivateKey.
func (m *signingMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	priv, ok := key.(*secp256k1.PrivateKey)
	if !ok {
		return nil, jwt.ErrInvalidKeyType
	}

	hash := sha256.Sum256([]byte(signingString))
	sig := secpecdsa.Sign(priv, hash[:])

	r := sig.R()
	s := sig.S()
	rBytes := r.Bytes()
	sBytes := s.Bytes()

	out := make([]byte, 0, 64)
	out = append(out, rBytes[:]...)
	out = append(out, sBytes[:]...)
	if len(out) != 64 {
		return nil, errors.New("unexpected signature length")
	}
	return out, nil
}
