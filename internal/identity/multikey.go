package identity

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"
)

// Multicodec prefixes (varint-encoded) for the two key types ATProto DID
// documents publish as Multikey values.
var (
	prefixSecp256k1 = []byte{0xe7, 0x01}
	prefixP256      = []byte{0x80, 0x24}
)

var ErrUnsupportedKey = errors.New("unsupported public key encoding")

// DecodePublicKeyMultibase decodes a base58btc Multikey string ("z...") into
// a public key: *secp256k1.PublicKey or *ecdsa.PublicKey (P-256).
func DecodePublicKeyMultibase(s string) (crypto.PublicKey, error) {
	if len(s) < 2 || s[0] != 'z' {
		return nil, ErrUnsupportedKey
	}
	raw, err := base58.Decode(s[1:])
	if err != nil {
		return nil, fmt.Errorf("invalid base58 key: %w", err)
	}
	if len(raw) < 3 {
		return nil, ErrUnsupportedKey
	}

	switch {
	case raw[0] == prefixSecp256k1[0] && raw[1] == prefixSecp256k1[1]:
		key, err := secp256k1.ParsePubKey(raw[2:])
		if err != nil {
			return nil, fmt.Errorf("invalid secp256k1 key: %w", err)
		}
		return key, nil
	case raw[0] == prefixP256[0] && raw[1] == prefixP256[1]:
		x, y := elliptic.UnmarshalCompressed(elliptic.P256(), raw[2:])
		if x == nil {
			return nil, errors.New("invalid p256 key point")
		}
		return &ecdsa.PublicKey{Curve: elliptic.P256(), X: x, Y: y}, nil
	default:
		return nil, ErrUnsupportedKey
	}
}

// EncodePublicKeyMultibase is the inverse of DecodePublicKeyMultibase. It is
// used by key-generation tooling and tests.
func EncodePublicKeyMultibase(key crypto.PublicKey) (string, error) {
	switch k := key.(type) {
	case *secp256k1.PublicKey:
		raw := append(append([]byte{}, prefixSecp256k1...), k.SerializeCompressed()...)
		return "z" + base58.Encode(raw), nil
	case *ecdsa.PublicKey:
		if k.Curve != elliptic.P256() {
			return "", ErrUnsupportedKey
		}
		compressed := elliptic.MarshalCompressed(k.Curve, k.X, k.Y)
		raw := append(append([]byte{}, prefixP256...), compressed...)
		return "z" + base58.Encode(raw), nil
	default:
		return "", ErrUnsupportedKey
	}
}
